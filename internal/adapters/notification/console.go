package notification

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/lifegame-cli/internal/config"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// Console prints status messages to a writer, one per line, colored by kind.
type Console struct {
	w      io.Writer
	styles map[domain.NotificationKind]lipgloss.Style
}

// NewConsole creates a console notifier writing to w.
func NewConsole(w io.Writer, theme config.ThemeConfig) *Console {
	color := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Console{
		w: w,
		styles: map[domain.NotificationKind]lipgloss.Style{
			domain.NotificationSuccess:    color(theme.ColorSuccess),
			domain.NotificationWarning:    color(theme.ColorWarning),
			domain.NotificationError:      color(theme.ColorError),
			domain.NotificationInfo:       color(theme.ColorTask),
			domain.NotificationLevelUp:    color(theme.ColorPrimary).Bold(true),
			domain.NotificationBonus:      color(theme.ColorAccent).Bold(true),
			domain.NotificationMonthReset: color(theme.ColorPrimary),
		},
	}
}

// Notify implements ports.Notifier.
func (c *Console) Notify(msg domain.Notification) {
	style, ok := c.styles[msg.Kind]
	if !ok {
		fmt.Fprintln(c.w, msg.Message)
		return
	}
	fmt.Fprintln(c.w, style.Render(msg.Message))
}
