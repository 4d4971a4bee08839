package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/lifegame-cli/internal/config"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// PickerItem represents one option in the picker. Disabled items are shown
// but cannot be selected.
type PickerItem struct {
	Label    string
	Desc     string
	Disabled bool
}

// PickerResult holds the outcome of a picker interaction.
type PickerResult struct {
	Index   int
	Aborted bool
}

type pickerModel struct {
	title   string
	items   []PickerItem
	footer  string
	cursor  int
	chosen  bool
	aborted bool
	theme   config.ThemeConfig
}

func newPickerModel(title string, items []PickerItem, footer string, theme config.ThemeConfig) pickerModel {
	m := pickerModel{title: title, items: items, footer: footer, theme: theme}
	for i, item := range items {
		if !item.Disabled {
			m.cursor = i
			break
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.items) == 0 || m.items[m.cursor].Disabled {
				return m, nil
			}
			m.chosen = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone)).Strikethrough(true)
	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	arrowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + "\n\n")

	for i, item := range m.items {
		line := fmt.Sprintf(" %-26s %s", item.Label, item.Desc)
		switch {
		case item.Disabled:
			b.WriteString("   " + doneStyle.Render(line) + "\n")
		case i == m.cursor:
			b.WriteString(fmt.Sprintf("  %s%s\n", arrowStyle.Render("▸"), activeStyle.Render(line)))
		default:
			b.WriteString("   " + itemStyle.Render(line) + "\n")
		}
	}

	if m.footer != "" {
		b.WriteString("\n")
		b.WriteString(footerStyle.Render("  "+m.footer) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("  ↑/↓ navigate · enter select · esc back") + "\n")

	return b.String()
}

// --- Horizontal picker (for short choices such as food quality) ---

type hPickerModel struct {
	title   string
	items   []PickerItem
	footer  string
	cursor  int
	chosen  bool
	aborted bool
	theme   config.ThemeConfig
}

func (m hPickerModel) Init() tea.Cmd { return nil }

func (m hPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		k := msg.String()
		switch k {
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		default:
			// Number keys pick directly.
			if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
				if idx := int(k[0] - '1'); idx < len(m.items) {
					m.cursor = idx
					m.chosen = true
					return m, tea.Quit
				}
			}
		}
	}
	return m, nil
}

func (m hPickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorPrimary)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString(titleStyle.Render("  "+m.title) + "  ")

	for i, item := range m.items {
		label := fmt.Sprintf("%d %s %s", i+1, item.Label, item.Desc)
		if i == m.cursor {
			b.WriteString(activeStyle.Render(" ▸ " + label + " "))
		} else {
			b.WriteString(dimStyle.Render("   " + label + " "))
		}
	}
	b.WriteString("\n")

	if m.footer != "" {
		b.WriteString(dimStyle.Render("  "+m.footer) + "\n")
	}

	b.WriteString(dimStyle.Render("  ←/→ navigate · 1-9 or enter select · esc cancel") + "\n")

	return b.String()
}

// RunHorizontalPicker launches a compact horizontal arrow-key picker.
func RunHorizontalPicker(title string, items []PickerItem, footer string, theme *config.ThemeConfig) PickerResult {
	m := hPickerModel{
		title:  title,
		items:  items,
		footer: footer,
		theme:  resolveTheme(theme),
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(hPickerModel)
	if final.aborted || !final.chosen {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.cursor}
}

// RunPicker launches an interactive arrow-key picker and returns the selected index.
func RunPicker(title string, items []PickerItem, footer string, theme *config.ThemeConfig) PickerResult {
	m := newPickerModel(title, items, footer, resolveTheme(theme))

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted || !final.chosen {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Index: final.cursor}
}

// FoodQualityItems returns the picker items for rating a meal, best first.
func FoodQualityItems() []PickerItem {
	items := make([]PickerItem, len(domain.FoodQualities))
	for i, q := range domain.FoodQualities {
		items[i] = PickerItem{
			Label: q.Label(),
			Desc:  fmt.Sprintf("(+%d)", q.Bonus()),
		}
	}
	return items
}

// RunFoodQualityPicker asks how healthy a meal was. It returns nil when the
// user backs out.
func RunFoodQualityPicker(meal string, theme *config.ThemeConfig) *domain.FoodQuality {
	result := RunHorizontalPicker(
		fmt.Sprintf("How healthy was your %s?", strings.ToLower(meal)),
		FoodQualityItems(),
		"",
		theme,
	)
	if result.Aborted {
		return nil
	}
	q := domain.FoodQualities[result.Index]
	return &q
}

// --- Styled text prompt ---

// TextPromptResult holds the outcome of a text prompt.
type TextPromptResult struct {
	Value   string
	Aborted bool
}

type textPromptModel struct {
	title       string
	placeholder string
	input       textinput.Model
	aborted     bool
	theme       config.ThemeConfig
}

func (m textPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textPromptModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + " ")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("  enter confirm · esc back") + "\n")

	return b.String()
}

// RunTextPrompt launches a styled text input prompt.
func RunTextPrompt(title string, placeholder string, theme *config.ThemeConfig) TextPromptResult {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	m := textPromptModel{
		title:       title,
		placeholder: placeholder,
		input:       ti,
		theme:       resolveTheme(theme),
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return TextPromptResult{Aborted: true}
	}

	final := result.(textPromptModel)
	if final.aborted {
		return TextPromptResult{Aborted: true}
	}
	return TextPromptResult{Value: strings.TrimSpace(final.input.Value())}
}
