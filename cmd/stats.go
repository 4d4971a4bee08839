package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

const dashboardBarWidth = 30

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of your progress",
	Long:  `Display a terminal dashboard with your level, points, today's progress and this month's activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		summary := app.progression.Summary()
		level := app.progression.LevelProgress()
		days := app.progression.Calendar()

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"level":           level.Level,
				"xp":              level.XP,
				"xp_required":     level.Required,
				"level_percent":   level.Percent(),
				"points":          summary.Points,
				"today_completed": summary.Completed,
				"today_total":     summary.Total,
				"month_completed": summary.MonthCompleted,
				"active_days":     len(days),
			}, "stats")
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), summary, level, days)
		return nil
	},
}

func renderDashboard(w io.Writer, summary domain.Summary, level domain.LevelProgress, days []domain.CalendarDay) {
	theme := app.config.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorPrimary))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTitle))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorAccent))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorPrimary))
	emptyColor := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorDone))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(fmt.Sprintf("%s Level %d", theme.IconLevel, level.Level)))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	// Progress bars
	xpFilled := fillWidth(level.Percent(), dashboardBarWidth)
	fmt.Fprintf(w, "  %s %s%s %s\n",
		dimStyle.Render(fmt.Sprintf("%-6s", "XP")),
		barColor.Render(buildBar(xpFilled)),
		emptyColor.Render(buildEmptyBar(dashboardBarWidth-xpFilled)),
		valueStyle.Render(fmt.Sprintf("%d/%d", level.XP, level.Required)),
	)
	todayFilled := fillWidth(summary.Progress, dashboardBarWidth)
	fmt.Fprintf(w, "  %s %s%s %s\n\n",
		dimStyle.Render(fmt.Sprintf("%-6s", "Today")),
		barColor.Render(buildBar(todayFilled)),
		emptyColor.Render(buildEmptyBar(dashboardBarWidth-todayFilled)),
		valueStyle.Render(fmt.Sprintf("%d/%d", summary.Completed, summary.Total)),
	)

	// Summary line
	fmt.Fprintf(w, "  Points: %s   This month: %s tasks on %s days\n\n",
		valueStyle.Render(fmt.Sprintf("%d", summary.Points)),
		valueStyle.Render(fmt.Sprintf("%d", summary.MonthCompleted)),
		valueStyle.Render(fmt.Sprintf("%d", len(days))),
	)

	if len(days) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed tasks this month yet."))
		return
	}

	// Bar chart: tasks per day, newest first
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Tasks per day"))
	maxCount := 0
	for _, d := range days {
		if d.Total > maxCount {
			maxCount = d.Total
		}
	}
	for _, d := range days {
		barWidth := 0
		if maxCount > 0 {
			barWidth = int(math.Round(float64(d.Total) / float64(maxCount) * float64(dashboardBarWidth)))
		}
		fmt.Fprintf(w, "  %s %s %d\n",
			dimStyle.Render(d.Date),
			barColor.Render(buildBar(barWidth)),
			d.Total,
		)
	}
	fmt.Fprintln(w)
}

// fillWidth converts a fraction into a number of filled bar cells.
func fillWidth(fraction float64, width int) int {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return int(math.Round(fraction * float64(width)))
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

func buildEmptyBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("░", width)
}
