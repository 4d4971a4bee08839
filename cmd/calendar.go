package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show this month's completion history",
	Long:  `List every day of the current month with completed tasks, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		days := app.progression.Calendar()

		if jsonOutput {
			dayList := make([]map[string]interface{}, 0, len(days))
			for _, d := range days {
				dayList = append(dayList, map[string]interface{}{
					"date":  d.Date,
					"tasks": d.Tasks,
					"total": d.Total,
					"more":  d.More,
				})
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"days":            dayList,
				"month_completed": app.progression.MonthCompletedCount(),
			}, "calendar")
		}

		printCalendar(cmd.OutOrStdout(), days, app.progression.MonthCompletedCount())
		return nil
	},
}

func printCalendar(w io.Writer, days []domain.CalendarDay, monthTotal int) {
	theme := app.config.Theme
	dateStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorPrimary))
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTask))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))

	if len(days) == 0 {
		fmt.Fprintln(w, "No completed tasks this month yet.")
		return
	}

	fmt.Fprintf(w, "%s %s\n\n", theme.IconCalendar, dimStyle.Render(fmt.Sprintf("%d tasks completed this month", monthTotal)))
	for _, day := range days {
		fmt.Fprintf(w, "  %s %s\n", dateStyle.Render(day.Date), dimStyle.Render(fmt.Sprintf("(%d)", day.Total)))
		line := strings.Join(day.Tasks, ", ")
		if day.More > 0 {
			line += fmt.Sprintf(" +%d more", day.More)
		}
		fmt.Fprintf(w, "    %s\n", taskStyle.Render(line))
	}
}
