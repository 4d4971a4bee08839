package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show points, level and today's progress",
	Long:  `Display your points, level, XP and how many of today's tasks are done.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	summary := app.progression.Summary()
	if jsonOutput {
		return outputStatusJSON(cmd.OutOrStdout(), summary)
	}
	printStatusText(cmd.OutOrStdout(), summary)
	return nil
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, s domain.Summary) error {
	result := map[string]interface{}{
		"date":              s.Date,
		"points":            s.Points,
		"level":             s.Level,
		"xp":                s.XP,
		"xp_for_next_level": s.XPForNextLevel,
		"today": map[string]interface{}{
			"completed": s.Completed,
			"total":     s.Total,
			"progress":  s.Progress,
		},
		"month_completed": s.MonthCompleted,
	}
	return writeJSON(w, result, "status")
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, s domain.Summary) {
	theme := app.config.Theme
	fmt.Fprintf(w, "%s Life Game  ·  %s\n", theme.IconApp, s.Date)
	fmt.Fprintf(w, "   %s Level %d (%d/%d XP)\n", theme.IconLevel, s.Level, s.XP, s.XPForNextLevel)
	fmt.Fprintf(w, "   %s Points: %d\n", theme.IconPoints, s.Points)
	fmt.Fprintf(w, "\n📊 Today: %d/%d tasks (%.0f%%)\n", s.Completed, s.Total, s.Progress*100)
	fmt.Fprintf(w, "   This month: %d tasks completed\n", s.MonthCompleted)
}
