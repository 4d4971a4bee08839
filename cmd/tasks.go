package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

var tasksPending bool

// tasksCmd represents the tasks command
var tasksCmd = &cobra.Command{
	Use:     "tasks",
	Aliases: []string{"list", "ls"},
	Short:   "List today's tasks",
	Long:    `List today's routine and custom tasks sorted by time, with their completion state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tasks := app.progression.TodayTasks()
		if tasksPending {
			pending := tasks[:0:0]
			for _, t := range tasks {
				if !t.Completed {
					pending = append(pending, t)
				}
			}
			tasks = pending
		}

		if jsonOutput {
			return outputTasksJSON(cmd.OutOrStdout(), tasks)
		}

		printTasks(cmd.OutOrStdout(), tasks, app.progression.TodayProgress())
		return nil
	},
}

func init() {
	tasksCmd.Flags().BoolVarP(&tasksPending, "pending", "p", false, "Only show tasks not completed today")
}

func outputTasksJSON(w io.Writer, tasks []domain.DayTask) error {
	taskList := make([]map[string]interface{}, 0, len(tasks))
	for _, t := range tasks {
		taskList = append(taskList, map[string]interface{}{
			"time":      t.Time,
			"name":      t.Name,
			"effort":    t.Effort,
			"is_meal":   t.IsMeal,
			"custom":    t.Custom,
			"completed": t.Completed,
			"points":    t.BasePoints(),
		})
	}
	data := map[string]interface{}{
		"tasks": taskList,
		"count": len(taskList),
	}
	return writeJSON(w, data, "tasks")
}

func printTasks(w io.Writer, tasks []domain.DayTask, progress domain.DailyProgress) {
	theme := app.config.Theme
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorDone)).Strikethrough(true)
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTask))
	checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorSuccess))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorHelp))

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks to show.")
		return
	}

	fmt.Fprintf(w, "📋 Today's tasks (%d/%d done):\n\n", progress.Completed, progress.Total)
	for _, t := range tasks {
		check := "○"
		style := taskStyle
		if t.Completed {
			check = checkStyle.Render(theme.IconDone)
			style = doneStyle
		}
		name := t.Name
		if t.IsMeal {
			name += " " + theme.IconMeal
		}
		line := fmt.Sprintf("%s  %-24s %s  +%d", t.Time, name, t.EffortDots(), t.BasePoints())
		fmt.Fprintf(w, "  %s %s", check, style.Render(line))
		if t.Custom {
			fmt.Fprint(w, dimStyle.Render("  (custom)"))
		}
		fmt.Fprintln(w)
	}
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v interface{}, what string) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}
