package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/tui"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

var (
	customTime   string
	customName   string
	customEffort int
	customMeal   bool
)

// customCmd groups the custom task commands.
var customCmd = &cobra.Command{
	Use:   "custom",
	Short: "Manage your own tasks",
	Long: `Add, edit, delete and list custom tasks. Custom tasks appear every day
next to the built-in routine. Tasks are addressed by the number shown in
"lifegame custom list".`,
}

var customListCmd = &cobra.Command{
	Use:   "list",
	Short: "List custom tasks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCustomTasks(cmd.OutOrStdout(), app.progression.CustomTasks())
	},
}

var customAddCmd = &cobra.Command{
	Use:   "add [HH:MM] [name]",
	Short: "Add a custom task",
	Long: `Add a custom task scheduled at HH:MM (24-hour).
Missing values are asked for interactively when a terminal is attached.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hhmm, name := customTime, customName
		if len(args) > 0 {
			hhmm = args[0]
		}
		if len(args) > 1 {
			name = args[1]
		}

		var ok bool
		if hhmm, ok = promptIfEmpty(hhmm, "Time (HH:MM):", "07:30"); !ok {
			return nil
		}
		if name, ok = promptIfEmpty(name, "Task name:", ""); !ok {
			return nil
		}

		task, err := app.progression.AddCustomTask(cmd.Context(), hhmm, name, customEffort, customMeal)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), taskJSON(len(app.progression.CustomTasks()), *task), "task")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "➕ Added %s at %s (effort %d)\n", task.Name, task.Time, task.Effort)
		return nil
	},
}

var customEditCmd = &cobra.Command{
	Use:   "edit <number>",
	Short: "Edit a custom task",
	Long: `Edit a custom task. Only the flags you pass are changed.
Renaming a task also renames it in the completion history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}
		tasks := app.progression.CustomTasks()
		if index < 0 || index >= len(tasks) {
			return fmt.Errorf("custom task %s: %w", args[0], domain.ErrNotFound)
		}

		current := tasks[index]
		hhmm, name, effort, isMeal := current.Time, current.Name, current.Effort, current.IsMeal
		flags := cmd.Flags()
		if flags.Changed("time") {
			hhmm = customTime
		}
		if flags.Changed("name") {
			name = customName
		}
		if flags.Changed("effort") {
			effort = customEffort
		}
		if flags.Changed("meal") {
			isMeal = customMeal
		}

		task, err := app.progression.EditCustomTask(cmd.Context(), index, hhmm, name, effort, isMeal)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), taskJSON(index+1, *task), "task")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated %s\n", task.Name)
		return nil
	},
}

var customDeleteCmd = &cobra.Command{
	Use:     "delete <number>",
	Aliases: []string{"rm"},
	Short:   "Delete a custom task",
	Long:    `Delete a custom task. Its past completions stay in the history.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseTaskNumber(args[0])
		if err != nil {
			return err
		}
		task, err := app.progression.DeleteCustomTask(cmd.Context(), index)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{"deleted": task.Name}, "task")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted %s\n", task.Name)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{customAddCmd, customEditCmd} {
		c.Flags().StringVarP(&customTime, "time", "t", "", "Scheduled time as HH:MM")
		c.Flags().StringVarP(&customName, "name", "n", "", "Task name")
		c.Flags().IntVarP(&customEffort, "effort", "e", domain.MinEffort, "Effort level from 1 (easy) to 3 (hard)")
		c.Flags().BoolVarP(&customMeal, "meal", "m", false, "Rate the task as a meal")
	}

	customCmd.AddCommand(customListCmd)
	customCmd.AddCommand(customAddCmd)
	customCmd.AddCommand(customEditCmd)
	customCmd.AddCommand(customDeleteCmd)
}

// parseTaskNumber converts the 1-based number shown to users into an index.
func parseTaskNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q: %w", s, domain.ErrNotFound)
	}
	return n - 1, nil
}

// promptIfEmpty returns value, or asks for it when it is empty and a
// terminal is attached. ok is false when the user backs out.
func promptIfEmpty(value, title, placeholder string) (string, bool) {
	if strings.TrimSpace(value) != "" || !interactive() {
		return value, true
	}
	result := tui.RunTextPrompt(title, placeholder, &app.config.Theme)
	if result.Aborted {
		return "", false
	}
	return result.Value, true
}

func taskJSON(number int, t domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"number":  number,
		"time":    t.Time,
		"name":    t.Name,
		"effort":  t.Effort,
		"is_meal": t.IsMeal,
	}
}

func printCustomTasks(w io.Writer, tasks []domain.Task) error {
	if jsonOutput {
		list := make([]map[string]interface{}, 0, len(tasks))
		for i, t := range tasks {
			list = append(list, taskJSON(i+1, t))
		}
		return writeJSON(w, map[string]interface{}{"tasks": list, "count": len(list)}, "tasks")
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, `No custom tasks yet. Add one with "lifegame custom add".`)
		return nil
	}

	fmt.Fprintf(w, "📝 Custom tasks (%d):\n\n", len(tasks))
	for i, t := range tasks {
		meal := ""
		if t.IsMeal {
			meal = " " + app.config.Theme.IconMeal
		}
		fmt.Fprintf(w, "  %d. %s  %s%s %s\n", i+1, t.Time, t.Name, meal, t.EffortDots())
	}
	return nil
}
