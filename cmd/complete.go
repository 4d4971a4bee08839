package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/tui"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

var completeQuality string

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:     "complete [task name]",
	Aliases: []string{"done"},
	Short:   "Mark one of today's tasks as done",
	Long: `Mark one of today's tasks as done and collect its points and XP.
Partial names are matched. Meals need a food quality: sana, neutra or no_sana.
Without a name, an interactive picker is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		task, ok, err := resolveTask(strings.Join(args, " "))
		if err != nil || !ok {
			return err
		}

		var quality *domain.FoodQuality
		if completeQuality != "" {
			q, err := domain.ParseFoodQuality(completeQuality)
			if err != nil {
				return err
			}
			quality = &q
		} else if task.IsMeal && interactive() {
			quality = tui.RunFoodQualityPicker(task.Name, &app.config.Theme)
			if quality == nil {
				// Backing out of the rating leaves the meal pending.
				return nil
			}
		}

		completion, err := app.progression.CompleteTask(cmd.Context(), task.Task, quality)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputCompletionJSON(cmd.OutOrStdout(), completion)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVarP(&completeQuality, "quality", "q", "", "Food quality for meals: sana, neutra, no_sana")
}

// resolveTask finds the task to act on. An empty name opens the picker when
// a terminal is attached; ok is false when the user backs out.
func resolveTask(name string) (task domain.DayTask, ok bool, err error) {
	if strings.TrimSpace(name) != "" {
		task, err = app.progression.FindTask(name)
		if err != nil {
			return task, false, fmt.Errorf("no task matches %q: %w", name, err)
		}
		return task, true, nil
	}

	if !interactive() {
		return task, false, errors.New("task name required")
	}

	tasks := app.progression.TodayTasks()
	items := make([]tui.PickerItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, tui.PickerItem{
			Label:    fmt.Sprintf("%s  %s", t.Time, t.Name),
			Desc:     fmt.Sprintf("%s +%d", t.EffortDots(), t.BasePoints()),
			Disabled: t.Completed,
		})
	}
	result := tui.RunPicker("Complete which task?", items, "", &app.config.Theme)
	if result.Aborted {
		return task, false, nil
	}
	return tasks[result.Index], true, nil
}

func outputCompletionJSON(w io.Writer, c *domain.Completion) error {
	levelUps := make([]map[string]interface{}, 0, len(c.LevelUps))
	for _, up := range c.LevelUps {
		levelUps = append(levelUps, map[string]interface{}{
			"level": up.Level,
			"bonus": up.Bonus,
		})
	}
	result := map[string]interface{}{
		"task":         c.Task.Name,
		"points":       c.Points,
		"xp":           c.XP,
		"level":        c.Level,
		"total_points": c.TotalPoints,
		"level_ups":    levelUps,
	}
	if c.Quality != "" {
		result["food_quality"] = string(c.Quality)
	}
	return writeJSON(w, result, "completion")
}
