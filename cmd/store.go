package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/tui"
	"github.com/xvierd/lifegame-cli/internal/domain"
)

// storeCmd represents the store command
var storeCmd = &cobra.Command{
	Use:     "store",
	Aliases: []string{"rewards"},
	Short:   "Show the reward store",
	Long:    `List the rewards that can be bought with points.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rewards := app.progression.Rewards()
		points := app.progression.Points()

		if jsonOutput {
			items := make([]map[string]interface{}, 0, len(rewards))
			for _, item := range rewards {
				items = append(items, map[string]interface{}{
					"name":       item.Name,
					"cost":       item.Cost,
					"affordable": item.Cost <= points,
				})
			}
			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"rewards": items,
				"points":  points,
			}, "rewards")
		}

		printStore(cmd.OutOrStdout(), rewards, points)
		return nil
	},
}

// redeemCmd represents the redeem command
var redeemCmd = &cobra.Command{
	Use:   "redeem [reward name]",
	Short: "Spend points on a reward",
	Long: `Spend points on a reward from the store.
Without a name, an interactive picker is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))

		if name == "" {
			if !interactive() {
				return errors.New("reward name required")
			}
			item, ok := pickReward()
			if !ok {
				return nil
			}
			if err := app.progression.Redeem(cmd.Context(), item); err != nil {
				return err
			}
			return outputRedeemJSON(cmd.OutOrStdout(), item)
		}

		item, err := app.progression.RedeemByName(cmd.Context(), name)
		if err != nil {
			return err
		}
		return outputRedeemJSON(cmd.OutOrStdout(), *item)
	},
}

func pickReward() (domain.StoreItem, bool) {
	rewards := app.progression.Rewards()
	points := app.progression.Points()

	items := make([]tui.PickerItem, 0, len(rewards))
	for _, r := range rewards {
		items = append(items, tui.PickerItem{
			Label:    r.Name,
			Desc:     fmt.Sprintf("%d %s", r.Cost, app.config.Theme.IconPoints),
			Disabled: r.Cost > points,
		})
	}
	footer := fmt.Sprintf("You have %d points", points)
	result := tui.RunPicker("Redeem which reward?", items, footer, &app.config.Theme)
	if result.Aborted {
		return domain.StoreItem{}, false
	}
	return rewards[result.Index], true
}

func outputRedeemJSON(w io.Writer, item domain.StoreItem) error {
	if !jsonOutput {
		return nil
	}
	return writeJSON(w, map[string]interface{}{
		"redeemed": item.Name,
		"cost":     item.Cost,
		"points":   app.progression.Points(),
	}, "redemption")
}

func printStore(w io.Writer, rewards []domain.StoreItem, points int) {
	theme := app.config.Theme
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.ColorPrimary))
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorTask))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.ColorDone))

	fmt.Fprintf(w, "%s\n\n", titleStyle.Render(fmt.Sprintf("%s Store  ·  %d points", theme.IconStore, points)))
	for _, item := range rewards {
		line := fmt.Sprintf("%-28s %4d %s", item.Name, item.Cost, theme.IconPoints)
		if item.Cost > points {
			fmt.Fprintf(w, "  %s\n", dimStyle.Render(line))
			continue
		}
		fmt.Fprintf(w, "  %s\n", itemStyle.Render(line))
	}
}
