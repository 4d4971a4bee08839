package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/tui"
	"github.com/xvierd/lifegame-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit settings",
	Long: `Show the current settings. With a terminal attached, toggle desktop
notifications, notification sound and git-versioned backups; changes are
saved to ~/.lifegame/config.toml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if jsonOutput {
			return writeJSON(out, configJSON(app.config), "config")
		}

		printConfig(out, app.config)
		if !interactive() {
			return nil
		}

		for {
			items := []tui.PickerItem{
				{Label: "Notifications", Desc: onOff(app.config.Notifications.Enabled)},
				{Label: "Notification sound", Desc: onOff(app.config.Notifications.Sound), Disabled: !app.config.Notifications.Enabled},
				{Label: "Git-versioned backups", Desc: onOff(app.config.Backup.Git)},
				{Label: "Save and quit"},
			}
			result := tui.RunPicker("What would you like to change?", items, "esc quits without saving", &app.config.Theme)
			if result.Aborted {
				fmt.Fprintln(out, "No changes saved.")
				return nil
			}

			switch result.Index {
			case 0:
				app.config.Notifications.Enabled = !app.config.Notifications.Enabled
			case 1:
				app.config.Notifications.Sound = !app.config.Notifications.Sound
			case 2:
				app.config.Backup.Git = !app.config.Backup.Git
			default:
				if err := config.Save(app.config); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
				fmt.Fprintln(out, "✅ Settings saved.")
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func configJSON(cfg *config.Config) map[string]interface{} {
	rewards := make([]map[string]interface{}, 0, len(cfg.Store.Items))
	for _, item := range cfg.Store.Items {
		rewards = append(rewards, map[string]interface{}{"name": item.Name, "cost": item.Cost})
	}
	return map[string]interface{}{
		"data_dir":              cfg.Storage.DataDir,
		"notifications_enabled": cfg.Notifications.Enabled,
		"notifications_sound":   cfg.Notifications.Sound,
		"log_level":             cfg.Log.Level,
		"log_file":              cfg.Log.File,
		"backup_dir":            cfg.Backup.Dir,
		"backup_git":            cfg.Backup.Git,
		"store_items":           rewards,
		"toast_duration":        cfg.Board.ToastDuration.String(),
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Current configuration:")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    Data directory:   %s\n", cfg.Storage.DataDir)
	fmt.Fprintf(w, "    Backups:          %s (git %s)\n", cfg.Backup.Dir, onOff(cfg.Backup.Git))

	notifStatus := onOff(cfg.Notifications.Enabled)
	if cfg.Notifications.Enabled && cfg.Notifications.Sound {
		notifStatus = "on (with sound)"
	}
	fmt.Fprintf(w, "    Notifications:    %s\n", notifStatus)

	logDest := cfg.Log.File
	if logDest == "" {
		logDest = "stderr"
	}
	fmt.Fprintf(w, "    Log:              %s to %s\n", cfg.Log.Level, logDest)
	fmt.Fprintf(w, "    Toast duration:   %s\n", time.Duration(cfg.Board.ToastDuration))

	if len(cfg.Store.Items) == 0 {
		fmt.Fprintln(w, "    Store:            built-in rewards")
	} else {
		fmt.Fprintf(w, "    Store:            %d custom rewards\n", len(cfg.Store.Items))
	}
	fmt.Fprintln(w)
}
