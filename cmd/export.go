package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/git"
	"github.com/xvierd/lifegame-cli/internal/services"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your progress to a JSON backup",
	Long: `Export the full progress state as pretty-printed JSON.
By default the backup is written to the backup directory as
life-game-backup-YYYY-MM-DD.json, and committed to a git repository there
when backup.git is enabled. Use --out - to print it instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := app.progression.ExportSnapshot()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch exportOut {
		case "-":
			_, err := fmt.Fprintln(out, string(data))
			return err
		case "":
			now := app.progression.Now()
			name := services.ExportFileName(now)
			result, err := app.archiver.Archive(cmd.Context(), name, data, "Backup "+now.Format("2006-01-02"))
			if err != nil {
				return fmt.Errorf("failed to archive backup: %w", err)
			}
			app.logger.Debug("backup archived", "path", result.Path, "committed", result.Committed)
			if jsonOutput {
				return writeJSON(out, map[string]interface{}{
					"path":      result.Path,
					"committed": result.Committed,
					"commit":    result.Commit,
				}, "export")
			}
			fmt.Fprintf(out, "💾 Backup written to %s\n", result.Path)
			if result.Committed {
				fmt.Fprintf(out, "   Committed as %s\n", git.GetShortCommit(result.Commit))
			}
			return nil
		default:
			if err := os.MkdirAll(filepath.Dir(exportOut), 0750); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}
			if err := os.WriteFile(exportOut, data, 0600); err != nil {
				return fmt.Errorf("failed to write backup: %w", err)
			}
			if jsonOutput {
				return writeJSON(out, map[string]interface{}{"path": exportOut, "committed": false}, "export")
			}
			fmt.Fprintf(out, "💾 Backup written to %s\n", exportOut)
			return nil
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace your progress with a JSON backup",
	Long: `Import a backup written by "lifegame export". The whole state is replaced.
Malformed JSON or a document missing points, completedTasks or history is
rejected and nothing changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}

		if err := app.progression.ImportSnapshot(cmd.Context(), data); err != nil {
			return err
		}

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), app.progression.Summary())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Imported %s\n", args[0])
		return nil
	},
}

var resetMonthCmd = &cobra.Command{
	Use:   "reset-month",
	Short: "Start the month over",
	Long: `Reset points and this month's completions to zero.
Level, XP and the completion history are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.progression.ResetMonth(cmd.Context()); err != nil {
			return err
		}
		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), app.progression.Summary())
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write the backup to this file, or - for stdout")
}
