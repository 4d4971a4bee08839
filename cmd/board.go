package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/notification"
	"github.com/xvierd/lifegame-cli/internal/adapters/tui"
)

// boardNotificationBuffer bounds toasts queued while the board is busy.
const boardNotificationBuffer = 32

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive board",
	Long: `Open the full-screen board with today's tasks, the reward store and the
monthly calendar. Use tab to switch screens and enter to complete or redeem.`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	if !interactive() {
		return errors.New("the board needs a terminal")
	}

	ctx, cancel := setupSignalHandler(cmd.Context())
	defer cancel()

	// Toasts replace console output while the board owns the screen.
	sink := tui.NewChannelNotifier(boardNotificationBuffer)
	app.progression.SetNotifier(notification.Fanout{sink, app.desktop})

	return tui.RunBoard(ctx, app.progression, sink.C(), &app.config.Theme, time.Duration(app.config.Board.ToastDuration))
}
