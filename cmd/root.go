// Package cmd provides the CLI commands for the Life Game application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/lifegame-cli/internal/adapters/tui"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath       string
	jsonOutput   bool
	logLevelFlag string
	logFileFlag  string

	// interactive reports whether prompts and pickers can be shown.
	interactive = tui.IsTerminal
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lifegame",
	Short: "Life Game - turn your daily routine into points and levels",
	Long: `Life Game tracks a fixed daily routine plus your own custom tasks.
Completing tasks earns points and XP; points buy rewards in the store and
XP raises your level. Points reset at the start of every month.

Run "lifegame" with no arguments to open the interactive board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd.Context(), cmd.ErrOrStderr())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if interactive() && !jsonOutput {
			return runBoard(cmd, args)
		}
		return runStatus(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.lifegame/lifegame.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file instead of stderr")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Life Game CLI\nVersion: {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(redeemCmd)
	rootCmd.AddCommand(customCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetMonthCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(mcpCmd)
}
