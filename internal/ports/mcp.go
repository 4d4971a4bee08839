package ports

import (
	"context"

	"github.com/xvierd/lifegame-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider exposes the progression store to the MCP server and the TUI.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetSummary returns today's figures.
	GetSummary(ctx context.Context) (*domain.Summary, error)

	// TodayTasks returns routine and custom tasks sorted by time.
	TodayTasks(ctx context.Context) ([]domain.DayTask, error)

	// CompleteTask completes the task matching name. Meals need a quality.
	CompleteTask(ctx context.Context, name string, quality *domain.FoodQuality) (*domain.Completion, error)

	// Rewards lists the reward catalog.
	Rewards(ctx context.Context) ([]domain.StoreItem, error)

	// Redeem buys the reward called name.
	Redeem(ctx context.Context, name string) (*domain.StoreItem, error)

	// AddCustomTask creates a custom task.
	AddCustomTask(ctx context.Context, time, name string, effort int, isMeal bool) (*domain.Task, error)

	// Calendar returns the current month's history, newest first.
	Calendar(ctx context.Context) ([]domain.CalendarDay, error)
}
