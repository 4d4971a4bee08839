// Package ports defines the interfaces (driven and driving ports)
// for the lifegame application following hexagonal architecture principles.
// These interfaces define the contracts between the services layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/lifegame-cli/internal/domain"
)

// StateRepository defines the interface for persisting the progression state.
// The state is stored as one document under one fixed key.
// This is a driven port (implemented by adapters).
type StateRepository interface {
	// Load returns the stored state, or nil when nothing has been saved yet.
	// A stored document that cannot be decoded yields an error matching
	// domain.ErrParse.
	Load(ctx context.Context) (*domain.PersistedState, error)

	// Save replaces the stored state.
	Save(ctx context.Context, state *domain.PersistedState) error
}

// Storage is the combined persistence interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// State provides access to the progression state document.
	State() StateRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
