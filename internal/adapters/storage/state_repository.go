package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/lifegame-cli/internal/domain"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

// StateKey is the fixed key the state document is stored under.
const StateKey = "lifeGameData"

// stateRepository implements ports.StateRepository on the kv table.
type stateRepository struct {
	db *sql.DB
}

// newStateRepository creates a new state repository.
func newStateRepository(db *sql.DB) ports.StateRepository {
	return &stateRepository{db: db}
}

// Load retrieves and decodes the state document.
func (r *stateRepository) Load(ctx context.Context) (*domain.PersistedState, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, StateKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}

	var state domain.PersistedState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("%w: stored state: %v", domain.ErrParse, err)
	}
	state.Normalize()

	return &state, nil
}

// Save encodes the state and replaces the stored document.
func (r *stateRepository) Save(ctx context.Context, state *domain.PersistedState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, StateKey, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}

	return nil
}
