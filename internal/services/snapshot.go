package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xvierd/lifegame-cli/internal/domain"
)

// ExportFilePrefix prefixes the default backup file name.
const ExportFilePrefix = "life-game-backup-"

// ExportFileName returns the default backup file name for the given day.
func ExportFileName(now time.Time) string {
	return ExportFilePrefix + domain.DateKey(now) + ".json"
}

// ExportSnapshot returns the full state as indented JSON.
func (s *ProgressionService) ExportSnapshot() ([]byte, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		s.emit(domain.NotificationError, "❌ Export failed")
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	s.emit(domain.NotificationSuccess, "📥 Data exported")
	return data, nil
}

// ImportSnapshot replaces the whole state with doc. doc must carry a numeric
// points field, object-valued completedTasks and history fields and valid
// custom tasks; anything else is rejected with domain.ErrInvalidFormat and the current state is
// left untouched.
func (s *ProgressionService) ImportSnapshot(ctx context.Context, doc []byte) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		s.emit(domain.NotificationError, "❌ Could not read the file")
		return fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	if err := checkSnapshotFields(fields); err != nil {
		s.emit(domain.NotificationError, "❌ Invalid file format")
		return err
	}

	imported := domain.NewState(s.clock.Now())
	if err := json.Unmarshal(doc, imported); err != nil {
		s.emit(domain.NotificationError, "❌ Invalid file format")
		return fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	imported.Normalize()
	if err := imported.ValidateCustomTasks(); err != nil {
		s.emit(domain.NotificationError, "❌ Invalid file format")
		return fmt.Errorf("%w: %w", domain.ErrInvalidFormat, err)
	}

	if err := s.commit(ctx, imported); err != nil {
		return err
	}

	s.logger.Info("state imported", "points", imported.Points, "level", imported.Level)
	s.emit(domain.NotificationSuccess, "📤 Data imported")
	return nil
}

func checkSnapshotFields(fields map[string]json.RawMessage) error {
	points, ok := fields["points"]
	if !ok {
		return fmt.Errorf("%w: missing points", domain.ErrInvalidFormat)
	}
	var n float64
	if bytes.Equal(bytes.TrimSpace(points), []byte("null")) || json.Unmarshal(points, &n) != nil {
		return fmt.Errorf("%w: points is not a number", domain.ErrInvalidFormat)
	}

	for _, key := range []string{"completedTasks", "history"} {
		raw, ok := fields[key]
		if !ok {
			return fmt.Errorf("%w: missing %s", domain.ErrInvalidFormat, key)
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
			return fmt.Errorf("%w: %s is not an object", domain.ErrInvalidFormat, key)
		}
	}
	return nil
}
