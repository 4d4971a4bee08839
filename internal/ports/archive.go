package ports

import (
	"context"
)

// ArchiveResult describes where a snapshot was archived.
type ArchiveResult struct {
	Path      string
	Committed bool
	Commit    string
}

// Archiver stores exported snapshots, optionally under version control.
// This is a driven port (implemented by adapters).
type Archiver interface {
	// Archive writes data under name and records it with message.
	Archive(ctx context.Context, name string, data []byte, message string) (*ArchiveResult, error)
}
