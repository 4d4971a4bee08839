// Package git provides versioned snapshot backups using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/xvierd/lifegame-cli/internal/ports"
)

const (
	authorName  = "lifegame"
	authorEmail = "lifegame@localhost"
)

// Archiver implements the ports.Archiver interface. Snapshots are written
// into a directory which, when versioning is on, is also a git repository
// with one commit per archived snapshot.
type Archiver struct {
	dir       string
	versioned bool
	now       func() time.Time
}

// NewArchiver creates an archiver writing into dir.
func NewArchiver(dir string, versioned bool) *Archiver {
	return &Archiver{dir: dir, versioned: versioned, now: time.Now}
}

// Ensure Archiver implements ports.Archiver.
var _ ports.Archiver = (*Archiver)(nil)

// Archive writes data to name inside the archive directory and, when
// versioned, commits it. Archiving identical content twice produces no
// second commit.
func (a *Archiver) Archive(ctx context.Context, name string, data []byte, message string) (*ports.ArchiveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid archive name %q", name)
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	result := &ports.ArchiveResult{Path: path}
	if !a.versioned {
		return result, nil
	}

	commit, err := a.commit(name, message)
	if err != nil {
		return nil, err
	}
	if commit != "" {
		result.Committed = true
		result.Commit = commit
	}
	return result, nil
}

// commit stages name and commits it. It returns an empty hash when there
// was nothing to commit.
func (a *Archiver) commit(name, message string) (string, error) {
	repo, err := openOrInit(a.dir)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	if _, err := worktree.Add(name); err != nil {
		return "", fmt.Errorf("failed to stage backup: %w", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  a.now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to commit backup: %w", err)
	}
	return hash.String(), nil
}

func openOrInit(dir string) (*git.Repository, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open backup repository: %w", err)
	}
	return repo, nil
}

// GetShortCommit returns a shortened commit hash.
func GetShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
