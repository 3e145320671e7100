// Package snapshot persists rank snapshots between leaderboard runs.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/maidenover/standings/internal/domain/model"
)

// Store provides read/write access to the per-scope rank snapshots. A scope
// identifies one leaderboard lineage (winner, margin, combined, ...).
type Store interface {
	// Load returns the previous snapshot for scope.
	// Returns ErrNotFound if no snapshot was ever saved for the scope and
	// ErrUnreadable if one exists but cannot be parsed.
	Load(ctx context.Context, scope string) (model.Snapshot, error)

	// Save persists the snapshot as the new baseline for scope. Either the
	// whole snapshot becomes visible or the previous one stays untouched.
	Save(ctx context.Context, scope string, snap model.Snapshot) error
}

const snapshotFileMode = 0o644

// FileStore keeps one JSON snapshot file per scope under a root directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed snapshot store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(scope string) string {
	return filepath.Join(s.dir, scope+".json")
}

// Load reads the previous snapshot for scope.
func (s *FileStore) Load(ctx context.Context, scope string) (model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	data, err := os.ReadFile(s.path(scope))
	if errors.Is(err, os.ErrNotExist) {
		return model.Snapshot{}, fmt.Errorf("scope %q: %w", scope, ErrNotFound)
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("scope %q: %w: %w", scope, ErrUnreadable, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("scope %q: %w: %w", scope, ErrUnreadable, err)
	}
	return snap, nil
}

// Save writes the snapshot to a temp file and renames it into place, so a
// failed run never leaves a partially written baseline behind.
func (s *FileStore) Save(ctx context.Context, scope string, snap model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	tmp, err := os.CreateTemp(s.dir, scope+".*.tmp")
	if err != nil {
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	if err := os.Chmod(tmpName, snapshotFileMode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	if err := os.Rename(tmpName, s.path(scope)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("scope %q: %w", scope, err)
	}
	return nil
}
