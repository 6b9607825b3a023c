// Package backup implements the on-disk backup store. Backups are
// content snapshots taken immediately before a destructive action,
// keyed by operation id plus an optional suffix (e.g. "-current",
// "-redo") so repeated undo/redo cycles never overwrite the
// immediately-prior state of a different phase.
package backup

import (
	"path/filepath"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/types"
)

// backupExt is appended to every backup file
const backupExt = ".bak"

// Store is a filesystem-backed types.BackupStore. Each (id, suffix)
// pair maps to a unique file, so concurrent writers need no locking
// beyond the filesystem's own write atomicity. Backups are never
// deleted by this store; cleanup is an external concern.
type Store struct {
	fs  types.FS
	dir string
}

// NewStore creates a backup store rooted at dir.
func NewStore(fs types.FS, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

// Dir returns the directory backups are written under.
func (s *Store) Dir() string {
	return s.dir
}

// BackupFile copies the current content at sourcePath into the store.
// A missing source is not a fault: undoing a create whose file is
// already gone has nothing to preserve, so it returns ("", nil).
func (s *Store) BackupFile(id, sourcePath string) (string, error) {
	logger := logging.GetLogger("backup")

	if id == "" {
		return "", errors.New(errors.ErrInvalidInput, "backup id cannot be empty")
	}

	data, err := s.fs.ReadFile(sourcePath)
	if err != nil {
		if _, statErr := s.fs.Stat(sourcePath); statErr != nil {
			logger.Debug().Str("source", sourcePath).Msg("Nothing to back up, source missing")
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrBackupFailed,
			"failed to read %s for backup", sourcePath)
	}

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed,
			"failed to create backup directory %s", s.dir)
	}

	target := s.pathFor(id)
	if err := s.fs.WriteFile(target, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrBackupFailed,
			"failed to write backup %s", target)
	}

	logger.Debug().
		Str("id", id).
		Str("source", sourcePath).
		Str("backup", target).
		Int("bytes", len(data)).
		Msg("Backup written")

	return target, nil
}

// GetBackupURI returns the stored backup path for id, or "" when no
// backup was ever taken under that key.
func (s *Store) GetBackupURI(id string) string {
	target := s.pathFor(id)
	if _, err := s.fs.Stat(target); err != nil {
		return ""
	}
	return target
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.dir, id+backupExt)
}
