package types

import (
	"io/fs"
)

// FS is the filesystem interface required for rewind operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error

	// Optional operations - implementations should check for support
	// For testing, Lstat can fall back to Stat
	Lstat(name string) (fs.FileInfo, error)
}

// BackupStore copies file content aside before destructive actions.
// Backups are keyed by operation id plus a suffix so repeated
// undo/redo cycles of one operation never collide.
type BackupStore interface {
	// BackupFile copies the current content at sourcePath to a
	// location addressable by id. It returns an empty path and nil
	// error when the source does not exist: undoing a create whose
	// file is already gone is not a fault.
	BackupFile(id, sourcePath string) (string, error)

	// GetBackupURI returns the path of a previously stored backup,
	// or "" if none exists for the id.
	GetBackupURI(id string) string
}

// OperationLookup is the tracker surface strategies may consult for
// cascading lookups. It is read-only: strategies report outcomes, the
// tracker applies transitions.
type OperationLookup interface {
	// Get returns the operation with the given id, or nil
	Get(id string) *Operation

	// Dependents returns the operations that depend on id, in
	// journal (chronological) order
	Dependents(id string) []*Operation
}

// OperationContext is the capability bundle passed into every strategy
// call. The tracker builds a fresh one per undo/redo.
type OperationContext struct {
	// FS is the filesystem to mutate
	FS FS

	// BackupDir is the directory backups are written under
	BackupDir string

	// Backups stores and retrieves pre-action content snapshots
	Backups BackupStore

	// Tracker allows strategies to resolve related operations
	Tracker OperationLookup
}

// Pather provides paths for rewind state
type Pather interface {
	// DataDir returns the XDG data directory for rewind
	DataDir() string

	// ConfigDir returns the XDG config directory for rewind
	ConfigDir() string

	// StateDir returns the XDG state directory for rewind
	StateDir() string

	// BackupsDir returns the directory backups are stored in
	BackupsDir() string

	// JournalFile returns the path of the persisted operation journal
	JournalFile() string
}
