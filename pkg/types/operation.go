package types

import (
	"time"

	"github.com/google/uuid"
)

// OperationKind identifies what an agent action did to the filesystem.
// The set is closed and versioned; it is never extended at runtime.
type OperationKind string

const (
	// KindFileCreate records a new file being written
	KindFileCreate OperationKind = "file_create"

	// KindFileEdit records a single exact-substring replacement in a file
	KindFileEdit OperationKind = "file_edit"

	// KindMultiEdit records an ordered list of substring replacements
	// applied sequentially to one file
	KindMultiEdit OperationKind = "multi_edit"

	// KindFileDelete records a file being removed
	KindFileDelete OperationKind = "file_delete"

	// KindFileRename records a file being moved
	KindFileRename OperationKind = "file_rename"

	// KindDirectoryCreate records a directory being created
	KindDirectoryCreate OperationKind = "directory_create"

	// KindDirectoryDelete records a directory tree being removed
	KindDirectoryDelete OperationKind = "directory_delete"

	// KindBashCommand records a shell command execution. Commands are
	// not programmatically reversible; the strategy always reports so.
	KindBashCommand OperationKind = "bash_command"
)

// Kinds returns all operation kinds in a stable order.
func Kinds() []OperationKind {
	return []OperationKind{
		KindFileCreate,
		KindFileEdit,
		KindMultiEdit,
		KindFileDelete,
		KindFileRename,
		KindDirectoryCreate,
		KindDirectoryDelete,
		KindBashCommand,
	}
}

// OperationStatus is the lifecycle state of a recorded operation
type OperationStatus string

const (
	// StatusPending means the operation has been recorded but its
	// outcome is not yet settled
	StatusPending OperationStatus = "pending"

	// StatusActive means the operation executed and is currently in effect
	StatusActive OperationStatus = "active"

	// StatusUndone means the operation has been reverted
	StatusUndone OperationStatus = "undone"

	// StatusFailed means the original action did not complete
	StatusFailed OperationStatus = "failed"

	// StatusPartial means some but not all sub-steps succeeded,
	// e.g. a multi-edit where an edit was skipped
	StatusPartial OperationStatus = "partial"
)

// Edit is one exact-substring replacement. ReplaceAll replaces every
// occurrence; otherwise only the first.
type Edit struct {
	OldString  string `json:"oldString"`
	NewString  string `json:"newString"`
	ReplaceAll bool   `json:"replaceAll,omitempty"`
}

// FileEntry captures one file inside a deleted directory so the tree can
// be rebuilt on undo. The recorded order is the replay order.
type FileEntry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Payload holds the kind-specific fields of an operation. Only the
// fields relevant to the operation's kind are populated; a missing
// required field is a validation error at reversal time, not a crash.
type Payload struct {
	FilePath   string      `json:"filePath,omitempty"`
	Content    *string     `json:"content,omitempty"`
	OldString  string      `json:"oldString,omitempty"`
	NewString  string      `json:"newString,omitempty"`
	ReplaceAll bool        `json:"replaceAll,omitempty"`
	Edits      []Edit      `json:"edits,omitempty"`
	OldPath    string      `json:"oldPath,omitempty"`
	NewPath    string      `json:"newPath,omitempty"`
	DirPath    string      `json:"dirPath,omitempty"`
	Files      []FileEntry `json:"files,omitempty"`
	Command    string      `json:"command,omitempty"`
	Output     string      `json:"output,omitempty"`
}

// Operation is one recorded agent action. The record is created after
// the underlying action happened, never before: the journal records
// what happened, not what was requested. Identity and payload are
// immutable for the operation's lifetime; only the tracker transitions
// Status and Error.
type Operation struct {
	ID        string          `json:"id"`
	Kind      OperationKind   `json:"kind"`
	Payload   Payload         `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
	Status    OperationStatus `json:"status"`
	Error     string          `json:"error,omitempty"`

	// DependsOn and Dependents form a DAG over the journal. An
	// operation never depends on itself or on an id recorded after it.
	DependsOn  []string `json:"dependsOn,omitempty"`
	Dependents []string `json:"dependents,omitempty"`
}

// NewOperation creates an operation with a fresh id and timestamp.
// The initial status reflects whether the underlying action succeeded.
func NewOperation(kind OperationKind, payload Payload, status OperationStatus) *Operation {
	return &Operation{
		ID:        uuid.NewString(),
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now(),
		Status:    status,
	}
}

// HasDependency reports whether id is a direct dependency.
func (o *Operation) HasDependency(id string) bool {
	for _, d := range o.DependsOn {
		if d == id {
			return true
		}
	}
	return false
}

// AddDependency records a dependency edge, ignoring duplicates and
// self-references.
func (o *Operation) AddDependency(id string) {
	if id == o.ID || o.HasDependency(id) {
		return
	}
	o.DependsOn = append(o.DependsOn, id)
}

// AddDependent records the reverse edge.
func (o *Operation) AddDependent(id string) {
	if id == o.ID {
		return
	}
	for _, d := range o.Dependents {
		if d == id {
			return
		}
	}
	o.Dependents = append(o.Dependents, id)
}

// ContentString returns the recorded content, and whether it was
// captured at all. Restoration paths that need content must check the
// second return rather than treating "" as absent.
func (p Payload) ContentString() (string, bool) {
	if p.Content == nil {
		return "", false
	}
	return *p.Content, true
}

// StringPtr is a convenience for building payloads with captured content.
func StringPtr(s string) *string {
	return &s
}
