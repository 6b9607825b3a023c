// Package strategies implements the per-kind reversal algorithms. Each
// operation kind gets one stateless strategy that knows how to preview,
// undo and redo that kind. Strategies never mutate operation status and
// never write to the journal; they report outcomes as Results for the
// tracker to apply.
package strategies

import (
	"fmt"

	"github.com/arthur-debert/rewind/pkg/types"
)

// Backup key suffixes. The undo path and the redo path of one
// operation snapshot into distinct keys so re-running either direction
// never loses the immediately-prior state of the other.
const (
	// SuffixCurrent tags backups taken on the undo path
	SuffixCurrent = "-current"

	// SuffixRedo tags backups taken on the redo path
	SuffixRedo = "-redo"
)

// Strategy is the polymorphic contract every operation kind implements.
// Preview methods are side-effect-free: read-only inspection is allowed
// and degrades to warnings, never to failures. Undo and Redo convert
// every internal fault into a Result; nothing throws across the
// strategy/tracker boundary.
type Strategy interface {
	// Kind returns the operation kind this strategy handles
	Kind() types.OperationKind

	// PreviewUndo describes what Undo would do without doing it
	PreviewUndo(op *types.Operation) types.Preview

	// PreviewRedo describes what Redo would do without doing it
	PreviewRedo(op *types.Operation) types.Preview

	// Undo reverts the operation's effect on the filesystem
	Undo(op *types.Operation, ctx *types.OperationContext) types.Result

	// Redo re-applies the operation's effect on the filesystem
	Redo(op *types.Operation, ctx *types.OperationContext) types.Result
}

// base carries the helpers shared by all strategies. The filesystem is
// injected at construction so previews can do read-only inspection
// without widening the Preview signatures.
type base struct {
	kind types.OperationKind
	fs   types.FS
}

func (b base) Kind() types.OperationKind {
	return b.kind
}

// preview builds a Preview for op. Cascading operations are resolved by
// the tracker, not here; strategies only describe their own mutation.
func (b base) preview(op *types.Operation, changes string, warnings ...string) types.Preview {
	if warnings == nil {
		warnings = []string{}
	}
	return types.Preview{
		Operation:           op,
		Changes:             changes,
		CascadingOperations: []*types.Operation{},
		Warnings:            warnings,
	}
}

// requireField validates a required payload field before any
// filesystem access. It returns a failed Result when value is missing,
// nil otherwise.
func (b base) requireField(value, field string) *types.Result {
	if value == "" {
		r := types.Fail(fmt.Sprintf("%s operation is missing required field %q", b.kind, field))
		return &r
	}
	return nil
}

// takeBackup snapshots sourcePath under key. A failed backup aborts the
// reversal: destructive actions must be preceded by a recoverable
// backup. A missing source yields an empty path and no error.
func (b base) takeBackup(ctx *types.OperationContext, key, sourcePath string) (string, *types.Result) {
	path, err := ctx.Backups.BackupFile(key, sourcePath)
	if err != nil {
		r := types.Fail(fmt.Sprintf("failed to back up %s: %v", sourcePath, err))
		return "", &r
	}
	return path, nil
}

// fileExists is a read-only existence probe used by previews.
func fileExists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// snippet shortens long payload strings for human-readable messages.
func snippet(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
