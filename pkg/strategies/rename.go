package strategies

import (
	"fmt"

	"github.com/arthur-debert/rewind/pkg/types"
)

// fileRename swaps a file between its recorded paths. Renames are
// non-destructive of content, so no backup is taken.
type fileRename struct {
	base
}

func newFileRename(fs types.FS) *fileRename {
	return &fileRename{base{kind: types.KindFileRename, fs: fs}}
}

func (s *fileRename) validate(op *types.Operation) *types.Result {
	if r := s.requireField(op.Payload.OldPath, "oldPath"); r != nil {
		return r
	}
	return s.requireField(op.Payload.NewPath, "newPath")
}

func (s *fileRename) rename(ctx *types.OperationContext, from, to string) types.Result {
	if err := ctx.FS.Rename(from, to); err != nil {
		if !fileExists(ctx.FS, from) {
			return types.Fail(fmt.Sprintf("cannot rename %s: path does not exist", from))
		}
		return types.Fail(fmt.Sprintf("failed to rename %s to %s: %v", from, to, err))
	}
	return types.Ok(fmt.Sprintf("Renamed %s to %s", from, to))
}

func (s *fileRename) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.validate(op); r != nil {
		return *r
	}
	return s.rename(ctx, op.Payload.NewPath, op.Payload.OldPath)
}

func (s *fileRename) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.validate(op); r != nil {
		return *r
	}
	return s.rename(ctx, op.Payload.OldPath, op.Payload.NewPath)
}

func (s *fileRename) previewRename(op *types.Operation, from, to string) types.Preview {
	if op.Payload.OldPath == "" || op.Payload.NewPath == "" {
		return s.preview(op, "Nothing to do", "operation is missing a required path field")
	}

	var warnings []string
	if !fileExists(s.fs, from) {
		warnings = append(warnings, fmt.Sprintf("%s no longer exists; the rename will fail", from))
	}
	if fileExists(s.fs, to) {
		warnings = append(warnings, fmt.Sprintf("%s already exists and will be replaced", to))
	}

	return s.preview(op, fmt.Sprintf("Rename %s to %s", from, to), warnings...)
}

func (s *fileRename) PreviewUndo(op *types.Operation) types.Preview {
	return s.previewRename(op, op.Payload.NewPath, op.Payload.OldPath)
}

func (s *fileRename) PreviewRedo(op *types.Operation) types.Preview {
	return s.previewRename(op, op.Payload.OldPath, op.Payload.NewPath)
}
