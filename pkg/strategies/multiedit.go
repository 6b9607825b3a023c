package strategies

import (
	"fmt"

	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/types"
)

// multiEdit reverses an ordered list of substring replacements recorded
// against one logical action. Redo replays the edits in forward order,
// the order they were originally applied against the evolving content.
// Undo peels them off in reverse order, most recently applied first.
// Both directions snapshot the file's current on-disk content before
// mutating, under direction-specific keys, so re-running either
// direction never loses the immediately-prior state.
type multiEdit struct {
	base
}

func newMultiEdit(fs types.FS) *multiEdit {
	return &multiEdit{base{kind: types.KindMultiEdit, fs: fs}}
}

func (s *multiEdit) validate(op *types.Operation) *types.Result {
	if r := s.requireField(op.Payload.FilePath, "filePath"); r != nil {
		return r
	}
	if len(op.Payload.Edits) == 0 {
		r := types.Fail(fmt.Sprintf("multi_edit operation on %s has no edits specified", op.Payload.FilePath))
		return &r
	}
	return nil
}

func (s *multiEdit) apply(op *types.Operation, ctx *types.OperationContext, invert bool, backupKey, verb string) types.Result {
	path := op.Payload.FilePath
	logger := logging.GetLogger("strategies.multi_edit")

	data, err := ctx.FS.ReadFile(path)
	if err != nil {
		if !fileExists(ctx.FS, path) {
			return types.Fail(fmt.Sprintf("cannot edit %s: file does not exist", path))
		}
		return types.Fail(fmt.Sprintf("failed to read %s: %v", path, err))
	}

	backupPath, failed := s.takeBackup(ctx, backupKey, path)
	if failed != nil {
		return *failed
	}

	edits := op.Payload.Edits
	content := string(data)
	applied := 0

	for i := 0; i < len(edits); i++ {
		edit := edits[i]
		if invert {
			edit = edits[len(edits)-1-i]
		}
		var changed bool
		content, changed = applyEdit(content, edit, invert)
		if changed {
			applied++
		}
	}

	if applied > 0 {
		if err := ctx.FS.WriteFile(path, []byte(content), 0644); err != nil {
			return types.Fail(fmt.Sprintf("failed to write %s: %v", path, err))
		}
	}

	logger.Debug().
		Str("path", path).
		Int("applied", applied).
		Int("total", len(edits)).
		Bool("invert", invert).
		Msg("Multi-edit applied")

	return types.Result{
		Success:    true,
		Message:    fmt.Sprintf("%s %d of %d edits in %s", verb, applied, len(edits), path),
		BackupPath: backupPath,
		Partial:    applied < len(edits),
	}
}

func (s *multiEdit) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.validate(op); r != nil {
		return *r
	}
	return s.apply(op, ctx, true, op.ID+SuffixCurrent, "Reverted")
}

func (s *multiEdit) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.validate(op); r != nil {
		return *r
	}
	return s.apply(op, ctx, false, op.ID+SuffixRedo, "Reapplied")
}

func (s *multiEdit) previewEdits(op *types.Operation, verb string) types.Preview {
	path := op.Payload.FilePath
	if path == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"filePath\"")
	}
	if len(op.Payload.Edits) == 0 {
		return s.preview(op, "Nothing to do", "no edits specified")
	}

	var warnings []string
	if !fileExists(s.fs, path) {
		warnings = append(warnings, fmt.Sprintf("%s cannot be read; the edits will fail", path))
	}

	return s.preview(op, fmt.Sprintf("%s %d edits in %s", verb, len(op.Payload.Edits), path), warnings...)
}

func (s *multiEdit) PreviewUndo(op *types.Operation) types.Preview {
	return s.previewEdits(op, "Revert")
}

func (s *multiEdit) PreviewRedo(op *types.Operation) types.Preview {
	return s.previewEdits(op, "Reapply")
}
