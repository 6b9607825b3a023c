package strategies

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/rewind/pkg/types"
)

// applyEdit performs one exact-substring replacement on content. With
// invert the mirror replacement (newString back to oldString) is
// applied instead. It reports whether the content changed: an absent
// source substring is a skip, not an error, because the file may have
// been modified since the edit was recorded.
func applyEdit(content string, edit types.Edit, invert bool) (string, bool) {
	from, to := edit.OldString, edit.NewString
	if invert {
		from, to = to, from
	}
	if from == "" || !strings.Contains(content, from) {
		return content, false
	}
	n := 1
	if edit.ReplaceAll {
		n = -1
	}
	return strings.Replace(content, from, to, n), true
}

// fileEdit reverses a single recorded substring replacement. The
// contract is best-effort reversion, not an atomic guarantee: when the
// expected substring is gone the file is left unchanged.
type fileEdit struct {
	base
}

func newFileEdit(fs types.FS) *fileEdit {
	return &fileEdit{base{kind: types.KindFileEdit, fs: fs}}
}

func (s *fileEdit) validate(op *types.Operation) *types.Result {
	if r := s.requireField(op.Payload.FilePath, "filePath"); r != nil {
		return r
	}
	if r := s.requireField(op.Payload.OldString, "oldString"); r != nil {
		return r
	}
	// An empty newString would leave undo nothing to search for, so the
	// edit could never be reverted.
	return s.requireField(op.Payload.NewString, "newString")
}

func (s *fileEdit) edit(op *types.Operation) types.Edit {
	return types.Edit{
		OldString:  op.Payload.OldString,
		NewString:  op.Payload.NewString,
		ReplaceAll: op.Payload.ReplaceAll,
	}
}

func (s *fileEdit) apply(op *types.Operation, ctx *types.OperationContext, invert bool, backupKey string) types.Result {
	path := op.Payload.FilePath

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

	edit := s.edit(op)
	updated, changed := applyEdit(string(data), edit, invert)
	if !changed {
		from := edit.OldString
		if invert {
			from = edit.NewString
		}
		return types.Result{
			Success:    true,
			Message:    fmt.Sprintf("%q not found in %s; file left unchanged", snippet(from), path),
			BackupPath: backupPath,
			Partial:    true,
		}
	}

	if err := ctx.FS.WriteFile(path, []byte(updated), 0644); err != nil {
		return types.Fail(fmt.Sprintf("failed to write %s: %v", path, err))
	}

	from, to := edit.OldString, edit.NewString
	if invert {
		from, to = to, from
	}
	return types.Result{
		Success:    true,
		Message:    fmt.Sprintf("Replaced %q with %q in %s", snippet(from), snippet(to), path),
		BackupPath: backupPath,
	}
}

func (s *fileEdit) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.validate(op); r != nil {
		return *r
	}
	return s.apply(op, ctx, true, op.ID+SuffixCurrent)
}

func (s *fileEdit) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.validate(op); r != nil {
		return *r
	}
	return s.apply(op, ctx, false, op.ID+SuffixRedo)
}

func (s *fileEdit) previewEdit(op *types.Operation, invert bool) types.Preview {
	path := op.Payload.FilePath
	if path == "" || op.Payload.OldString == "" || op.Payload.NewString == "" {
		return s.preview(op, "Nothing to do", "operation is missing a required field")
	}

	edit := s.edit(op)
	from, to := edit.OldString, edit.NewString
	if invert {
		from, to = to, from
	}

	changes := fmt.Sprintf("Replace %q with %q in %s", snippet(from), snippet(to), path)
	if edit.ReplaceAll {
		changes += " (all occurrences)"
	}

	var warnings []string
	data, err := s.fs.ReadFile(path)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("%s cannot be read; the edit will fail", path))
	case from == "" || !strings.Contains(string(data), from):
		warnings = append(warnings, fmt.Sprintf("%q not currently present in %s; the file would be left unchanged", snippet(from), path))
	}

	return s.preview(op, changes, warnings...)
}

func (s *fileEdit) PreviewUndo(op *types.Operation) types.Preview {
	return s.previewEdit(op, true)
}

func (s *fileEdit) PreviewRedo(op *types.Operation) types.Preview {
	return s.previewEdit(op, false)
}
