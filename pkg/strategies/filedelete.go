package strategies

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/rewind/pkg/types"
)

// fileDelete is the inverse of fileCreate. Undo rewrites the recorded
// content; redo backs the file up and deletes it again.
type fileDelete struct {
	base
}

func newFileDelete(fs types.FS) *fileDelete {
	return &fileDelete{base{kind: types.KindFileDelete, fs: fs}}
}

func (s *fileDelete) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.FilePath, "filePath"); r != nil {
		return *r
	}
	path := op.Payload.FilePath

	content, ok := op.Payload.ContentString()
	if !ok {
		return types.Fail(fmt.Sprintf("cannot restore %s: content was not recorded at deletion time", path))
	}

	if err := ctx.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.Fail(fmt.Sprintf("failed to create parent directory for %s: %v", path, err))
	}
	if err := ctx.FS.WriteFile(path, []byte(content), 0644); err != nil {
		return types.Fail(fmt.Sprintf("failed to restore %s: %v", path, err))
	}

	return types.Ok(fmt.Sprintf("Restored %s", path))
}

func (s *fileDelete) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.FilePath, "filePath"); r != nil {
		return *r
	}
	path := op.Payload.FilePath

	backupPath, failed := s.takeBackup(ctx, op.ID+SuffixRedo, path)
	if failed != nil {
		return *failed
	}

	if err := ctx.FS.Remove(path); err != nil {
		if !fileExists(ctx.FS, path) {
			return types.Fail(fmt.Sprintf("cannot delete %s: file does not exist", path))
		}
		return types.Fail(fmt.Sprintf("failed to delete %s: %v", path, err))
	}

	return types.Result{
		Success:    true,
		Message:    fmt.Sprintf("Deleted %s", path),
		BackupPath: backupPath,
	}
}

func (s *fileDelete) PreviewUndo(op *types.Operation) types.Preview {
	path := op.Payload.FilePath
	if path == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"filePath\"")
	}

	var warnings []string
	if _, ok := op.Payload.ContentString(); !ok {
		warnings = append(warnings, "content was not recorded at deletion time; undo cannot restore the file")
	}
	if fileExists(s.fs, path) {
		warnings = append(warnings, fmt.Sprintf("%s already exists and will be overwritten", path))
	}

	return s.preview(op, fmt.Sprintf("Restore %s with its recorded content", path), warnings...)
}

func (s *fileDelete) PreviewRedo(op *types.Operation) types.Preview {
	path := op.Payload.FilePath
	if path == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"filePath\"")
	}

	var warnings []string
	if !fileExists(s.fs, path) {
		warnings = append(warnings, fmt.Sprintf("%s no longer exists; redo will fail", path))
	}

	return s.preview(op, fmt.Sprintf("Delete %s (a backup is taken first)", path), warnings...)
}
