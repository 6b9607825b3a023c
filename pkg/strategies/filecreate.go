package strategies

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/types"
)

// fileCreate reverses a recorded file creation. Undo backs up the
// current file and deletes it; redo rewrites the recorded content.
type fileCreate struct {
	base
}

func newFileCreate(fs types.FS) *fileCreate {
	return &fileCreate{base{kind: types.KindFileCreate, fs: fs}}
}

func (s *fileCreate) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.FilePath, "filePath"); r != nil {
		return *r
	}
	path := op.Payload.FilePath

	backupPath, failed := s.takeBackup(ctx, op.ID+SuffixCurrent, path)
	if failed != nil {
		return *failed
	}

	if err := ctx.FS.Remove(path); err != nil {
		if !fileExists(ctx.FS, path) {
			return types.Fail(fmt.Sprintf("cannot undo creation of %s: file does not exist", path))
		}
		return types.Fail(fmt.Sprintf("failed to delete %s: %v", path, err))
	}

	logger := logging.GetLogger("strategies.file_create")
	logger.Debug().
		Str("path", path).
		Str("backup", backupPath).
		Msg("Created file removed")

	return types.Result{
		Success:    true,
		Message:    fmt.Sprintf("Deleted %s", path),
		BackupPath: backupPath,
	}
}

func (s *fileCreate) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.FilePath, "filePath"); r != nil {
		return *r
	}
	path := op.Payload.FilePath

	content, ok := op.Payload.ContentString()
	if !ok {
		return types.Fail(fmt.Sprintf("cannot recreate %s: content was not recorded", path))
	}

	if err := ctx.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return types.Fail(fmt.Sprintf("failed to create parent directory for %s: %v", path, err))
	}
	if err := ctx.FS.WriteFile(path, []byte(content), 0644); err != nil {
		return types.Fail(fmt.Sprintf("failed to recreate %s: %v", path, err))
	}

	return types.Ok(fmt.Sprintf("Recreated %s", path))
}

func (s *fileCreate) PreviewUndo(op *types.Operation) types.Preview {
	path := op.Payload.FilePath
	if path == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"filePath\"")
	}

	var warnings []string
	if !fileExists(s.fs, path) {
		warnings = append(warnings, fmt.Sprintf("%s no longer exists; undo will fail", path))
	}
	if _, ok := op.Payload.ContentString(); !ok {
		warnings = append(warnings, "content was not recorded; a later redo will not be able to recreate the file")
	}

	return s.preview(op, fmt.Sprintf("Delete %s (a backup is taken first)", path), warnings...)
}

func (s *fileCreate) PreviewRedo(op *types.Operation) types.Preview {
	path := op.Payload.FilePath
	if path == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"filePath\"")
	}

	var warnings []string
	if _, ok := op.Payload.ContentString(); !ok {
		warnings = append(warnings, "content was not recorded; redo cannot recreate the file")
	}
	if fileExists(s.fs, path) {
		warnings = append(warnings, fmt.Sprintf("%s already exists and will be overwritten", path))
	}

	return s.preview(op, fmt.Sprintf("Recreate %s with its recorded content", path), warnings...)
}
