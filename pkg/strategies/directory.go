package strategies

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/types"
)

// directoryCreate reverses a recorded directory creation. There is no
// content to preserve: undo removes the tree, redo recreates it empty.
type directoryCreate struct {
	base
}

func newDirectoryCreate(fs types.FS) *directoryCreate {
	return &directoryCreate{base{kind: types.KindDirectoryCreate, fs: fs}}
}

func (s *directoryCreate) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.DirPath, "dirPath"); r != nil {
		return *r
	}
	dir := op.Payload.DirPath

	if err := ctx.FS.RemoveAll(dir); err != nil {
		return types.Fail(fmt.Sprintf("failed to remove directory %s: %v", dir, err))
	}
	return types.Ok(fmt.Sprintf("Removed directory %s", dir))
}

func (s *directoryCreate) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.DirPath, "dirPath"); r != nil {
		return *r
	}
	dir := op.Payload.DirPath

	if err := ctx.FS.MkdirAll(dir, 0755); err != nil {
		return types.Fail(fmt.Sprintf("failed to create directory %s: %v", dir, err))
	}
	return types.Ok(fmt.Sprintf("Created directory %s", dir))
}

func (s *directoryCreate) PreviewUndo(op *types.Operation) types.Preview {
	dir := op.Payload.DirPath
	if dir == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"dirPath\"")
	}

	var warnings []string
	if entries, err := s.fs.ReadDir(dir); err == nil && len(entries) > 0 {
		warnings = append(warnings, fmt.Sprintf("%s is not empty; %d entries will be removed with it", dir, len(entries)))
	}
	return s.preview(op, fmt.Sprintf("Remove directory %s", dir), warnings...)
}

func (s *directoryCreate) PreviewRedo(op *types.Operation) types.Preview {
	dir := op.Payload.DirPath
	if dir == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"dirPath\"")
	}
	return s.preview(op, fmt.Sprintf("Create directory %s", dir))
}

// directoryDelete reverses a recorded directory removal. Undo rebuilds
// the tree from the recorded file entries, replayed in list order; redo
// removes the tree again.
type directoryDelete struct {
	base
}

func newDirectoryDelete(fs types.FS) *directoryDelete {
	return &directoryDelete{base{kind: types.KindDirectoryDelete, fs: fs}}
}

func (s *directoryDelete) Undo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.DirPath, "dirPath"); r != nil {
		return *r
	}
	dir := op.Payload.DirPath
	logger := logging.GetLogger("strategies.directory_delete")

	if err := ctx.FS.MkdirAll(dir, 0755); err != nil {
		return types.Fail(fmt.Sprintf("failed to recreate directory %s: %v", dir, err))
	}

	if len(op.Payload.Files) == 0 {
		return types.Result{
			Success: true,
			Message: fmt.Sprintf("Recreated empty directory %s; file contents were not recorded, full structure could not be restored", dir),
			Partial: true,
		}
	}

	restored := 0
	for _, entry := range op.Payload.Files {
		if err := ctx.FS.MkdirAll(filepath.Dir(entry.Path), 0755); err != nil {
			return types.Fail(fmt.Sprintf("restored %d of %d files, then failed to create parent directory for %s: %v",
				restored, len(op.Payload.Files), entry.Path, err))
		}
		if err := ctx.FS.WriteFile(entry.Path, []byte(entry.Content), 0644); err != nil {
			return types.Fail(fmt.Sprintf("restored %d of %d files, then failed to write %s: %v",
				restored, len(op.Payload.Files), entry.Path, err))
		}
		restored++
	}

	logger.Debug().Str("dir", dir).Int("files", restored).Msg("Directory tree restored")
	return types.Ok(fmt.Sprintf("Restored directory %s with %d files", dir, restored))
}

func (s *directoryDelete) Redo(op *types.Operation, ctx *types.OperationContext) types.Result {
	if r := s.requireField(op.Payload.DirPath, "dirPath"); r != nil {
		return *r
	}
	dir := op.Payload.DirPath

	if !fileExists(ctx.FS, dir) {
		return types.Fail(fmt.Sprintf("cannot delete %s: directory does not exist", dir))
	}
	if err := ctx.FS.RemoveAll(dir); err != nil {
		return types.Fail(fmt.Sprintf("failed to remove directory %s: %v", dir, err))
	}
	return types.Ok(fmt.Sprintf("Removed directory %s", dir))
}

func (s *directoryDelete) PreviewUndo(op *types.Operation) types.Preview {
	dir := op.Payload.DirPath
	if dir == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"dirPath\"")
	}

	if len(op.Payload.Files) == 0 {
		return s.preview(op,
			fmt.Sprintf("Recreate empty directory %s", dir),
			"file contents were not recorded; the directory structure cannot be fully restored")
	}
	return s.preview(op, fmt.Sprintf("Recreate directory %s and restore %d files", dir, len(op.Payload.Files)))
}

func (s *directoryDelete) PreviewRedo(op *types.Operation) types.Preview {
	dir := op.Payload.DirPath
	if dir == "" {
		return s.preview(op, "Nothing to do", "operation is missing required field \"dirPath\"")
	}

	var warnings []string
	if !fileExists(s.fs, dir) {
		warnings = append(warnings, fmt.Sprintf("%s no longer exists; redo will fail", dir))
	}
	return s.preview(op, fmt.Sprintf("Remove directory %s", dir), warnings...)
}
