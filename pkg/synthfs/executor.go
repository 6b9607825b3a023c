// Package synthfs performs the forward filesystem actions behind
// `rewind do`, built on the synthfs pipeline. Reversal never goes
// through here: the journal's strategies handle that. This executor
// only makes the initial mutation that is about to be recorded.
package synthfs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/core"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/arthur-debert/synthfs/pkg/synthfs/operations"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/logging"
)

// Executor runs forward actions through a synthfs pipeline.
type Executor struct {
	logger     zerolog.Logger
	dryRun     bool
	filesystem synthfs.FileSystem
}

// NewExecutor creates an executor rooted at the real filesystem. With
// dryRun the actions are logged and nothing is touched.
func NewExecutor(dryRun bool) *Executor {
	return &Executor{
		logger:     logging.GetLogger("synthfs"),
		dryRun:     dryRun,
		filesystem: filesystem.NewOSFileSystem("/"),
	}
}

// WriteFile creates or overwrites a file with the given content.
func (e *Executor) WriteFile(path string, content []byte, mode fs.FileMode) error {
	if e.dryRun {
		e.logger.Info().Str("path", path).Int("bytes", len(content)).Msg("Would write file")
		return nil
	}

	rel, err := relPath(path)
	if err != nil {
		return err
	}
	op := operations.NewCreateFileOperation(core.OperationID("write-"+path), rel)
	op.SetItem(&fileItem{path: rel, content: content, mode: mode})
	return e.run(synthfs.NewOperationsPackageAdapter(op))
}

// DeleteFile removes a file.
func (e *Executor) DeleteFile(path string) error {
	if e.dryRun {
		e.logger.Info().Str("path", path).Msg("Would delete file")
		return nil
	}

	rel, err := relPath(path)
	if err != nil {
		return err
	}
	op := operations.NewDeleteOperation(core.OperationID("delete-"+path), rel)
	return e.run(synthfs.NewOperationsPackageAdapter(op))
}

// CreateDir creates a directory, parents included.
func (e *Executor) CreateDir(path string, mode fs.FileMode) error {
	if e.dryRun {
		e.logger.Info().Str("path", path).Msg("Would create directory")
		return nil
	}

	rel, err := relPath(path)
	if err != nil {
		return err
	}
	op := operations.NewCreateDirectoryOperation(core.OperationID("mkdir-"+path), rel)
	op.SetItem(&directoryItem{path: rel, mode: mode})
	return e.run(synthfs.NewOperationsPackageAdapter(op))
}

// Move relocates a file. The pipeline copies to the new path and then
// deletes the old one, in that order, so a failure can never lose the
// only copy of the content.
func (e *Executor) Move(oldPath, newPath string) error {
	if e.dryRun {
		e.logger.Info().Str("from", oldPath).Str("to", newPath).Msg("Would move file")
		return nil
	}

	relOld, err := relPath(oldPath)
	if err != nil {
		return err
	}
	relNew, err := relPath(newPath)
	if err != nil {
		return err
	}

	copyOp := operations.NewCopyOperation(core.OperationID(fmt.Sprintf("copy-%s-to-%s", filepath.Base(oldPath), newPath)), relNew)
	copyOp.SetPaths(relOld, relNew)
	deleteOp := operations.NewDeleteOperation(core.OperationID("delete-"+oldPath), relOld)

	return e.run(
		synthfs.NewOperationsPackageAdapter(copyOp),
		synthfs.NewOperationsPackageAdapter(deleteOp),
	)
}

// run assembles the operations into a pipeline and executes it.
func (e *Executor) run(ops ...synthfs.Operation) error {
	pipeline := synthfs.NewMemPipeline()
	for _, op := range ops {
		if err := pipeline.Add(op); err != nil {
			return errors.Wrap(err, errors.ErrIOFailure, "failed to assemble action pipeline")
		}
	}

	executor := synthfs.NewExecutor()
	result := executor.Run(context.Background(), pipeline, e.filesystem)
	if result.GetError() != nil {
		e.logger.Error().Err(result.GetError()).Msg("Action pipeline failed")
		return errors.Wrap(result.GetError(), errors.ErrIOFailure, "action failed")
	}
	return nil
}

// relPath converts an absolute path to the root-relative form synthfs
// expects.
func relPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve path %s", path)
	}
	rel, err := filepath.Rel("/", abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "failed to convert path %s", path)
	}
	return rel, nil
}

// fileItem carries content and mode for file creation operations.
type fileItem struct {
	path    string
	content []byte
	mode    fs.FileMode
}

func (f *fileItem) Path() string       { return f.path }
func (f *fileItem) Type() string       { return "file" }
func (f *fileItem) Content() []byte    { return f.content }
func (f *fileItem) Mode() fs.FileMode  { return f.mode }
func (f *fileItem) IsDir() bool        { return false }
func (f *fileItem) ModTime() time.Time { return time.Now() }
func (f *fileItem) Size() int64        { return int64(len(f.content)) }

// directoryItem carries the mode for directory creation operations.
type directoryItem struct {
	path string
	mode fs.FileMode
}

func (d *directoryItem) Path() string       { return d.path }
func (d *directoryItem) Type() string       { return "directory" }
func (d *directoryItem) Mode() fs.FileMode  { return d.mode }
func (d *directoryItem) IsDir() bool        { return true }
func (d *directoryItem) ModTime() time.Time { return time.Now() }
func (d *directoryItem) Size() int64        { return 0 }
