// Package recorder glues the forward side of the system together: it
// performs an agent action, builds the matching journal entry, records
// it in the tracker, and persists the journal. The journal records
// what happened, so the action always runs before anything is written.
package recorder

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/arthur-debert/rewind/pkg/journal"
	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/shell"
	"github.com/arthur-debert/rewind/pkg/synthfs"
	"github.com/arthur-debert/rewind/pkg/tracker"
	"github.com/arthur-debert/rewind/pkg/types"
)

// Runner is the forward-action surface the recorder drives. The
// synthfs executor is the production implementation.
type Runner interface {
	WriteFile(path string, content []byte, mode fs.FileMode) error
	DeleteFile(path string) error
	CreateDir(path string, mode fs.FileMode) error
	Move(oldPath, newPath string) error
}

var _ Runner = (*synthfs.Executor)(nil)

// Recorder performs actions and records them.
type Recorder struct {
	tracker *tracker.Tracker
	journal *journal.Journal
	runner  Runner
	fs      types.FS
	logger  zerolog.Logger
}

// New builds a recorder over the given tracker, journal and runner.
// fs is used for the reads the recorder needs before destructive
// actions, e.g. capturing a file's content before deleting it.
func New(tr *tracker.Tracker, j *journal.Journal, runner Runner, fs types.FS) *Recorder {
	return &Recorder{
		tracker: tr,
		journal: j,
		runner:  runner,
		fs:      fs,
		logger:  logging.GetLogger("recorder"),
	}
}

// WriteFile writes content to path and records the creation.
func (r *Recorder) WriteFile(path, content string) (*types.Operation, error) {
	if err := r.runner.WriteFile(path, []byte(content), 0644); err != nil {
		return nil, err
	}
	op := types.NewOperation(types.KindFileCreate, types.Payload{
		FilePath: path,
		Content:  types.StringPtr(content),
	}, types.StatusActive)
	return r.record(op, path)
}

// EditFile applies one exact-substring replacement to path and records
// it. The target file must exist and contain oldString; performing an
// edit is stricter than reversing one.
func (r *Recorder) EditFile(path, oldString, newString string, replaceAll bool) (*types.Operation, error) {
	if oldString == "" {
		return nil, errors.New(errors.ErrValidation, "oldString must not be empty")
	}
	if newString == "" {
		return nil, errors.New(errors.ErrValidation, "newString must not be empty; the edit could never be undone")
	}
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTargetNotFound, "cannot edit %s", path)
	}
	content := string(data)
	if !strings.Contains(content, oldString) {
		return nil, errors.Newf(errors.ErrTargetNotFound, "%q not found in %s", oldString, path)
	}

	n := 1
	if replaceAll {
		n = -1
	}
	updated := strings.Replace(content, oldString, newString, n)
	if err := r.runner.WriteFile(path, []byte(updated), 0644); err != nil {
		return nil, err
	}

	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:   path,
		OldString:  oldString,
		NewString:  newString,
		ReplaceAll: replaceAll,
	}, types.StatusActive)
	return r.record(op, path)
}

// DeleteFile removes path, capturing its content first so the
// deletion can be undone.
func (r *Recorder) DeleteFile(path string) (*types.Operation, error) {
	data, err := r.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTargetNotFound, "cannot delete %s", path)
	}
	if err := r.runner.DeleteFile(path); err != nil {
		return nil, err
	}
	op := types.NewOperation(types.KindFileDelete, types.Payload{
		FilePath: path,
		Content:  types.StringPtr(string(data)),
	}, types.StatusActive)
	return r.record(op, path)
}

// Move relocates a file and records the rename.
func (r *Recorder) Move(oldPath, newPath string) (*types.Operation, error) {
	if err := r.runner.Move(oldPath, newPath); err != nil {
		return nil, err
	}
	op := types.NewOperation(types.KindFileRename, types.Payload{
		OldPath: oldPath,
		NewPath: newPath,
	}, types.StatusActive)
	return r.record(op, oldPath, newPath)
}

// MakeDir creates a directory and records it.
func (r *Recorder) MakeDir(path string) (*types.Operation, error) {
	if err := r.runner.CreateDir(path, 0755); err != nil {
		return nil, err
	}
	op := types.NewOperation(types.KindDirectoryCreate, types.Payload{
		DirPath: path,
	}, types.StatusActive)
	return r.record(op, path)
}

// RemoveDir deletes a directory tree, capturing every file inside it
// first so the tree can be rebuilt on undo.
func (r *Recorder) RemoveDir(path string) (*types.Operation, error) {
	files, err := r.captureTree(path)
	if err != nil {
		return nil, err
	}
	if err := r.fs.RemoveAll(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to remove directory %s", path)
	}
	op := types.NewOperation(types.KindDirectoryDelete, types.Payload{
		DirPath: path,
		Files:   files,
	}, types.StatusActive)
	return r.record(op, path)
}

// Exec runs a shell command and records it, whether or not it
// succeeded. Only the audit trail depends on command entries; they
// can never be undone.
func (r *Recorder) Exec(command string) (*types.Operation, error) {
	op := shell.Record(command)
	return r.record(op)
}

// record links the operation to the most recent in-effect operation
// touching the same path, appends it to the tracker, and persists the
// journal.
func (r *Recorder) record(op *types.Operation, paths ...string) (*types.Operation, error) {
	if dep := r.latestTouching(paths); dep != nil {
		op.AddDependency(dep.ID)
	}
	if err := r.tracker.Record(op); err != nil {
		return nil, err
	}
	if err := r.journal.Save(r.tracker.Operations()); err != nil {
		return nil, err
	}
	r.logger.Info().
		Str("id", op.ID).
		Str("kind", string(op.Kind)).
		Msg("Action recorded")
	return op, nil
}

// latestTouching returns the most recently recorded operation that is
// still in effect and references one of the given paths.
func (r *Recorder) latestTouching(paths []string) *types.Operation {
	if len(paths) == 0 {
		return nil
	}
	want := map[string]bool{}
	for _, p := range paths {
		want[filepath.Clean(p)] = true
	}

	ops := r.tracker.Operations()
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if op.Status != types.StatusActive && op.Status != types.StatusPartial {
			continue
		}
		for _, p := range operationPaths(op) {
			if want[filepath.Clean(p)] {
				return op
			}
		}
	}
	return nil
}

// operationPaths lists the filesystem paths an operation references.
func operationPaths(op *types.Operation) []string {
	var out []string
	for _, p := range []string{op.Payload.FilePath, op.Payload.OldPath, op.Payload.NewPath, op.Payload.DirPath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// captureTree reads every file under dir, depth first in lexical
// order, so the recorded entries replay deterministically.
func (r *Recorder) captureTree(dir string) ([]types.FileEntry, error) {
	entries, err := r.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTargetNotFound, "cannot capture directory %s", dir)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var files []types.FileEntry
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			sub, err := r.captureTree(path)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
			continue
		}
		data, err := r.fs.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to read %s while capturing %s", path, dir)
		}
		files = append(files, types.FileEntry{Path: path, Content: string(data)})
	}
	return files, nil
}

// Describe renders a one-line summary of what an operation did, used
// by command output after a `do` action.
func Describe(op *types.Operation) string {
	switch op.Kind {
	case types.KindFileCreate:
		return fmt.Sprintf("wrote %s", op.Payload.FilePath)
	case types.KindFileEdit:
		return fmt.Sprintf("edited %s", op.Payload.FilePath)
	case types.KindMultiEdit:
		return fmt.Sprintf("applied %d edits to %s", len(op.Payload.Edits), op.Payload.FilePath)
	case types.KindFileDelete:
		return fmt.Sprintf("deleted %s", op.Payload.FilePath)
	case types.KindFileRename:
		return fmt.Sprintf("moved %s to %s", op.Payload.OldPath, op.Payload.NewPath)
	case types.KindDirectoryCreate:
		return fmt.Sprintf("created directory %s", op.Payload.DirPath)
	case types.KindDirectoryDelete:
		return fmt.Sprintf("removed directory %s", op.Payload.DirPath)
	case types.KindBashCommand:
		return fmt.Sprintf("ran %q", op.Payload.Command)
	default:
		return string(op.Kind)
	}
}
