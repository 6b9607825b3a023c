package strategies_test

import (
	"testing"

	"github.com/arthur-debert/rewind/pkg/backup"
	"github.com/arthur-debert/rewind/pkg/filesystem"
	"github.com/arthur-debert/rewind/pkg/strategies"
	"github.com/arthur-debert/rewind/pkg/testutil"
	"github.com/arthur-debert/rewind/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newContext builds a strategy context over an in-memory filesystem.
func newContext(t *testing.T) (*types.OperationContext, types.FS) {
	t.Helper()
	fs := filesystem.NewMemory()
	store := backup.NewStore(fs, "/backups")
	return &types.OperationContext{
		FS:        fs,
		BackupDir: "/backups",
		Backups:   store,
	}, fs
}

func strategyFor(t *testing.T, fs types.FS, kind types.OperationKind) strategies.Strategy {
	t.Helper()
	s, err := strategies.NewRegistry(fs).Get(kind)
	require.NoError(t, err)
	return s
}

func TestFileCreate_UndoThenRedoRestoresContent(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/a.txt", "hello world")

	op := types.NewOperation(types.KindFileCreate, types.Payload{
		FilePath: "/work/a.txt",
		Content:  types.StringPtr("hello world"),
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindFileCreate)

	res := s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, testutil.Exists(fs, "/work/a.txt"))
	assert.NotEmpty(t, res.BackupPath)
	assert.Equal(t, "hello world", testutil.ReadFile(t, fs, res.BackupPath))

	res = s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "hello world", testutil.ReadFile(t, fs, "/work/a.txt"))
}

func TestFileCreate_RedoWithoutContentFails(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindFileCreate, types.Payload{
		FilePath: "/work/a.txt",
	}, types.StatusUndone)
	s := strategyFor(t, fs, types.KindFileCreate)

	res := s.Redo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "content was not recorded")
}

func TestFileCreate_UndoMissingFileFails(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindFileCreate, types.Payload{
		FilePath: "/work/gone.txt",
		Content:  types.StringPtr("x"),
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindFileCreate)

	res := s.Undo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "does not exist")
}

func TestFileDelete_UndoRestoresExactContent(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindFileDelete, types.Payload{
		FilePath: "/work/deleted.txt",
		Content:  types.StringPtr("precious bytes\n"),
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindFileDelete)

	res := s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "precious bytes\n", testutil.ReadFile(t, fs, "/work/deleted.txt"))

	// Redo deletes again, with a fresh backup of the restored file.
	res = s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, testutil.Exists(fs, "/work/deleted.txt"))
	assert.Equal(t, "precious bytes\n", testutil.ReadFile(t, fs, res.BackupPath))
}

func TestFileDelete_UndoWithoutContentFails(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindFileDelete, types.Payload{
		FilePath: "/work/deleted.txt",
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindFileDelete)

	res := s.Undo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "content was not recorded")
}

func TestFileRename_RedoThenUndoIsInverse(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/old.txt", "data")

	op := types.NewOperation(types.KindFileRename, types.Payload{
		OldPath: "/work/old.txt",
		NewPath: "/work/new.txt",
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindFileRename)

	res := s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, testutil.Exists(fs, "/work/old.txt"))
	assert.Equal(t, "data", testutil.ReadFile(t, fs, "/work/new.txt"))

	res = s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "data", testutil.ReadFile(t, fs, "/work/old.txt"))
	assert.False(t, testutil.Exists(fs, "/work/new.txt"))
}

func TestFileRename_RepeatedUndoFails(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/old.txt", "data")

	op := types.NewOperation(types.KindFileRename, types.Payload{
		OldPath: "/work/old.txt",
		NewPath: "/work/new.txt",
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindFileRename)

	require.True(t, s.Redo(op, ctx).Success)
	require.True(t, s.Undo(op, ctx).Success)

	// The source path no longer exists; this must fail loudly, not
	// succeed silently.
	res := s.Undo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "does not exist")
}

func TestDirectoryCreate_UndoRemovesRedoRecreates(t *testing.T) {
	ctx, fs := newContext(t)
	require.NoError(t, fs.MkdirAll("/work/subdir", 0755))

	op := types.NewOperation(types.KindDirectoryCreate, types.Payload{
		DirPath: "/work/subdir",
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindDirectoryCreate)

	res := s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, testutil.Exists(fs, "/work/subdir"))

	res = s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.True(t, testutil.Exists(fs, "/work/subdir"))
}

func TestDirectoryDelete_UndoRestoresFilesInOrder(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindDirectoryDelete, types.Payload{
		DirPath: "/work/pkg",
		Files: []types.FileEntry{
			{Path: "/work/pkg/a.go", Content: "package pkg\n"},
			{Path: "/work/pkg/sub/b.go", Content: "package sub\n"},
			// Later entries win when paths repeat; list order is replayed as given.
			{Path: "/work/pkg/a.go", Content: "package pkg // v2\n"},
		},
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindDirectoryDelete)

	res := s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "package pkg // v2\n", testutil.ReadFile(t, fs, "/work/pkg/a.go"))
	assert.Equal(t, "package sub\n", testutil.ReadFile(t, fs, "/work/pkg/sub/b.go"))

	res = s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, testutil.Exists(fs, "/work/pkg"))
}

func TestDirectoryDelete_UndoWithoutFilesIsPartial(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindDirectoryDelete, types.Payload{
		DirPath: "/work/pkg",
	}, types.StatusActive)
	s := strategyFor(t, fs, types.KindDirectoryDelete)

	res := s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Partial)
	assert.Contains(t, res.Message, "could not be restored")
	assert.True(t, testutil.Exists(fs, "/work/pkg"))
}

func TestDirectoryDelete_RedoMissingDirFails(t *testing.T) {
	ctx, fs := newContext(t)
	op := types.NewOperation(types.KindDirectoryDelete, types.Payload{
		DirPath: "/work/pkg",
	}, types.StatusUndone)
	s := strategyFor(t, fs, types.KindDirectoryDelete)

	res := s.Redo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "does not exist")
}

func TestBashCommand_NeverReversible(t *testing.T) {
	ctx, fs := newContext(t)
	s := strategyFor(t, fs, types.KindBashCommand)

	for _, payload := range []types.Payload{
		{Command: "rm -rf build/"},
		{Command: "make all", Output: "ok"},
		{},
	} {
		op := types.NewOperation(types.KindBashCommand, payload, types.StatusActive)
		assert.False(t, s.Undo(op, ctx).Success)
		assert.False(t, s.Redo(op, ctx).Success)
		assert.NotEmpty(t, s.Undo(op, ctx).Message)
	}
}

func TestValidation_ShortCircuitsBeforeFilesystemAccess(t *testing.T) {
	counting := testutil.NewCountingFS(filesystem.NewMemory())
	store := backup.NewStore(counting, "/backups")
	ctx := &types.OperationContext{FS: counting, BackupDir: "/backups", Backups: store}
	reg := strategies.NewRegistry(counting)

	cases := []struct {
		kind    types.OperationKind
		payload types.Payload
	}{
		{types.KindFileCreate, types.Payload{}},
		{types.KindFileEdit, types.Payload{OldString: "a", NewString: "b"}},
		{types.KindFileEdit, types.Payload{FilePath: "/f"}},
		{types.KindFileEdit, types.Payload{FilePath: "/f", OldString: "a"}},
		{types.KindMultiEdit, types.Payload{FilePath: "/f"}},
		{types.KindFileDelete, types.Payload{}},
		{types.KindFileRename, types.Payload{OldPath: "/a"}},
		{types.KindDirectoryCreate, types.Payload{}},
		{types.KindDirectoryDelete, types.Payload{}},
	}

	for _, tc := range cases {
		op := types.NewOperation(tc.kind, tc.payload, types.StatusActive)
		s, err := reg.Get(tc.kind)
		require.NoError(t, err)

		counting.Reset()
		res := s.Undo(op, ctx)
		assert.False(t, res.Success, "kind %s", tc.kind)
		assert.Zero(t, counting.Calls(), "undo of invalid %s touched the filesystem", tc.kind)

		counting.Reset()
		res = s.Redo(op, ctx)
		assert.False(t, res.Success, "kind %s", tc.kind)
		assert.Zero(t, counting.Calls(), "redo of invalid %s touched the filesystem", tc.kind)
	}
}

func TestPreviews_NeverMutateFilesystem(t *testing.T) {
	_, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/a.txt", "alpha")
	testutil.WriteFile(t, fs, "/work/pkg/b.go", "package pkg")
	reg := strategies.NewRegistry(fs)

	ops := []*types.Operation{
		types.NewOperation(types.KindFileCreate, types.Payload{FilePath: "/work/a.txt", Content: types.StringPtr("alpha")}, types.StatusActive),
		types.NewOperation(types.KindFileEdit, types.Payload{FilePath: "/work/a.txt", OldString: "alpha", NewString: "beta"}, types.StatusActive),
		types.NewOperation(types.KindMultiEdit, types.Payload{FilePath: "/work/a.txt", Edits: []types.Edit{{OldString: "a", NewString: "b"}}}, types.StatusActive),
		types.NewOperation(types.KindFileDelete, types.Payload{FilePath: "/work/gone.txt"}, types.StatusActive),
		types.NewOperation(types.KindFileRename, types.Payload{OldPath: "/work/a.txt", NewPath: "/work/z.txt"}, types.StatusActive),
		types.NewOperation(types.KindDirectoryCreate, types.Payload{DirPath: "/work/pkg"}, types.StatusActive),
		types.NewOperation(types.KindDirectoryDelete, types.Payload{DirPath: "/work/pkg"}, types.StatusActive),
		types.NewOperation(types.KindBashCommand, types.Payload{Command: "ls"}, types.StatusActive),
	}

	before := testutil.Snapshot(t, fs, "/work")
	for _, op := range ops {
		s, err := reg.Get(op.Kind)
		require.NoError(t, err)
		s.PreviewUndo(op)
		s.PreviewRedo(op)
	}
	after := testutil.Snapshot(t, fs, "/work")

	assert.Equal(t, before, after, "a preview mutated the filesystem")
}

func TestPreview_WarnsWhenTargetStringAbsent(t *testing.T) {
	_, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/a.txt", "nothing relevant here")
	s := strategyFor(t, fs, types.KindFileEdit)

	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/a.txt",
		OldString: "missing",
		NewString: "replacement",
	}, types.StatusActive)

	preview := s.PreviewRedo(op)
	require.Len(t, preview.Warnings, 1)
	assert.Contains(t, preview.Warnings[0], "not currently present")
}
