package strategies_test

import (
	"testing"

	"github.com/arthur-debert/rewind/pkg/backup"
	"github.com/arthur-debert/rewind/pkg/filesystem"
	"github.com/arthur-debert/rewind/pkg/testutil"
	"github.com/arthur-debert/rewind/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEdit_RedoAndUndoMirror(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/main.go", "hello old world")
	s := strategyFor(t, fs, types.KindFileEdit)

	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/main.go",
		OldString: "old",
		NewString: "new",
	}, types.StatusUndone)

	res := s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "hello new world", testutil.ReadFile(t, fs, "/work/main.go"))

	res = s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "hello old world", testutil.ReadFile(t, fs, "/work/main.go"))
}

func TestFileEdit_ReplaceAllSemantics(t *testing.T) {
	ctx, fs := newContext(t)
	s := strategyFor(t, fs, types.KindFileEdit)

	// replaceAll replaces every occurrence.
	testutil.WriteFile(t, fs, "/work/all.txt", "foofoo")
	opAll := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:   "/work/all.txt",
		OldString:  "foo",
		NewString:  "bar",
		ReplaceAll: true,
	}, types.StatusUndone)
	require.True(t, s.Redo(opAll, ctx).Success)
	assert.Equal(t, "barbar", testutil.ReadFile(t, fs, "/work/all.txt"))

	// Without replaceAll only the first occurrence changes.
	testutil.WriteFile(t, fs, "/work/first.txt", "foofoo")
	opFirst := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/first.txt",
		OldString: "foo",
		NewString: "bar",
	}, types.StatusUndone)
	require.True(t, s.Redo(opFirst, ctx).Success)
	assert.Equal(t, "barfoo", testutil.ReadFile(t, fs, "/work/first.txt"))
}

func TestFileEdit_MissingTargetIsSoftSkip(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/main.go", "externally changed content")
	s := strategyFor(t, fs, types.KindFileEdit)

	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/main.go",
		OldString: "old",
		NewString: "new",
	}, types.StatusUndone)

	// The expected substring is gone; best-effort means the file is
	// left unchanged and the caller is told, not an error.
	res := s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Partial)
	assert.Contains(t, res.Message, "left unchanged")
	assert.Equal(t, "externally changed content", testutil.ReadFile(t, fs, "/work/main.go"))
}

func TestFileEdit_EmptyNewStringFailsValidation(t *testing.T) {
	counting := testutil.NewCountingFS(filesystem.NewMemory())
	store := backup.NewStore(counting, "/backups")
	ctx := &types.OperationContext{FS: counting, BackupDir: "/backups", Backups: store}
	s := strategyFor(t, counting, types.KindFileEdit)

	// Without a newString the undo direction would have nothing to
	// search for, so the payload is rejected before any I/O.
	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/main.go",
		OldString: "old",
	}, types.StatusActive)

	res := s.Undo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "newString")
	assert.Zero(t, counting.Calls())

	res = s.Redo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "newString")
	assert.Zero(t, counting.Calls())
}

func TestFileEdit_MissingFileFails(t *testing.T) {
	ctx, fs := newContext(t)
	s := strategyFor(t, fs, types.KindFileEdit)

	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/gone.go",
		OldString: "a",
		NewString: "b",
	}, types.StatusUndone)

	res := s.Redo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "does not exist")
}

func TestFileEdit_BackupsTaggedPerDirection(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/main.go", "v1 old")
	s := strategyFor(t, fs, types.KindFileEdit)

	op := types.NewOperation(types.KindFileEdit, types.Payload{
		FilePath:  "/work/main.go",
		OldString: "old",
		NewString: "new",
	}, types.StatusActive)

	undoRes := s.Undo(op, ctx)
	require.True(t, undoRes.Success)
	assert.Contains(t, undoRes.BackupPath, op.ID+"-current")
	assert.Equal(t, "v1 old", testutil.ReadFile(t, fs, undoRes.BackupPath))

	redoRes := s.Redo(op, ctx)
	require.True(t, redoRes.Success)
	assert.Contains(t, redoRes.BackupPath, op.ID+"-redo")
	// The redo backup holds the content as it stood after the undo.
	assert.Equal(t, "v1 old", testutil.ReadFile(t, fs, redoRes.BackupPath))
}

func TestMultiEdit_ForwardRedoReverseUndo(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/f.txt", "xay")
	s := strategyFor(t, fs, types.KindMultiEdit)

	op := types.NewOperation(types.KindMultiEdit, types.Payload{
		FilePath: "/work/f.txt",
		Edits: []types.Edit{
			{OldString: "a", NewString: "b"},
			{OldString: "b", NewString: "c"},
		},
	}, types.StatusUndone)

	// Forward order: a->b then b->c.
	res := s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, res.Partial)
	assert.Equal(t, "xcy", testutil.ReadFile(t, fs, "/work/f.txt"))

	// Reverse order: c->b then b->a.
	res = s.Undo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.False(t, res.Partial)
	assert.Equal(t, "xay", testutil.ReadFile(t, fs, "/work/f.txt"))
}

func TestMultiEdit_EmptyEditsFailFast(t *testing.T) {
	counting := testutil.NewCountingFS(filesystem.NewMemory())
	store := backup.NewStore(counting, "/backups")
	ctx := &types.OperationContext{FS: counting, BackupDir: "/backups", Backups: store}
	s := strategyFor(t, counting, types.KindMultiEdit)

	op := types.NewOperation(types.KindMultiEdit, types.Payload{
		FilePath: "/work/f.txt",
	}, types.StatusActive)

	res := s.Undo(op, ctx)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "no edits specified")
	assert.Zero(t, counting.Calls())
}

func TestMultiEdit_PartialWhenSomeEditsSkipped(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/f.txt", "only alpha here")
	s := strategyFor(t, fs, types.KindMultiEdit)

	op := types.NewOperation(types.KindMultiEdit, types.Payload{
		FilePath: "/work/f.txt",
		Edits: []types.Edit{
			{OldString: "alpha", NewString: "beta"},
			{OldString: "gamma", NewString: "delta"},
		},
	}, types.StatusUndone)

	res := s.Redo(op, ctx)
	require.True(t, res.Success, res.Message)
	assert.True(t, res.Partial)
	assert.Contains(t, res.Message, "1 of 2")
	assert.Equal(t, "only beta here", testutil.ReadFile(t, fs, "/work/f.txt"))
}

func TestMultiEdit_RepeatedCyclesKeepPriorState(t *testing.T) {
	ctx, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/f.txt", "finish")
	s := strategyFor(t, fs, types.KindMultiEdit)

	op := types.NewOperation(types.KindMultiEdit, types.Payload{
		FilePath: "/work/f.txt",
		Edits:    []types.Edit{{OldString: "start", NewString: "finish"}},
	}, types.StatusActive)

	for i := 0; i < 3; i++ {
		require.True(t, s.Undo(op, ctx).Success)
		assert.Equal(t, "start", testutil.ReadFile(t, fs, "/work/f.txt"))
		require.True(t, s.Redo(op, ctx).Success)
		assert.Equal(t, "finish", testutil.ReadFile(t, fs, "/work/f.txt"))
	}
}

func TestMultiEdit_PreviewReportsEditCount(t *testing.T) {
	_, fs := newContext(t)
	testutil.WriteFile(t, fs, "/work/f.txt", "xay")
	s := strategyFor(t, fs, types.KindMultiEdit)

	op := types.NewOperation(types.KindMultiEdit, types.Payload{
		FilePath: "/work/f.txt",
		Edits: []types.Edit{
			{OldString: "a", NewString: "b"},
			{OldString: "b", NewString: "c"},
		},
	}, types.StatusActive)

	preview := s.PreviewUndo(op)
	assert.Contains(t, preview.Changes, "2 edits")
	preview = s.PreviewRedo(op)
	assert.Contains(t, preview.Changes, "2 edits")
}
