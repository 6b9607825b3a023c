package registry

import (
	"testing"

	"github.com/arthur-debert/rewind/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := New[int]()

	require.NoError(t, reg.Register("one", 1))
	require.NoError(t, reg.Register("two", 2))

	got, err := reg.Get("one")
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	_, err = reg.Get("three")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestRegistry_RejectsDuplicatesAndEmptyNames(t *testing.T) {
	reg := New[string]()

	require.NoError(t, reg.Register("a", "x"))
	err := reg.Register("a", "y")
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	err = reg.Register("", "z")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRegistry_ListSortedAndCount(t *testing.T) {
	reg := New[int]()
	require.NoError(t, reg.Register("b", 2))
	require.NoError(t, reg.Register("a", 1))
	require.NoError(t, reg.Register("c", 3))

	assert.Equal(t, []string{"a", "b", "c"}, reg.List())
	assert.Equal(t, 3, reg.Count())
	assert.True(t, reg.Has("b"))
	assert.False(t, reg.Has("d"))
}
