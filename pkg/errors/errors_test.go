package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewindError_Error(t *testing.T) {
	err := New(ErrValidation, "file path is required")
	assert.Equal(t, "[VALIDATION] file path is required", err.Error())

	wrapped := Wrap(fmt.Errorf("permission denied"), ErrIOFailure, "failed to delete file")
	assert.Equal(t, "[IO_FAILURE] failed to delete file: permission denied", wrapped.Error())
}

func TestRewindError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("disk full")
	err := Wrap(inner, ErrIOFailure, "write failed")
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestRewindError_Is(t *testing.T) {
	err := Newf(ErrTargetNotFound, "file %s does not exist", "/tmp/a")
	assert.True(t, errors.Is(err, New(ErrTargetNotFound, "")))
	assert.False(t, errors.Is(err, New(ErrValidation, "")))
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrIOFailure, "should be nil"))
	assert.Nil(t, Wrapf(nil, ErrIOFailure, "should be %s", "nil"))
}

func TestIsErrorCode(t *testing.T) {
	err := New(ErrUnsupportedReversal, "bash commands cannot be reversed")
	assert.True(t, IsErrorCode(err, ErrUnsupportedReversal))
	assert.False(t, IsErrorCode(err, ErrUnknownKind))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrUnsupportedReversal))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrContentUnavailable, GetErrorCode(New(ErrContentUnavailable, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))

	// Wrapped chains resolve to the outermost code.
	outer := Wrap(New(ErrIOFailure, "inner"), ErrBackupFailed, "outer")
	assert.Equal(t, ErrBackupFailed, GetErrorCode(outer))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrValidation, "missing field").WithDetail("field", "filePath")
	assert.Equal(t, "filePath", err.Details["field"])
}
