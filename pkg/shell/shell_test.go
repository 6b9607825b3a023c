package shell_test

import (
	"testing"

	"github.com/arthur-debert/rewind/pkg/shell"
	"github.com/arthur-debert/rewind/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesStdout(t *testing.T) {
	out, err := shell.Run("echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRun_CapturesStderr(t *testing.T) {
	out, err := shell.Run("echo oops >&2")
	require.NoError(t, err)
	assert.Equal(t, "oops\n", out)
}

func TestRun_ShellFeaturesWork(t *testing.T) {
	out, err := shell.Run("printf 'a\\nb\\nc\\n' | wc -l")
	require.NoError(t, err)
	assert.Contains(t, out, "3")
}

func TestRun_NonZeroExitIsError(t *testing.T) {
	_, err := shell.Run("exit 3")
	assert.Error(t, err)
}

func TestRecord_SuccessfulCommand(t *testing.T) {
	op := shell.Record("echo recorded")
	assert.Equal(t, types.KindBashCommand, op.Kind)
	assert.Equal(t, types.StatusActive, op.Status)
	assert.Equal(t, "echo recorded", op.Payload.Command)
	assert.Equal(t, "recorded\n", op.Payload.Output)
	assert.Empty(t, op.Error)
}

func TestRecord_FailedCommandIsStillRecorded(t *testing.T) {
	op := shell.Record("echo partial; exit 1")
	assert.Equal(t, types.StatusFailed, op.Status)
	assert.Equal(t, "partial\n", op.Payload.Output)
	assert.NotEmpty(t, op.Error)
}
