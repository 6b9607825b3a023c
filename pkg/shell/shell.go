// Package shell runs agent shell commands and captures what they
// printed, producing the bash_command journal entries. Commands are
// recorded for the audit trail only; they are never reversible.
package shell

import (
	"fmt"
	"strings"

	"github.com/bitfield/script"

	"github.com/arthur-debert/rewind/pkg/logging"
	"github.com/arthur-debert/rewind/pkg/types"
)

// Run executes command through /bin/sh and returns its combined
// stdout and stderr. The error reports a non-zero exit.
func Run(command string) (string, error) {
	logger := logging.GetLogger("shell")
	logger.Debug().Str("command", command).Msg("Executing shell command")

	// Route through sh so pipes, globs and redirects behave the way
	// the agent wrote them; 2>&1 folds stderr into the captured output.
	wrapped := fmt.Sprintf("/bin/sh -c %s", quote("{ "+command+" ; } 2>&1"))
	output, err := script.Exec(wrapped).String()
	if err != nil {
		logger.Debug().Err(err).Str("command", command).Msg("Shell command failed")
		return output, fmt.Errorf("shell command failed: %w", err)
	}
	return output, nil
}

// Record runs command and builds the journal entry for it. A failed
// command is still recorded, with status failed and the cause on the
// operation, because the journal records what happened.
func Record(command string) *types.Operation {
	output, err := Run(command)

	status := types.StatusActive
	if err != nil {
		status = types.StatusFailed
	}
	op := types.NewOperation(types.KindBashCommand, types.Payload{
		Command: command,
		Output:  output,
	}, status)
	if err != nil {
		op.Error = err.Error()
	}
	return op
}

// quote wraps s in single quotes for sh, escaping embedded quotes.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
