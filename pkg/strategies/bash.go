package strategies

import (
	"fmt"

	"github.com/arthur-debert/rewind/pkg/types"
)

// bashCommand is the deliberate terminal case: shell commands are not
// programmatically reversible, so both directions always fail with a
// message instructing manual intervention. The caller is told why
// nothing happened instead of receiving a silent no-op.
type bashCommand struct {
	base
}

func newBashCommand(fs types.FS) *bashCommand {
	return &bashCommand{base{kind: types.KindBashCommand, fs: fs}}
}

func (s *bashCommand) message(op *types.Operation) string {
	cmd := op.Payload.Command
	if cmd == "" {
		cmd = "(command not recorded)"
	}
	return fmt.Sprintf("shell commands cannot be automatically reversed; inspect and revert the effects of %q manually", snippet(cmd))
}

func (s *bashCommand) Undo(op *types.Operation, _ *types.OperationContext) types.Result {
	return types.Fail(s.message(op))
}

func (s *bashCommand) Redo(op *types.Operation, _ *types.OperationContext) types.Result {
	return types.Fail(s.message(op))
}

func (s *bashCommand) PreviewUndo(op *types.Operation) types.Preview {
	return s.preview(op, "No automatic reversal is possible", s.message(op))
}

func (s *bashCommand) PreviewRedo(op *types.Operation) types.Preview {
	return s.preview(op, "No automatic re-execution is performed", s.message(op))
}
