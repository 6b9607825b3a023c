package display

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/rewind/pkg/types"
)

// ConfirmCascade asks the user to approve a cascading reversal that
// will sweep up the listed operations. Defaults to no.
func ConfirmCascade(verb string, ops []*types.Operation) (bool, error) {
	pterm.Println(pterm.Bold.Sprintf("This %s cascades to %d other operation(s):", verb, len(ops)))
	for _, op := range ops {
		pterm.Printf("  %s  %-16s %s\n", shortID(op.ID), op.Kind, Target(op))
	}

	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(false).
		Show(fmt.Sprintf("Proceed with cascading %s?", verb))
	if err != nil {
		return false, err
	}
	return result, nil
}
