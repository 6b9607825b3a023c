// Package display renders tracker state for the terminal: the journal
// table, previews, and the cascade confirmation prompt.
package display

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorEnabled resolves a color mode ("auto", "always", "never") into
// a decision for the current terminal. Auto means a real TTY with a
// color-capable profile.
func ColorEnabled(mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			return false
		}
		return termenv.EnvColorProfile() != termenv.Ascii
	}
}
