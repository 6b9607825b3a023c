package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/arthur-debert/rewind/pkg/types"
)

var statusStyles = map[types.OperationStatus]lipgloss.Style{
	types.StatusActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	types.StatusUndone:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	types.StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	types.StatusPartial: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	types.StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
}

// styleStatus colors a status label when colored output is on.
func styleStatus(status types.OperationStatus, colored bool) string {
	if !colored {
		return string(status)
	}
	if style, ok := statusStyles[status]; ok {
		return style.Render(string(status))
	}
	return string(status)
}

// Target names the path or command an operation acted on.
func Target(op *types.Operation) string {
	switch op.Kind {
	case types.KindFileRename:
		return op.Payload.OldPath + " -> " + op.Payload.NewPath
	case types.KindDirectoryCreate, types.KindDirectoryDelete:
		return op.Payload.DirPath
	case types.KindBashCommand:
		return op.Payload.Command
	default:
		return op.Payload.FilePath
	}
}

// RenderLog writes the journal as a table: id prefix, kind, status,
// target and timestamp, one row per operation in recording order.
func RenderLog(w io.Writer, ops []*types.Operation, colored bool) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No operations recorded.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"ID", "Kind", "Status", "Target", "When"})
	for _, op := range ops {
		tw.AppendRow(table.Row{
			shortID(op.ID),
			string(op.Kind),
			styleStatus(op.Status, colored),
			truncate(Target(op), 60),
			op.Timestamp.Local().Format(time.DateTime),
		})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// shortID keeps the first uuid group, enough to disambiguate a journal.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
