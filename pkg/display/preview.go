package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/arthur-debert/rewind/pkg/types"
)

// PreviewMarkdown renders a preview as markdown text. The structure is
// stable so it can be asserted on; glamour handles the terminal side.
func PreviewMarkdown(verb string, p types.Preview) string {
	title := verb
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", title, shortID(p.Operation.ID))
	fmt.Fprintf(&b, "**Kind:** `%s`  \n", p.Operation.Kind)
	fmt.Fprintf(&b, "**Status:** `%s`\n\n", p.Operation.Status)
	fmt.Fprintf(&b, "%s\n", p.Changes)

	if len(p.CascadingOperations) > 0 {
		b.WriteString("\n## Cascading operations\n\n")
		for _, op := range p.CascadingOperations {
			fmt.Fprintf(&b, "- `%s` %s (%s)\n", shortID(op.ID), op.Kind, Target(op))
		}
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range p.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

// RenderPreview renders a preview for the terminal. Without color the
// markdown passes through glamour's notty style, which strips ANSI.
func RenderPreview(verb string, p types.Preview, colored bool) (string, error) {
	md := PreviewMarkdown(verb, p)

	var opts []glamour.TermRendererOption
	if colored {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath("notty"))
	}
	opts = append(opts, glamour.WithWordWrap(100))

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md, nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md, nil
	}
	return out, nil
}
