package diff

import (
	"fmt"
	"strings"

	"go.trai.ch/aurum/internal/core/domain"
)

// noNewlineMarker follows a diff line whose text lacks a terminator.
const noNewlineMarker = "\\ No newline at end of file\n"

// Render formats a diff as unified-diff text.
func (e *Engine) Render(d domain.Diff) string {
	var b strings.Builder
	for _, fd := range d.Files {
		renderFile(&b, fd)
	}
	return b.String()
}

func renderFile(b *strings.Builder, fd domain.FileDiff) {
	oldName, newName := "a/"+fd.Path, "b/"+fd.Path
	if fd.Op == domain.FileAdded {
		oldName = "/dev/null"
	}
	if fd.Op == domain.FileDeleted {
		newName = "/dev/null"
	}
	fmt.Fprintf(b, "--- %s\n+++ %s\n", oldName, newName)

	for _, h := range fd.Hunks {
		fmt.Fprintf(b, "@@ -%s +%s @@\n",
			formatRange(h.OldStart, h.OldLines),
			formatRange(h.NewStart, h.NewLines))
		for _, l := range h.Lines {
			b.WriteByte(byte(l.Kind))
			b.WriteString(l.Text)
			if !strings.HasSuffix(l.Text, "\n") {
				b.WriteString("\n")
				b.WriteString(noNewlineMarker)
			}
		}
	}
}

// formatRange renders one side of a @@ header; unified diffs omit the
// count when it is exactly one.
func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
