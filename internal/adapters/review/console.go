// Package review implements the interactive diff review on the
// terminal.
package review

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Reviewer = (*Console)(nil)

// Console shows diffs on a terminal and asks for approval. When
// autoApprove is set the prompt is skipped and every diff passes.
// Reviews are serialized: the terminal holds one prompt at a time, and
// one persistent reader owns the input so buffered answers survive
// across prompts.
type Console struct {
	mu          sync.Mutex
	in          *bufio.Reader
	out         io.Writer
	autoApprove bool

	header  *color.Color
	hunk    *color.Color
	added   *color.Color
	deleted *color.Color
}

// NewConsole creates a reviewer reading answers from in and printing to
// out.
func NewConsole(in io.Reader, out io.Writer, autoApprove bool) *Console {
	return &Console{
		in:          bufio.NewReader(in),
		out:         out,
		autoApprove: autoApprove,
		header:      color.New(color.Bold),
		hunk:        color.New(color.FgCyan),
		added:       color.New(color.FgGreen),
		deleted:     color.New(color.FgRed),
	}
}

// Review prints the diff and prompts for approval. Enter defaults to
// yes; anything starting with n or N declines. Input that closes before
// an answer arrives is an error, never an approval.
func (c *Console) Review(ctx context.Context, pkg string, d domain.Diff) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.print(pkg, d)

	if c.autoApprove {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, zerr.Wrap(err, "review interrupted")
	}

	fmt.Fprintf(c.out, "Apply these changes to %s? [Y/n] ", pkg)

	answer, err := c.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, zerr.Wrap(err, "failed to read review answer")
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" && err == io.EOF {
		closed := zerr.New("input closed before the review was answered")
		return false, zerr.With(closed, "package", pkg)
	}
	return answer == "" || strings.HasPrefix(answer, "y"), nil
}

func (c *Console) print(pkg string, d domain.Diff) {
	c.header.Fprintf(c.out, "Changes for %s:\n", pkg)

	for _, fd := range d.Files {
		switch fd.Op {
		case domain.FileAdded:
			c.header.Fprintf(c.out, "--- /dev/null\n+++ b/%s\n", fd.Path)
		case domain.FileDeleted:
			c.header.Fprintf(c.out, "--- a/%s\n+++ /dev/null\n", fd.Path)
		default:
			c.header.Fprintf(c.out, "--- a/%s\n+++ b/%s\n", fd.Path, fd.Path)
		}

		for _, h := range fd.Hunks {
			c.hunk.Fprintf(c.out, "@@ -%s +%s @@\n",
				rangeLabel(h.OldStart, h.OldLines),
				rangeLabel(h.NewStart, h.NewLines))
			for _, line := range h.Lines {
				text := strings.TrimSuffix(line.Text, "\n")
				switch line.Kind {
				case domain.LineAdded:
					c.added.Fprintf(c.out, "+%s\n", text)
				case domain.LineDeleted:
					c.deleted.Fprintf(c.out, "-%s\n", text)
				default:
					fmt.Fprintf(c.out, " %s\n", text)
				}
			}
		}
	}
}

func rangeLabel(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
