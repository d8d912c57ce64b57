// Package diff implements the line-oriented diff engine: computing,
// rendering, parsing and applying unified diffs over snapshot trees.
package diff

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
)

// contextLines is the number of unchanged lines kept around each change.
const contextLines = 3

var _ ports.Differ = (*Engine)(nil)

// Engine implements ports.Differ. It holds no state; all methods are
// pure functions over their inputs.
type Engine struct{}

// NewEngine creates a new diff engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute produces the line-oriented diff between two trees. The file
// order and hunk layout are deterministic, Compute(x, x) is the empty
// diff, and Apply(old, Compute(old, new).Files) reproduces new exactly.
func (e *Engine) Compute(old, new domain.Tree) domain.Diff {
	var d domain.Diff
	for _, path := range sortedPaths(old, new) {
		oldBody, inOld := old[path]
		newBody, inNew := new[path]
		if inOld && inNew && oldBody == newBody {
			continue
		}

		fd := domain.FileDiff{Path: path, Op: domain.FileModified}
		switch {
		case !inOld:
			fd.Op = domain.FileAdded
		case !inNew:
			fd.Op = domain.FileDeleted
		}

		oldLines := splitLines(oldBody)
		newLines := splitLines(newBody)
		matcher := difflib.NewMatcher(oldLines, newLines)
		for _, group := range matcher.GetGroupedOpCodes(contextLines) {
			fd.Hunks = append(fd.Hunks, opCodesToHunk(group, oldLines, newLines))
		}
		if len(fd.Hunks) == 0 && fd.Op == domain.FileModified {
			// Identical bodies already skipped above; an empty opcode
			// grouping here means both sides are empty.
			continue
		}
		d.Files = append(d.Files, fd)
	}
	return d
}

// splitLines splits content into lines that keep their trailing newline,
// so joining the lines reproduces the content byte for byte. The final
// line of a file may lack a terminator.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func joinLines(lines []string) string {
	return strings.Join(lines, "")
}

// sortedPaths returns the union of paths of both trees, sorted, so the
// computed diff is deterministic.
func sortedPaths(old, new domain.Tree) []string {
	seen := make(map[string]bool, len(old)+len(new))
	var paths []string
	for p := range old {
		seen[p] = true
		paths = append(paths, p)
	}
	for p := range new {
		if !seen[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// opCodesToHunk converts one difflib opcode group into a hunk with
// unified-diff coordinates.
func opCodesToHunk(group []difflib.OpCode, oldLines, newLines []string) domain.Hunk {
	first := group[0]
	last := group[len(group)-1]

	h := domain.Hunk{
		OldStart: first.I1 + 1,
		OldLines: last.I2 - first.I1,
		NewStart: first.J1 + 1,
		NewLines: last.J2 - first.J1,
	}
	// Unified convention: a zero-length side is anchored on the line
	// before the change.
	if h.OldLines == 0 {
		h.OldStart = first.I1
	}
	if h.NewLines == 0 {
		h.NewStart = first.J1
	}

	for _, op := range group {
		switch op.Tag {
		case 'e':
			appendLines(&h, domain.LineContext, oldLines[op.I1:op.I2])
		case 'd':
			appendLines(&h, domain.LineDeleted, oldLines[op.I1:op.I2])
		case 'i':
			appendLines(&h, domain.LineAdded, newLines[op.J1:op.J2])
		case 'r':
			appendLines(&h, domain.LineDeleted, oldLines[op.I1:op.I2])
			appendLines(&h, domain.LineAdded, newLines[op.J1:op.J2])
		}
	}
	return h
}

func appendLines(h *domain.Hunk, kind domain.LineKind, lines []string) {
	for _, l := range lines {
		h.Lines = append(h.Lines, domain.Line{Kind: kind, Text: l})
	}
}
