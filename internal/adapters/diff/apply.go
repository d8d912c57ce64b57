package diff

import (
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/zerr"
)

// Apply replays file diffs onto a base tree and returns the derived
// tree. The base tree is never mutated. Hunks are matched at their
// recorded position first, then at the nearest offset where the old
// lines match; a hunk that matches nowhere fails with
// domain.ErrPatchConflict carrying the file and region.
func (e *Engine) Apply(base domain.Tree, files []domain.FileDiff) (domain.Tree, error) {
	result := base.Clone()
	for _, fd := range files {
		body, exists := result[fd.Path]

		switch fd.Op {
		case domain.FileAdded:
			if exists {
				return nil, conflictFile(fd, "file already exists")
			}
			body = ""
		case domain.FileDeleted, domain.FileModified:
			if !exists {
				return nil, conflictFile(fd, "file missing from target")
			}
		}

		patched, err := applyHunks(fd, splitLines(body))
		if err != nil {
			return nil, err
		}

		if fd.Op == domain.FileDeleted && len(patched) == 0 {
			delete(result, fd.Path)
			continue
		}
		result[fd.Path] = joinLines(patched)
	}
	return result, nil
}

// applyHunks splices each hunk into the line slice in order. Positions
// are tracked with the cumulative drift of earlier hunks, and each hunk
// may only match at or after the end of the previous one.
func applyHunks(fd domain.FileDiff, lines []string) ([]string, error) {
	drift := 0
	floor := 0

	for _, h := range fd.Hunks {
		oldBlock, newBlock := hunkBlocks(h)

		expected := h.OldStart - 1 + drift
		if h.OldLines == 0 {
			// Zero old lines anchor on the line before the insertion.
			expected = h.OldStart + drift
		}

		pos, ok := findBlock(lines, oldBlock, expected, floor)
		if !ok {
			return nil, conflict(fd, h, "context lines do not match")
		}

		patched := make([]string, 0, len(lines)-len(oldBlock)+len(newBlock))
		patched = append(patched, lines[:pos]...)
		patched = append(patched, newBlock...)
		patched = append(patched, lines[pos+len(oldBlock):]...)
		lines = patched

		floor = pos + len(newBlock)
		drift += len(newBlock) - len(oldBlock)
	}
	return lines, nil
}

// hunkBlocks splits a hunk into the lines expected in the target (old
// side: context plus deletions) and the lines that replace them (new
// side: context plus additions).
func hunkBlocks(h domain.Hunk) (oldBlock, newBlock []string) {
	for _, l := range h.Lines {
		switch l.Kind {
		case domain.LineContext:
			oldBlock = append(oldBlock, l.Text)
			newBlock = append(newBlock, l.Text)
		case domain.LineDeleted:
			oldBlock = append(oldBlock, l.Text)
		case domain.LineAdded:
			newBlock = append(newBlock, l.Text)
		}
	}
	return oldBlock, newBlock
}

// findBlock locates block within lines, preferring the position nearest
// to expected, never before floor. An empty block is a pure insertion
// and lands at the expected position clamped into range.
func findBlock(lines, block []string, expected, floor int) (int, bool) {
	if expected < floor {
		expected = floor
	}

	if len(block) == 0 {
		if expected > len(lines) {
			expected = len(lines)
		}
		return expected, true
	}

	limit := len(lines) - len(block)
	for offset := 0; expected-offset >= floor || expected+offset <= limit; offset++ {
		if p := expected - offset; p >= floor && p <= limit && blockAt(lines, block, p) {
			return p, true
		}
		if offset == 0 {
			continue
		}
		if p := expected + offset; p >= floor && p <= limit && blockAt(lines, block, p) {
			return p, true
		}
	}
	return 0, false
}

func blockAt(lines, block []string, pos int) bool {
	for i, b := range block {
		if lines[pos+i] != b {
			return false
		}
	}
	return true
}

func conflict(fd domain.FileDiff, h domain.Hunk, reason string) error {
	err := zerr.Wrap(domain.ErrPatchConflict, reason)
	err = zerr.With(err, "file", fd.Path)
	err = zerr.With(err, "region", regionLabel(h))
	return err
}

func conflictFile(fd domain.FileDiff, reason string) error {
	err := zerr.Wrap(domain.ErrPatchConflict, reason)
	return zerr.With(err, "file", fd.Path)
}

func regionLabel(h domain.Hunk) string {
	return formatRange(h.OldStart, h.OldLines) + " -> " + formatRange(h.NewStart, h.NewLines)
}
