package diff

import (
	"strconv"
	"strings"

	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/zerr"
)

// Parse reads unified-diff text back into file diffs. It accepts the
// output of Render as well as hand-edited patches: "diff"/"index"
// preamble lines are skipped and "\ No newline" markers are honored.
// Hunk bodies are consumed by the line counts in the @@ header, so
// content lines that start with "---" cannot be mistaken for headers.
func (e *Engine) Parse(text string) ([]domain.FileDiff, error) {
	p := &parser{lines: splitLines(text)}
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		p.pos++

		switch {
		case strings.HasPrefix(line, "--- "):
			p.flushFile()
			p.oldName = strings.TrimSpace(line[4:])

		case strings.HasPrefix(line, "+++ "):
			fd, err := fileForNames(p.oldName, strings.TrimSpace(line[4:]))
			if err != nil {
				return nil, zerr.With(err, "line", p.pos)
			}
			p.current = fd

		case strings.HasPrefix(line, "@@ "):
			if p.current == nil {
				return nil, zerr.With(zerr.New("hunk header before file header"), "line", p.pos)
			}
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, zerr.With(err, "line", p.pos)
			}
			if err := p.readHunkBody(h); err != nil {
				return nil, err
			}
			p.current.Hunks = append(p.current.Hunks, *h)

		default:
			// Preamble between files ("diff --git", "index ...") or
			// trailing noise; ignored.
		}
	}
	p.flushFile()

	if len(p.files) == 0 {
		return nil, zerr.New("no file diffs found")
	}
	return p.files, nil
}

type parser struct {
	lines   []string
	pos     int
	files   []domain.FileDiff
	current *domain.FileDiff
	oldName string
}

func (p *parser) flushFile() {
	if p.current != nil {
		p.files = append(p.files, *p.current)
		p.current = nil
	}
}

// readHunkBody consumes exactly the lines announced by the hunk header.
func (p *parser) readHunkBody(h *domain.Hunk) error {
	remainingOld := h.OldLines
	remainingNew := h.NewLines

	for remainingOld > 0 || remainingNew > 0 {
		if p.pos >= len(p.lines) {
			return zerr.With(zerr.New("truncated hunk"), "line", p.pos)
		}
		line := p.lines[p.pos]
		p.pos++

		if line == "\n" {
			// Some tools emit a bare newline for an empty context line.
			line = " \n"
		}

		kind := domain.LineKind(line[0])
		switch kind {
		case domain.LineContext:
			remainingOld--
			remainingNew--
		case domain.LineDeleted:
			remainingOld--
		case domain.LineAdded:
			remainingNew--
		default:
			return zerr.With(zerr.New("malformed hunk line"), "line", p.pos)
		}
		if remainingOld < 0 || remainingNew < 0 {
			return zerr.With(zerr.New("hunk longer than header counts"), "line", p.pos)
		}

		h.Lines = append(h.Lines, domain.Line{Kind: kind, Text: line[1:]})

		// A no-newline marker applies to the line just read.
		if p.pos < len(p.lines) && strings.HasPrefix(p.lines[p.pos], "\\") {
			p.pos++
			last := &h.Lines[len(h.Lines)-1]
			last.Text = strings.TrimSuffix(last.Text, "\n")
		}
	}
	return nil
}

func fileForNames(oldName, newName string) (*domain.FileDiff, error) {
	fd := &domain.FileDiff{Op: domain.FileModified}
	switch {
	case oldName == "/dev/null" && newName == "/dev/null":
		return nil, zerr.New("diff with two null files")
	case oldName == "/dev/null":
		fd.Op = domain.FileAdded
		fd.Path = stripPrefix(newName)
	case newName == "/dev/null":
		fd.Op = domain.FileDeleted
		fd.Path = stripPrefix(oldName)
	default:
		fd.Path = stripPrefix(newName)
	}
	if fd.Path == "" {
		return nil, zerr.New("empty file path in diff header")
	}
	return fd, nil
}

func stripPrefix(name string) string {
	for _, p := range []string{"a/", "b/"} {
		if strings.HasPrefix(name, p) {
			return name[len(p):]
		}
	}
	return name
}

// parseHunkHeader reads "@@ -l[,n] +m[,k] @@" coordinates.
func parseHunkHeader(line string) (*domain.Hunk, error) {
	header := strings.TrimSpace(line)
	header = strings.TrimPrefix(header, "@@ ")
	if i := strings.Index(header, " @@"); i >= 0 {
		header = header[:i]
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.HasPrefix(parts[0], "-") || !strings.HasPrefix(parts[1], "+") {
		return nil, zerr.New("malformed hunk header")
	}

	oldStart, oldCount, err := parseRange(parts[0][1:])
	if err != nil {
		return nil, err
	}
	newStart, newCount, err := parseRange(parts[1][1:])
	if err != nil {
		return nil, err
	}

	return &domain.Hunk{
		OldStart: oldStart,
		OldLines: oldCount,
		NewStart: newStart,
		NewLines: newCount,
	}, nil
}

func parseRange(s string) (start, count int, err error) {
	startStr, countStr, hasCount := strings.Cut(s, ",")
	start, err = strconv.Atoi(startStr)
	if err != nil {
		return 0, 0, zerr.Wrap(err, "malformed hunk range")
	}
	count = 1
	if hasCount {
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return 0, 0, zerr.Wrap(err, "malformed hunk range")
		}
	}
	return start, count, nil
}
