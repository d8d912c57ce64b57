package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurum/internal/core/domain"
)

func TestCompute(t *testing.T) {
	e := NewEngine()

	t.Run("identical trees produce the empty diff", func(t *testing.T) {
		tree := domain.Tree{"PKGBUILD": "pkgver=1\n", ".SRCINFO": "pkgver = 1\n"}
		d := e.Compute(tree, tree)
		assert.True(t, d.Empty())
	})

	t.Run("classifies added, deleted and modified files", func(t *testing.T) {
		old := domain.Tree{
			"PKGBUILD": "pkgver=1\n",
			"removed":  "gone\n",
		}
		new := domain.Tree{
			"PKGBUILD": "pkgver=2\n",
			"added":    "fresh\n",
		}

		d := e.Compute(old, new)
		require.Len(t, d.Files, 3)

		// Files are sorted by path, so the order is deterministic.
		assert.Equal(t, "PKGBUILD", d.Files[0].Path)
		assert.Equal(t, domain.FileModified, d.Files[0].Op)
		assert.Equal(t, "added", d.Files[1].Path)
		assert.Equal(t, domain.FileAdded, d.Files[1].Op)
		assert.Equal(t, "removed", d.Files[2].Path)
		assert.Equal(t, domain.FileDeleted, d.Files[2].Op)
	})

	t.Run("distant changes produce separate hunks", func(t *testing.T) {
		old := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\nm\n"
		new := "A\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\nM\n"

		d := e.Compute(domain.Tree{"f": old}, domain.Tree{"f": new})
		require.Len(t, d.Files, 1)
		assert.Len(t, d.Files[0].Hunks, 2)
	})

	t.Run("is deterministic", func(t *testing.T) {
		old := domain.Tree{"a": "1\n", "b": "2\n", "c": "3\n"}
		new := domain.Tree{"a": "x\n", "b": "2\n", "d": "4\n"}
		first := e.Render(e.Compute(old, new))
		for range 10 {
			assert.Equal(t, first, e.Render(e.Compute(old, new)))
		}
	})
}

func TestApplyReconstructs(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		old  domain.Tree
		new  domain.Tree
	}{
		{
			"modified file",
			domain.Tree{"PKGBUILD": "pkgname=demo\npkgver=1\npkgrel=1\n"},
			domain.Tree{"PKGBUILD": "pkgname=demo\npkgver=2\npkgrel=1\n"},
		},
		{
			"added and deleted files",
			domain.Tree{"old": "content\n"},
			domain.Tree{"new": "content\n"},
		},
		{
			"empty baseline",
			domain.Tree{},
			domain.Tree{"PKGBUILD": "pkgver=1\n", "demo.install": "post_install() { :; }\n"},
		},
		{
			"no trailing newline",
			domain.Tree{"f": "one\ntwo"},
			domain.Tree{"f": "one\nthree"},
		},
		{
			"trailing newline added",
			domain.Tree{"f": "one\ntwo"},
			domain.Tree{"f": "one\ntwo\n"},
		},
		{
			"file emptied but kept",
			domain.Tree{"f": "content\n", "g": "kept\n"},
			domain.Tree{"f": "", "g": "kept\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := e.Compute(tt.old, tt.new)
			got, err := e.Apply(tt.old, d.Files)
			require.NoError(t, err)
			assert.Equal(t, tt.new, got)
		})
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	e := NewEngine()

	old := domain.Tree{
		"PKGBUILD": "pkgname=demo\npkgver=1\npkgrel=1\nsource=(demo.tar)\n",
		"removed":  "bye\n",
		"tricky":   "--- not a header\nplain\n",
	}
	new := domain.Tree{
		"PKGBUILD": "pkgname=demo\npkgver=2\npkgrel=1\nsource=(demo.tar)\n",
		"added":    "hi, no terminator",
		"tricky":   "+++ also not a header\nplain\n",
	}

	d := e.Compute(old, new)
	text := e.Render(d)

	files, err := e.Parse(text)
	require.NoError(t, err)
	require.Equal(t, d.Files, files)

	// The parsed diff still applies.
	got, err := e.Apply(old, files)
	require.NoError(t, err)
	assert.Equal(t, new, got)
}

func TestRender(t *testing.T) {
	e := NewEngine()

	t.Run("single-line counts are omitted", func(t *testing.T) {
		d := e.Compute(domain.Tree{"f": "a\n"}, domain.Tree{"f": "b\n"})
		text := e.Render(d)
		assert.Contains(t, text, "@@ -1 +1 @@")
	})

	t.Run("added file uses dev null", func(t *testing.T) {
		d := e.Compute(domain.Tree{}, domain.Tree{"f": "a\n"})
		text := e.Render(d)
		assert.Contains(t, text, "--- /dev/null\n+++ b/f\n")
	})

	t.Run("missing terminator is marked", func(t *testing.T) {
		d := e.Compute(domain.Tree{}, domain.Tree{"f": "no newline"})
		text := e.Render(d)
		assert.Contains(t, text, "\\ No newline at end of file")
	})
}

func TestParse(t *testing.T) {
	e := NewEngine()

	t.Run("skips preamble lines", func(t *testing.T) {
		text := "diff --git a/f b/f\nindex 000..111 100644\n" +
			"--- a/f\n+++ b/f\n@@ -1 +1 @@\n-a\n+b\n"
		files, err := e.Parse(text)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "f", files[0].Path)
	})

	t.Run("rejects text without file diffs", func(t *testing.T) {
		_, err := e.Parse("just some text\n")
		assert.Error(t, err)
	})

	t.Run("rejects hunks before a file header", func(t *testing.T) {
		_, err := e.Parse("@@ -1 +1 @@\n-a\n+b\n")
		assert.Error(t, err)
	})

	t.Run("rejects truncated hunks", func(t *testing.T) {
		_, err := e.Parse("--- a/f\n+++ b/f\n@@ -1,2 +1,2 @@\n-a\n+b\n")
		assert.Error(t, err)
	})
}

func TestApplyConflicts(t *testing.T) {
	e := NewEngine()

	t.Run("modified file missing from target", func(t *testing.T) {
		d := e.Compute(domain.Tree{"f": "a\n"}, domain.Tree{"f": "b\n"})
		_, err := e.Apply(domain.Tree{}, d.Files)
		assert.ErrorIs(t, err, domain.ErrPatchConflict)
	})

	t.Run("added file already present", func(t *testing.T) {
		d := e.Compute(domain.Tree{}, domain.Tree{"f": "a\n"})
		_, err := e.Apply(domain.Tree{"f": "other\n"}, d.Files)
		assert.ErrorIs(t, err, domain.ErrPatchConflict)
	})

	t.Run("context lines match nowhere", func(t *testing.T) {
		d := e.Compute(domain.Tree{"f": "a\nb\nc\n"}, domain.Tree{"f": "a\nB\nc\n"})
		_, err := e.Apply(domain.Tree{"f": "x\ny\nz\n"}, d.Files)
		assert.ErrorIs(t, err, domain.ErrPatchConflict)
	})

	t.Run("base tree is never mutated", func(t *testing.T) {
		base := domain.Tree{"f": "a\nb\nc\n"}
		d := e.Compute(base, domain.Tree{"f": "a\nB\nc\n"})
		_, err := e.Apply(base, d.Files)
		require.NoError(t, err)
		assert.Equal(t, domain.Tree{"f": "a\nb\nc\n"}, base)
	})
}

func TestApplyWithDrift(t *testing.T) {
	e := NewEngine()

	// The patch was authored against v1; the target has extra lines
	// above, shifting every position down.
	authored := domain.Tree{"f": "alpha\nbeta\ngamma\ndelta\n"}
	edited := domain.Tree{"f": "alpha\nbeta\nGAMMA\ndelta\n"}
	d := e.Compute(authored, edited)

	target := domain.Tree{"f": "intro\nmore intro\nalpha\nbeta\ngamma\ndelta\n"}
	got, err := e.Apply(target, d.Files)
	require.NoError(t, err)
	assert.Equal(t, "intro\nmore intro\nalpha\nbeta\nGAMMA\ndelta\n", got["f"])
}
