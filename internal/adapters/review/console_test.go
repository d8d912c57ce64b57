package review

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurum/internal/core/domain"
)

func sampleDiff() domain.Diff {
	return domain.Diff{Files: []domain.FileDiff{{
		Path: "PKGBUILD",
		Op:   domain.FileModified,
		Hunks: []domain.Hunk{{
			OldStart: 1, OldLines: 2,
			NewStart: 1, NewLines: 2,
			Lines: []domain.Line{
				{Kind: domain.LineContext, Text: "pkgname=demo\n"},
				{Kind: domain.LineDeleted, Text: "pkgver=1\n"},
				{Kind: domain.LineAdded, Text: "pkgver=2\n"},
			},
		}},
	}}}
}

func TestConsole_Review(t *testing.T) {
	t.Run("enter approves", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("\n"), &out, false)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Contains(t, out.String(), "Changes for demo:")
		assert.Contains(t, out.String(), "+pkgver=2")
		assert.Contains(t, out.String(), "-pkgver=1")
		assert.Contains(t, out.String(), "[Y/n]")
	})

	t.Run("explicit yes approves", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("yes\n"), &out, false)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("n declines", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("n\n"), &out, false)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("consecutive declines are all honored", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("n\nn\n"), &out, false)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = c.Review(context.Background(), "other", sampleDiff())
		require.NoError(t, err)
		assert.False(t, ok, "second decline honored")
	})

	t.Run("one answer line per prompt", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("y\nn\n\n"), &out, false)

		ok, err := c.Review(context.Background(), "first", sampleDiff())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.Review(context.Background(), "second", sampleDiff())
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = c.Review(context.Background(), "third", sampleDiff())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("closed input is an error, not an approval", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader(""), &out, false)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("input exhausted mid-batch is an error", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("y\n"), &out, false)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = c.Review(context.Background(), "other", sampleDiff())
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("auto approve skips the prompt", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("n\n"), &out, true)

		ok, err := c.Review(context.Background(), "demo", sampleDiff())
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotContains(t, out.String(), "[Y/n]")
	})

	t.Run("concurrent reviews read one answer each", func(t *testing.T) {
		var out bytes.Buffer
		c := NewConsole(strings.NewReader("n\nn\n"), &out, false)

		results := make(chan bool, 2)
		errs := make(chan error, 2)
		for _, pkg := range []string{"demo", "other"} {
			go func() {
				ok, err := c.Review(context.Background(), pkg, sampleDiff())
				results <- ok
				errs <- err
			}()
		}
		for range 2 {
			require.NoError(t, <-errs)
			assert.False(t, <-results)
		}
	})

	t.Run("cancelled context interrupts the prompt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out bytes.Buffer
		c := NewConsole(strings.NewReader("y\n"), &out, false)

		_, err := c.Review(ctx, "demo", sampleDiff())
		assert.Error(t, err)
	})
}
