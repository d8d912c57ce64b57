package history

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurum/internal/adapters/diff"
	"go.trai.ch/aurum/internal/core/domain"
)

var (
	treeV1 = domain.Tree{"PKGBUILD": "pkgname=demo\npkgver=1\npkgrel=1\n"}
	treeV2 = domain.Tree{"PKGBUILD": "pkgname=demo\npkgver=2\npkgrel=1\n"}
	metaV1 = domain.Metadata{Version: "1-1", FetchedAt: time.Unix(1700000000, 0).UTC()}
	metaV2 = domain.Metadata{Version: "2-1", FetchedAt: time.Unix(1700000100, 0).UTC()}
)

func newStore(fs afero.Fs) *Store {
	return NewStore(fs, "/data", diff.NewEngine())
}

func TestInitHistory(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newStore(fs)

	require.NoError(t, s.InitHistory("demo"))

	chain, err := s.History("demo")
	require.NoError(t, err)
	assert.Empty(t, chain)

	// Initializing again is a no-op, not an error.
	require.NoError(t, s.InitHistory("demo"))
}

func TestCommitSnapshot(t *testing.T) {
	t.Run("builds a parent-linked chain", func(t *testing.T) {
		s := newStore(afero.NewMemMapFs())
		require.NoError(t, s.InitHistory("demo"))

		first, err := s.CommitSnapshot("demo", treeV1, metaV1)
		require.NoError(t, err)
		second, err := s.CommitSnapshot("demo", treeV2, metaV2)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		chain, err := s.History("demo")
		require.NoError(t, err)
		require.Len(t, chain, 2)
		assert.Equal(t, first, chain[0].ID)
		assert.Empty(t, chain[0].Parent)
		assert.Equal(t, second, chain[1].ID)
		assert.Equal(t, first, chain[1].Parent)
		assert.Equal(t, "2-1", chain[1].Version)
	})

	t.Run("committing the head content again is idempotent", func(t *testing.T) {
		s := newStore(afero.NewMemMapFs())
		require.NoError(t, s.InitHistory("demo"))

		first, err := s.CommitSnapshot("demo", treeV1, metaV1)
		require.NoError(t, err)
		again, err := s.CommitSnapshot("demo", treeV1, metaV2)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		chain, err := s.History("demo")
		require.NoError(t, err)
		assert.Len(t, chain, 1)
	})

	t.Run("recommitting older content lengthens the chain", func(t *testing.T) {
		s := newStore(afero.NewMemMapFs())
		require.NoError(t, s.InitHistory("demo"))

		first, err := s.CommitSnapshot("demo", treeV1, metaV1)
		require.NoError(t, err)
		_, err = s.CommitSnapshot("demo", treeV2, metaV2)
		require.NoError(t, err)

		// Upstream reverted; only consecutive duplicates collapse.
		again, err := s.CommitSnapshot("demo", treeV1, metaV1)
		require.NoError(t, err)
		assert.Equal(t, first, again)

		chain, err := s.History("demo")
		require.NoError(t, err)
		assert.Len(t, chain, 3)
	})
}

func TestHead(t *testing.T) {
	s := newStore(afero.NewMemMapFs())
	require.NoError(t, s.InitHistory("demo"))

	head, err := s.Head("demo")
	require.NoError(t, err)
	assert.Nil(t, head)

	id, err := s.CommitSnapshot("demo", treeV1, metaV1)
	require.NoError(t, err)

	head, err = s.Head("demo")
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.Equal(t, id, head.ID)
}

func TestContent(t *testing.T) {
	s := newStore(afero.NewMemMapFs())
	require.NoError(t, s.InitHistory("demo"))

	id, err := s.CommitSnapshot("demo", treeV1, metaV1)
	require.NoError(t, err)

	got, err := s.Content("demo", id)
	require.NoError(t, err)
	assert.Equal(t, treeV1, got)

	_, err = s.Content("demo", "0000000000000000")
	assert.ErrorIs(t, err, domain.ErrUnknownSnapshot)
}

func TestDiff(t *testing.T) {
	s := newStore(afero.NewMemMapFs())
	require.NoError(t, s.InitHistory("demo"))

	first, err := s.CommitSnapshot("demo", treeV1, metaV1)
	require.NoError(t, err)
	second, err := s.CommitSnapshot("demo", treeV2, metaV2)
	require.NoError(t, err)

	t.Run("between snapshots", func(t *testing.T) {
		d, err := s.Diff("demo", first, second)
		require.NoError(t, err)
		require.Len(t, d.Files, 1)
		assert.Equal(t, domain.FileModified, d.Files[0].Op)
	})

	t.Run("empty from means the empty baseline", func(t *testing.T) {
		d, err := s.Diff("demo", "", first)
		require.NoError(t, err)
		require.Len(t, d.Files, 1)
		assert.Equal(t, domain.FileAdded, d.Files[0].Op)
	})

	t.Run("same snapshot is the empty diff", func(t *testing.T) {
		d, err := s.Diff("demo", second, second)
		require.NoError(t, err)
		assert.True(t, d.Empty())
	})

	t.Run("unknown ids are rejected", func(t *testing.T) {
		_, err := s.Diff("demo", "ffffffffffffffff", second)
		assert.ErrorIs(t, err, domain.ErrUnknownSnapshot)
		_, err = s.Diff("demo", first, "ffffffffffffffff")
		assert.ErrorIs(t, err, domain.ErrUnknownSnapshot)
	})
}

func TestList(t *testing.T) {
	s := newStore(afero.NewMemMapFs())

	pkgs, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, pkgs)

	require.NoError(t, s.InitHistory("zsh-git"))
	require.NoError(t, s.InitHistory("aurman"))

	pkgs, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"aurman", "zsh-git"}, pkgs)
}

func TestPersistsAcrossReopen(t *testing.T) {
	fs := afero.NewMemMapFs()

	s := newStore(fs)
	require.NoError(t, s.InitHistory("demo"))
	id, err := s.CommitSnapshot("demo", treeV1, metaV1)
	require.NoError(t, err)

	reopened := newStore(fs)
	chain, err := reopened.History("demo")
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, id, chain[0].ID)

	got, err := reopened.Content("demo", id)
	require.NoError(t, err)
	assert.Equal(t, treeV1, got)
}

func TestCorruptionDetection(t *testing.T) {
	t.Run("unparseable history", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		s := newStore(fs)
		require.NoError(t, afero.WriteFile(fs, "/data/demo/history.json", []byte("{broken"), 0o644))

		_, err := s.History("demo")
		assert.ErrorIs(t, err, domain.ErrRepositoryCorrupt)
	})

	t.Run("broken parent link", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		s := newStore(fs)
		require.NoError(t, s.InitHistory("demo"))
		_, err := s.CommitSnapshot("demo", treeV1, metaV1)
		require.NoError(t, err)
		second, err := s.CommitSnapshot("demo", treeV2, metaV2)
		require.NoError(t, err)

		// Rewrite the chain with a dangling parent reference.
		chain, err := s.History("demo")
		require.NoError(t, err)
		chain[1].Parent = "ffffffffffffffff"
		require.NoError(t, s.writeChain("demo", chain))

		_, err = s.History("demo")
		assert.ErrorIs(t, err, domain.ErrRepositoryCorrupt)
		_, err = s.Content("demo", second)
		assert.ErrorIs(t, err, domain.ErrRepositoryCorrupt)
	})

	t.Run("missing snapshot content", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		s := newStore(fs)
		require.NoError(t, s.InitHistory("demo"))
		id, err := s.CommitSnapshot("demo", treeV1, metaV1)
		require.NoError(t, err)
		require.NoError(t, fs.Remove("/data/demo/snapshots/"+string(id)+".json"))

		_, err = s.Content("demo", id)
		assert.ErrorIs(t, err, domain.ErrRepositoryCorrupt)
	})
}
