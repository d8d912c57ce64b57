package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/aurum/cmd/aurum/commands"
	"go.trai.ch/aurum/internal/adapters/diff"
	"go.trai.ch/aurum/internal/adapters/history"
	"go.trai.ch/aurum/internal/adapters/patchstore"
	"go.trai.ch/aurum/internal/adapters/state"
	"go.trai.ch/aurum/internal/adapters/telemetry"
	"go.trai.ch/aurum/internal/app"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports/mocks"
	"go.trai.ch/aurum/internal/engine/workflow"
)

type nullLogger struct{}

func (nullLogger) Info(string) {}
func (nullLogger) Warn(string) {}
func (nullLogger) Error(error) {}

type fixture struct {
	cli       *commands.CLI
	out       bytes.Buffer
	fetcher   *mocks.MockFetcher
	installer *mocks.MockInstaller
	reviewer  *mocks.MockReviewer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	fs := afero.NewMemMapFs()
	engine := diff.NewEngine()

	cfg := &domain.Config{
		BaseDir:      "/data",
		Parallelism:  1,
		FetchTimeout: time.Second,
	}

	st, err := state.NewStore(fs, "/data/installed.json")
	require.NoError(t, err)

	f := &fixture{
		fetcher:   mocks.NewMockFetcher(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		reviewer:  mocks.NewMockReviewer(ctrl),
	}

	repo := history.NewStore(fs, "/data", engine)
	patches := patchstore.NewStore(fs, "/data", engine)
	orch := workflow.New(
		cfg, f.fetcher, repo, patches, st,
		f.installer, f.reviewer, nullLogger{}, telemetry.NewNoOp(),
	)
	a := app.New(cfg, repo, patches, st, engine, orch, nullLogger{})

	f.cli = commands.New(a)
	f.cli.SetOut(&f.out)
	return f
}

var (
	demoTree = domain.Tree{"PKGBUILD": "pkgname=demo\npkgver=1\npkgrel=1\n"}
	demoMeta = domain.Metadata{Version: "1-1", FetchedAt: time.Unix(1700000000, 0).UTC()}
)

func TestInstall(t *testing.T) {
	t.Run("installs the named package", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(demoTree.Clone(), demoMeta, nil)
		f.reviewer.EXPECT().Review(gomock.Any(), "demo", gomock.Any()).Return(true, nil)
		f.installer.EXPECT().Install(gomock.Any(), "demo", demoTree, demoMeta).Return(nil)

		f.cli.SetArgs([]string{"install", "demo"})
		require.NoError(t, f.cli.Execute(context.Background()))
		assert.Contains(t, f.out.String(), "installed  demo 1-1")
	})

	t.Run("requires at least one package", func(t *testing.T) {
		f := newFixture(t)
		f.cli.SetArgs([]string{"install"})
		assert.Error(t, f.cli.Execute(context.Background()))
	})

	t.Run("a failed package fails the command but reports the rest", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(demoTree.Clone(), demoMeta, nil)
		f.reviewer.EXPECT().Review(gomock.Any(), "demo", gomock.Any()).Return(true, nil)
		f.installer.EXPECT().Install(gomock.Any(), "demo", demoTree, demoMeta).Return(nil)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
			Return(nil, domain.Metadata{}, domain.ErrPackageNotFound)

		f.cli.SetArgs([]string{"install", "demo", "missing"})
		err := f.cli.Execute(context.Background())
		assert.ErrorIs(t, err, domain.ErrWorkflowFailed)
		assert.Contains(t, f.out.String(), "installed  demo 1-1")
		assert.Contains(t, f.out.String(), "failed     missing")
	})
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	f.cli.SetArgs([]string{"update"})
	require.NoError(t, f.cli.Execute(context.Background()))
}

func TestStatus(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := newFixture(t)
		f.cli.SetArgs([]string{"status"})
		require.NoError(t, f.cli.Execute(context.Background()))
		assert.Contains(t, f.out.String(), "no tracked packages")
	})

	t.Run("lists tracked packages", func(t *testing.T) {
		f := newFixture(t)
		f.fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(demoTree.Clone(), demoMeta, nil)
		f.reviewer.EXPECT().Review(gomock.Any(), "demo", gomock.Any()).Return(true, nil)
		f.installer.EXPECT().Install(gomock.Any(), "demo", demoTree, demoMeta).Return(nil)

		f.cli.SetArgs([]string{"install", "demo"})
		require.NoError(t, f.cli.Execute(context.Background()))

		f.out.Reset()
		f.cli.SetArgs([]string{"status"})
		require.NoError(t, f.cli.Execute(context.Background()))
		assert.Contains(t, f.out.String(), "demo")
		assert.Contains(t, f.out.String(), "1-1")
	})
}

func TestPatch(t *testing.T) {
	diffText := "--- a/PKGBUILD\n+++ b/PKGBUILD\n@@ -1 +1,2 @@\n pkgver=1\n+options=(!strip)\n"

	t.Run("add, list, rm", func(t *testing.T) {
		f := newFixture(t)
		path := filepath.Join(t.TempDir(), "strip.diff")
		require.NoError(t, os.WriteFile(path, []byte(diffText), 0o644))

		f.cli.SetArgs([]string{"patch", "add", "demo", "-f", path, "-m", "keep debug symbols"})
		require.NoError(t, f.cli.Execute(context.Background()))

		f.out.Reset()
		f.cli.SetArgs([]string{"patch", "list", "demo"})
		require.NoError(t, f.cli.Execute(context.Background()))
		assert.Contains(t, f.out.String(), "0: keep debug symbols")

		f.cli.SetArgs([]string{"patch", "rm", "demo", "0"})
		require.NoError(t, f.cli.Execute(context.Background()))

		f.out.Reset()
		f.cli.SetArgs([]string{"patch", "list", "demo"})
		require.NoError(t, f.cli.Execute(context.Background()))
		assert.Contains(t, f.out.String(), "no patches")
	})

	t.Run("rm rejects a non-numeric index", func(t *testing.T) {
		f := newFixture(t)
		f.cli.SetArgs([]string{"patch", "rm", "demo", "first"})
		assert.Error(t, f.cli.Execute(context.Background()))
	})
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	f.cli.SetArgs([]string{"version"})
	require.NoError(t, f.cli.Execute(context.Background()))
	assert.Contains(t, f.out.String(), "aurum version")
}
