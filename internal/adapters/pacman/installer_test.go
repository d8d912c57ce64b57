package pacman

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/aurum/internal/core/domain"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	errs  []error
}

func (l *recordingLogger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Warn(string) {}

func (l *recordingLogger) Error(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, err)
}

func TestInstaller_Install(t *testing.T) {
	tree := domain.Tree{
		"PKGBUILD":     "pkgname=demo\npkgver=1\npkgrel=1\n",
		"demo.install": "post_install() { :; }\n",
	}
	meta := domain.Metadata{Version: "1-1"}

	t.Run("runs the command in the staged directory", func(t *testing.T) {
		log := &recordingLogger{}
		// The command sees the staged recipe as its working directory.
		inst := NewInstaller([]string{"sh", "-c", "cat PKGBUILD"}, log)

		err := inst.Install(context.Background(), "demo", tree, meta)
		require.NoError(t, err)
		assert.Contains(t, log.infos, "pkgname=demo")
	})

	t.Run("non-zero exit surfaces with the code attached", func(t *testing.T) {
		log := &recordingLogger{}
		inst := NewInstaller([]string{"sh", "-c", "exit 3"}, log)

		err := inst.Install(context.Background(), "demo", tree, meta)
		assert.ErrorIs(t, err, domain.ErrInstallFailed)
	})

	t.Run("missing command configuration", func(t *testing.T) {
		inst := NewInstaller(nil, &recordingLogger{})
		err := inst.Install(context.Background(), "demo", tree, meta)
		assert.Error(t, err)
	})

	t.Run("cancelled context aborts before the command starts", func(t *testing.T) {
		log := &recordingLogger{}
		inst := NewInstaller([]string{"sh", "-c", "echo ran"}, log)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := inst.Install(ctx, "demo", tree, meta)
		require.Error(t, err)
		assert.NotContains(t, log.infos, "ran")
	})

	t.Run("rejects paths escaping the staging directory", func(t *testing.T) {
		inst := NewInstaller([]string{"sh", "-c", "true"}, &recordingLogger{})
		bad := domain.Tree{"../escape": "x"}
		err := inst.Install(context.Background(), "demo", bad, meta)
		assert.Error(t, err)
	})
}

func TestLogWriter(t *testing.T) {
	log := &recordingLogger{}
	w := &logWriter{logger: log}

	n, err := w.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, []string{"one", "two"}, log.infos)

	ew := &logWriter{logger: log, errors: true}
	_, err = ew.Write([]byte("boom\n"))
	require.NoError(t, err)
	require.Len(t, log.errs, 1)
	assert.EqualError(t, log.errs[0], "boom")
}
