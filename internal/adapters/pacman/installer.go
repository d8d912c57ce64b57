// Package pacman runs the external package manager against a staged
// recipe directory.
package pacman

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Installer)(nil)

// Installer implements ports.Installer using os/exec. Each install
// stages the recipe tree into a fresh temporary directory and runs the
// configured command there, streaming its output to the logger.
type Installer struct {
	command []string
	logger  ports.Logger
}

// NewInstaller creates an Installer running the given command.
func NewInstaller(command []string, logger ports.Logger) *Installer {
	return &Installer{command: command, logger: logger}
}

// Install stages content and runs the package manager to completion.
// The command is started with the surrounding context but not killed by
// it once running: interrupting the package manager mid-transaction
// risks an inconsistent host database, so a started install always runs
// to its own end.
func (i *Installer) Install(ctx context.Context, pkg string, content domain.Tree, meta domain.Metadata) error {
	if len(i.command) == 0 {
		return zerr.With(zerr.New("no install command configured"), "package", pkg)
	}
	if err := ctx.Err(); err != nil {
		return zerr.Wrap(err, "install aborted before start")
	}

	dir, err := os.MkdirTemp("", "aurum-"+pkg+"-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create staging directory")
	}
	defer os.RemoveAll(dir) //nolint:errcheck // best effort cleanup

	if err := stage(dir, content); err != nil {
		return zerr.With(err, "package", pkg)
	}

	i.logger.Info("installing " + pkg + " " + meta.Version)

	cmd := exec.Command(i.command[0], i.command[1:]...) //nolint:gosec // user configured command
	cmd.Dir = dir
	cmd.Stdout = &logWriter{logger: i.logger}
	cmd.Stderr = &logWriter{logger: i.logger, errors: true}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		failed := zerr.Wrap(domain.ErrInstallFailed, err.Error())
		failed = zerr.With(failed, "package", pkg)
		return zerr.With(failed, "exit_code", exitCode)
	}

	return nil
}

// stage writes the recipe tree into dir. Paths are flat file names;
// anything escaping the staging directory is rejected.
func stage(dir string, content domain.Tree) error {
	for path, body := range content {
		dst := filepath.Join(dir, path)
		if rel, err := filepath.Rel(dir, dst); err != nil || strings.HasPrefix(rel, "..") {
			return zerr.With(zerr.New("recipe path escapes staging directory"), "path", path)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return zerr.Wrap(err, "failed to stage recipe")
		}
		if err := os.WriteFile(dst, []byte(body), 0o644); err != nil {
			return zerr.Wrap(err, "failed to stage recipe")
		}
	}
	return nil
}

// logWriter forwards command output to the logger line by line.
type logWriter struct {
	logger ports.Logger
	errors bool
}

func (w *logWriter) Write(p []byte) (int, error) {
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	for _, line := range lines {
		if line == "" {
			continue
		}
		if w.errors {
			w.logger.Error(zerr.New(line))
		} else {
			w.logger.Info(line)
		}
	}
	return len(p), nil
}
