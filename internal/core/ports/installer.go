package ports

import (
	"context"

	"go.trai.ch/aurum/internal/core/domain"
)

// Installer delegates building and installing a recipe to the external
// package manager. Implementations are not safely reentrant; the
// orchestrator serializes calls system-wide.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install stages the (already patched) content and runs the external
	// package manager to completion. A non-zero result surfaces as
	// domain.ErrInstallFailed with the exit code attached.
	Install(ctx context.Context, pkg string, content domain.Tree, meta domain.Metadata) error
}
