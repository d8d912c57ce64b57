package ports

import (
	"time"

	"go.trai.ch/aurum/internal/core/domain"
)

// InstallState records which snapshot of each package is installed on
// the host.
//
//go:generate go run go.uber.org/mock/mockgen -source=state.go -destination=mocks/mock_state.go -package=mocks
type InstallState interface {
	// Record atomically overwrites the package's install record. The
	// write succeeds fully or not at all; a failure never leaves the
	// previous record absent.
	Record(pkg string, id domain.SnapshotID, at time.Time) error

	// Installed returns the package's install record, or nil if the
	// package was never installed.
	Installed(pkg string) (*domain.InstallRecord, error)
}
