// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/aurum/internal/core/domain"

// Repository owns one append-only snapshot history per package.
//
//go:generate go run go.uber.org/mock/mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
type Repository interface {
	// InitHistory creates an empty history for the package. It is a
	// no-op, not an error, if one already exists.
	InitHistory(pkg string) error

	// CommitSnapshot records the content as the new head. The commit is
	// idempotent: if the content hashes to the current head's id, the
	// head is returned unchanged and the history is not lengthened.
	CommitSnapshot(pkg string, content domain.Tree, meta domain.Metadata) (domain.SnapshotID, error)

	// History returns the package's snapshot chain, oldest first.
	History(pkg string) ([]domain.Snapshot, error)

	// Head returns the most recent snapshot, or nil for an empty history.
	Head(pkg string) (*domain.Snapshot, error)

	// Content loads the tree of one snapshot. Returns
	// domain.ErrUnknownSnapshot if the id is absent from the history.
	Content(pkg string, id domain.SnapshotID) (domain.Tree, error)

	// Diff computes the diff between two snapshots in the package's
	// history. An empty from means the empty baseline (first install).
	// Returns domain.ErrUnknownSnapshot if either id is absent.
	Diff(pkg string, from, to domain.SnapshotID) (domain.Diff, error)

	// List enumerates all tracked packages, sorted by name.
	List() ([]string, error)
}
