package ports

import "go.trai.ch/aurum/internal/core/domain"

// Patches stores user-authored patches per package and reapplies them
// onto freshly fetched snapshots.
//
//go:generate go run go.uber.org/mock/mockgen -source=patches.go -destination=mocks/mock_patches.go -package=mocks
type Patches interface {
	// Add appends a patch. Applicability is not validated at add time.
	Add(pkg string, p domain.Patch) error

	// List returns the package's patches in addition order.
	List(pkg string) ([]domain.Patch, error)

	// Remove deletes the patch at the given position in addition order.
	// Returns domain.ErrPatchNotFound for an out-of-range index.
	Remove(pkg string, index int) error

	// Apply replays the stored patches onto the target tree in addition
	// order and returns the fully patched tree. On the first patch that
	// does not apply cleanly it fails with domain.ErrPatchConflict
	// naming the patch and region; no partial result is returned and no
	// persisted state is mutated.
	Apply(pkg string, target domain.Tree) (domain.Tree, error)
}
