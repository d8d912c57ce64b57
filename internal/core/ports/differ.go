package ports

import "go.trai.ch/aurum/internal/core/domain"

// Differ is the pure diff engine: computing, rendering, parsing and
// applying line-oriented diffs. Implementations hold no state.
//
//go:generate go run go.uber.org/mock/mockgen -source=differ.go -destination=mocks/mock_differ.go -package=mocks
type Differ interface {
	// Compute produces the diff between two trees. Compute(x, x) is
	// always the empty diff, and applying the result to old reproduces
	// new exactly.
	Compute(old, new domain.Tree) domain.Diff

	// Render formats a diff as unified-diff text.
	Render(d domain.Diff) string

	// Parse reads unified-diff text back into file diffs.
	Parse(text string) ([]domain.FileDiff, error)

	// Apply replays file diffs onto a base tree and returns the derived
	// tree. The base is never mutated. A hunk whose old lines match
	// nowhere in the target file fails with domain.ErrPatchConflict.
	Apply(base domain.Tree, files []domain.FileDiff) (domain.Tree, error)
}
