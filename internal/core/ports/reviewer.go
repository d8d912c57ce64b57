package ports

import (
	"context"

	"go.trai.ch/aurum/internal/core/domain"
)

// Reviewer presents a diff for user review.
//
//go:generate go run go.uber.org/mock/mockgen -source=reviewer.go -destination=mocks/mock_reviewer.go -package=mocks
type Reviewer interface {
	// Review shows the diff for the package and reports whether the
	// user approved it.
	Review(ctx context.Context, pkg string, d domain.Diff) (bool, error)
}
