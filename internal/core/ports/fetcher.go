package ports

import (
	"context"

	"go.trai.ch/aurum/internal/core/domain"
)

// Fetcher retrieves the current upstream content of a package.
//
//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type Fetcher interface {
	// Fetch returns the package's upstream tree and metadata. It fails
	// with domain.ErrPackageNotFound when the source does not know the
	// package and domain.ErrFetchFailed on transient errors. The caller
	// bounds the wait via ctx.
	Fetch(ctx context.Context, pkg domain.Package) (domain.Tree, domain.Metadata, error)
}
