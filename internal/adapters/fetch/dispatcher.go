package fetch

import (
	"context"
	"strings"

	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fetcher = (*Dispatcher)(nil)

// Dispatcher routes a fetch to the implementation for the package's
// source kind. The kind set is closed; an unknown kind is a programming
// error surfaced loudly, not skipped.
type Dispatcher struct {
	catalog ports.Fetcher
	local   ports.Fetcher
}

// NewDispatcher creates the source-kind dispatcher.
func NewDispatcher(catalog, local ports.Fetcher) *Dispatcher {
	return &Dispatcher{catalog: catalog, local: local}
}

// Fetch dispatches on pkg.Source.Kind.
func (d *Dispatcher) Fetch(ctx context.Context, pkg domain.Package) (domain.Tree, domain.Metadata, error) {
	switch pkg.Source.Kind {
	case domain.SourceRemoteCatalog:
		return d.catalog.Fetch(ctx, pkg)
	case domain.SourceLocalOverride:
		return d.local.Fetch(ctx, pkg)
	default:
		err := zerr.With(zerr.New("unknown source kind"), "package", pkg.Name)
		return nil, domain.Metadata{}, zerr.With(err, "kind", string(pkg.Source.Kind))
	}
}

// recipeVersion extracts a pkgver-pkgrel version string from a recipe
// tree by scanning its PKGBUILD. Returns "" when no version is found;
// snapshot identity never depends on it.
func recipeVersion(tree domain.Tree) string {
	body, ok := tree["PKGBUILD"]
	if !ok {
		return ""
	}

	var pkgver, pkgrel string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "pkgver="); ok {
			pkgver = strings.Trim(v, "'\"")
		}
		if r, ok := strings.CutPrefix(line, "pkgrel="); ok {
			pkgrel = strings.Trim(r, "'\"")
		}
	}

	switch {
	case pkgver == "":
		return ""
	case pkgrel == "":
		return pkgver
	}
	return pkgver + "-" + pkgrel
}
