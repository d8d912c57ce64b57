package fetch

import (
	"context"
	"os"
	"time"

	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/zerr"
)

// LocalSource reads a recipe from a directory on disk, for packages the
// user maintains outside any catalog.
type LocalSource struct {
	fs afero.Fs
}

// NewLocalSource creates a local override fetcher.
func NewLocalSource(fs afero.Fs) *LocalSource {
	return &LocalSource{fs: fs}
}

// Fetch reads every regular file of the override directory as the
// package's tree. Subdirectories are not descended: recipes are flat.
func (l *LocalSource) Fetch(_ context.Context, pkg domain.Package) (domain.Tree, domain.Metadata, error) {
	dir := pkg.Source.Path
	if dir == "" {
		err := zerr.New("local source has no path")
		return nil, domain.Metadata{}, zerr.With(err, "package", pkg.Name)
	}

	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			notFound := zerr.With(zerr.Wrap(domain.ErrPackageNotFound, ""), "package", pkg.Name)
			return nil, domain.Metadata{}, zerr.With(notFound, "path", dir)
		}
		failed := zerr.Wrap(domain.ErrFetchFailed, err.Error())
		return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
	}

	tree := domain.Tree{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := afero.ReadFile(l.fs, dir+"/"+entry.Name())
		if err != nil {
			failed := zerr.Wrap(domain.ErrFetchFailed, err.Error())
			return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
		}
		tree[entry.Name()] = string(data)
	}

	if len(tree) == 0 {
		failed := zerr.Wrap(domain.ErrFetchFailed, "override directory is empty")
		return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
	}

	return tree, domain.Metadata{
		Version:   recipeVersion(tree),
		FetchedAt: time.Now().UTC(),
	}, nil
}
