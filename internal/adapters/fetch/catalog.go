// Package fetch implements the upstream Fetcher adapters: the remote
// recipe catalog and local override directories, behind one dispatcher.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/zerr"
)

// CatalogClient fetches recipes from the remote catalog over HTTP.
// One GET per package: <base>/<name>.json with the recipe version and
// file bodies. The caller bounds the wait via ctx.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogClient creates a catalog client for the given base URL.
func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
}

// catalogRecipe is the catalog's wire format for one package.
type catalogRecipe struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Files   map[string]string `json:"files"`
}

// Fetch retrieves the package's current recipe from the catalog.
func (c *CatalogClient) Fetch(ctx context.Context, pkg domain.Package) (domain.Tree, domain.Metadata, error) {
	url := c.baseURL + "/" + pkg.Name + ".json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.Metadata{}, zerr.Wrap(err, "failed to build catalog request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		failed := zerr.Wrap(domain.ErrFetchFailed, err.Error())
		return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
	}
	defer resp.Body.Close() //nolint:errcheck // best effort close

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.Metadata{}, zerr.With(zerr.Wrap(domain.ErrPackageNotFound, ""), "package", pkg.Name)
	case resp.StatusCode != http.StatusOK:
		failed := zerr.Wrap(domain.ErrFetchFailed, "unexpected catalog status")
		failed = zerr.With(failed, "package", pkg.Name)
		return nil, domain.Metadata{}, zerr.With(failed, "status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		failed := zerr.Wrap(domain.ErrFetchFailed, err.Error())
		return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
	}

	var recipe catalogRecipe
	if err := json.Unmarshal(body, &recipe); err != nil {
		failed := zerr.Wrap(domain.ErrFetchFailed, "malformed catalog response")
		return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
	}
	if len(recipe.Files) == 0 {
		failed := zerr.Wrap(domain.ErrFetchFailed, "catalog recipe has no files")
		return nil, domain.Metadata{}, zerr.With(failed, "package", pkg.Name)
	}

	version := recipe.Version
	if version == "" {
		version = recipeVersion(recipe.Files)
	}

	return domain.Tree(recipe.Files), domain.Metadata{
		Version:   version,
		FetchedAt: time.Now().UTC(),
	}, nil
}
