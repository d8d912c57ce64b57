package domain

import "time"

// Config is the explicit runtime configuration passed into the app and
// engine. Nothing below the config adapter reads ambient state.
type Config struct {
	// BaseDir is the root of the per-package histories, patches and the
	// install-record store.
	BaseDir string

	// Parallelism bounds how many package workflows run concurrently.
	Parallelism int

	// FetchTimeout bounds the Fetcher call. Install has no internal
	// timeout: interrupting the external installer mid-run risks an
	// inconsistent host package database.
	FetchTimeout time.Duration

	// CatalogURL is the base URL of the remote recipe catalog.
	CatalogURL string

	// InstallCommand is the external package-manager invocation run in
	// the staged recipe directory.
	InstallCommand []string

	// AutoApprove skips the interactive review prompt.
	AutoApprove bool

	// Sources overrides the upstream source per package name.
	Sources map[string]Source
}

// SourceFor resolves the source for a package name, falling back to the
// remote catalog.
func (c *Config) SourceFor(name string) Source {
	if s, ok := c.Sources[name]; ok {
		return s
	}
	return DefaultSource()
}
