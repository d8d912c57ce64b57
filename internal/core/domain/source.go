package domain

// SourceKind is the closed set of upstream source kinds.
type SourceKind string

const (
	// SourceRemoteCatalog fetches the recipe from the community catalog.
	SourceRemoteCatalog SourceKind = "catalog"
	// SourceLocalOverride reads the recipe from a local directory.
	SourceLocalOverride SourceKind = "local"
)

// Source describes where a package's recipe comes from.
type Source struct {
	Kind SourceKind `json:"kind" mapstructure:"kind"`

	// Path is the recipe directory for SourceLocalOverride. Unused for
	// SourceRemoteCatalog, where the package name resolves against the
	// configured catalog URL.
	Path string `json:"path,omitzero" mapstructure:"path"`
}

// Package identifies one tracked package.
type Package struct {
	Name   string
	Source Source
}

// DefaultSource is the source used when configuration does not override
// a package: the remote catalog.
func DefaultSource() Source {
	return Source{Kind: SourceRemoteCatalog}
}
