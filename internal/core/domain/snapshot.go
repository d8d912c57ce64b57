// Package domain holds the value types of the recipe tracker.
package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
)

// SnapshotID is the content-derived identifier of a snapshot.
// Two byte-identical trees always map to the same id.
type SnapshotID string

// Tree is the content of one upstream snapshot: recipe file path to file body.
type Tree map[string]string

// ID computes the content identifier of the tree. Paths are hashed in
// sorted order with NUL separators so the digest is deterministic and
// unambiguous across path/content boundaries.
func (t Tree) ID() SnapshotID {
	paths := make([]string, 0, len(t))
	for p := range t {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := xxhash.New()
	for _, p := range paths {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(t[p])
		_, _ = h.Write([]byte{0})
	}
	return SnapshotID(fmt.Sprintf("%016x", h.Sum64()))
}

// Clone returns an independent copy of the tree.
func (t Tree) Clone() Tree {
	c := make(Tree, len(t))
	for p, body := range t {
		c[p] = body
	}
	return c
}

// Metadata describes one fetched snapshot.
type Metadata struct {
	// Version is the upstream version string, pkgver-pkgrel style.
	Version string `json:"version,omitzero"`

	// FetchedAt is when the content was retrieved from upstream.
	FetchedAt time.Time `json:"fetched_at,omitzero"`
}

// Snapshot is one immutable entry in a package's history chain.
// Content is stored separately, addressed by ID.
type Snapshot struct {
	ID        SnapshotID `json:"id"`
	Parent    SnapshotID `json:"parent,omitzero"`
	Version   string     `json:"version,omitzero"`
	FetchedAt time.Time  `json:"fetched_at,omitzero"`
}

// InstallRecord is the durable record of which snapshot is installed on
// the host. One live record per package, overwritten on success.
type InstallRecord struct {
	Package     string     `json:"package"`
	Snapshot    SnapshotID `json:"snapshot"`
	InstalledAt time.Time  `json:"installed_at"`
}
