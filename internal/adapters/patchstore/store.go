// Package patchstore persists user-authored patches per package and
// reapplies them onto freshly fetched snapshots.
package patchstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.Patches = (*Store)(nil)

// patchDoc is the on-disk form of one patch: a YAML document with the
// diff kept as unified text so users can edit it by hand to resolve
// conflicts.
type patchDoc struct {
	Description     string `yaml:"description"`
	AuthoredAgainst string `yaml:"authored_against"`
	Diff            string `yaml:"diff"`
}

// Store implements ports.Patches. Patches live as numbered YAML files
// under <base>/<pkg>/patches/, ordered by filename.
type Store struct {
	fs     afero.Fs
	base   string
	differ ports.Differ

	mu sync.Mutex
}

// NewStore creates a patch store rooted at base.
func NewStore(fs afero.Fs, base string, differ ports.Differ) *Store {
	return &Store{fs: fs, base: filepath.Clean(base), differ: differ}
}

func (s *Store) dir(pkg string) string {
	return filepath.Join(s.base, pkg, "patches")
}

// Add appends a patch behind the existing ones. Applicability against
// any particular snapshot is not validated here.
func (s *Store) Add(pkg string, p domain.Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.patchFiles(pkg)
	if err != nil {
		return err
	}

	next := 1
	if len(names) > 0 {
		// Number after the highest existing patch so removal gaps never
		// cause a collision.
		prefix, _, _ := strings.Cut(names[len(names)-1], "-")
		if n, err := strconv.Atoi(prefix); err == nil {
			next = n + 1
		}
	}

	doc := patchDoc{
		Description:     p.Description,
		AuthoredAgainst: string(p.AuthoredAgainst),
		Diff:            s.differ.Render(domain.Diff{Files: p.Files}),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal patch")
	}

	if err := s.fs.MkdirAll(s.dir(pkg), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create patches directory")
	}
	name := fmt.Sprintf("%04d-%s.yaml", next, slug(p.Description))
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir(pkg), name), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write patch")
	}
	return nil
}

// List returns the package's patches in addition order.
func (s *Store) List(pkg string) ([]domain.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(pkg)
}

// Remove deletes the patch at the given position in addition order.
func (s *Store) Remove(pkg string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.patchFiles(pkg)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(names) {
		err := zerr.With(zerr.Wrap(domain.ErrPatchNotFound, ""), "package", pkg)
		return zerr.With(err, "index", index)
	}
	if err := s.fs.Remove(filepath.Join(s.dir(pkg), names[index])); err != nil {
		return zerr.Wrap(err, "failed to remove patch")
	}
	return nil
}

// Apply replays the stored patches onto the target tree in addition
// order. The first patch that fails aborts the whole application: the
// caller gets either a fully patched tree or a conflict, and no
// persisted state changes either way.
func (s *Store) Apply(pkg string, target domain.Tree) (domain.Tree, error) {
	patches, err := s.List(pkg)
	if err != nil {
		return nil, err
	}

	result := target.Clone()
	for _, p := range patches {
		result, err = s.differ.Apply(result, p.Files)
		if err != nil {
			err = zerr.With(err, "patch", p.Description)
			return nil, zerr.With(err, "package", pkg)
		}
	}
	return result, nil
}

func (s *Store) load(pkg string) ([]domain.Patch, error) {
	names, err := s.patchFiles(pkg)
	if err != nil {
		return nil, err
	}

	patches := make([]domain.Patch, 0, len(names))
	for _, name := range names {
		data, err := afero.ReadFile(s.fs, filepath.Join(s.dir(pkg), name))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to read patch")
		}

		var doc patchDoc
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse patch"), "patch_file", name)
		}
		files, err := s.differ.Parse(doc.Diff)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse patch diff"), "patch_file", name)
		}

		patches = append(patches, domain.Patch{
			Description:     doc.Description,
			AuthoredAgainst: domain.SnapshotID(doc.AuthoredAgainst),
			Files:           files,
		})
	}
	return patches, nil
}

// patchFiles lists the patch file names in addition order.
func (s *Store) patchFiles(pkg string) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir(pkg))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read patches directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// slug turns a description into a safe filename fragment.
func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "patch"
	}
	return b.String()
}
