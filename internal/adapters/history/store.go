// Package history implements the append-only, content-addressed
// snapshot store behind the Repository port.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Repository = (*Store)(nil)

// Store implements ports.Repository. Each package owns one directory
// under base:
//
//	<base>/<pkg>/history.json       ordered snapshot chain
//	<base>/<pkg>/snapshots/<id>.json  content tree, addressed by id
//
// Access is serialized per package so concurrent workflows cannot
// interleave writes into one chain; distinct packages do not contend.
type Store struct {
	fs     afero.Fs
	base   string
	differ ports.Differ

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a snapshot store rooted at base.
func NewStore(fs afero.Fs, base string, differ ports.Differ) *Store {
	return &Store{
		fs:     fs,
		base:   filepath.Clean(base),
		differ: differ,
		locks:  make(map[string]*sync.Mutex),
	}
}

// pkgLock returns the mutex serializing access to one package's chain.
func (s *Store) pkgLock(pkg string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[pkg]
	if !ok {
		l = &sync.Mutex{}
		s.locks[pkg] = l
	}
	return l
}

func (s *Store) pkgDir(pkg string) string {
	return filepath.Join(s.base, pkg)
}

func (s *Store) historyPath(pkg string) string {
	return filepath.Join(s.pkgDir(pkg), "history.json")
}

func (s *Store) contentPath(pkg string, id domain.SnapshotID) string {
	return filepath.Join(s.pkgDir(pkg), "snapshots", string(id)+".json")
}

// InitHistory creates an empty history for the package. It is a no-op,
// not an error, if one already exists.
func (s *Store) InitHistory(pkg string) error {
	lock := s.pkgLock(pkg)
	lock.Lock()
	defer lock.Unlock()

	exists, err := afero.Exists(s.fs, s.historyPath(pkg))
	if err != nil {
		return zerr.Wrap(err, "failed to probe history")
	}
	if exists {
		return nil
	}
	if err := s.fs.MkdirAll(filepath.Join(s.pkgDir(pkg), "snapshots"), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create package directory")
	}
	return s.writeChain(pkg, []domain.Snapshot{})
}

// CommitSnapshot records the content as the new head. Committing the
// current head's content again returns its id without lengthening the
// history.
func (s *Store) CommitSnapshot(pkg string, content domain.Tree, meta domain.Metadata) (domain.SnapshotID, error) {
	lock := s.pkgLock(pkg)
	lock.Lock()
	defer lock.Unlock()

	chain, err := s.loadChain(pkg)
	if err != nil {
		return "", err
	}

	id := content.ID()
	if len(chain) > 0 && chain[len(chain)-1].ID == id {
		return id, nil
	}

	snap := domain.Snapshot{
		ID:        id,
		Version:   meta.Version,
		FetchedAt: meta.FetchedAt,
	}
	if len(chain) > 0 {
		snap.Parent = chain[len(chain)-1].ID
	}

	if err := s.writeContent(pkg, id, content); err != nil {
		return "", err
	}
	if err := s.writeChain(pkg, append(chain, snap)); err != nil {
		return "", err
	}
	return id, nil
}

// History returns the package's snapshot chain, oldest first.
func (s *Store) History(pkg string) ([]domain.Snapshot, error) {
	lock := s.pkgLock(pkg)
	lock.Lock()
	defer lock.Unlock()
	return s.loadChain(pkg)
}

// Head returns the most recent snapshot, or nil for an empty history.
func (s *Store) Head(pkg string) (*domain.Snapshot, error) {
	chain, err := s.History(pkg)
	if err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, nil
	}
	head := chain[len(chain)-1]
	return &head, nil
}

// Content loads the tree of one snapshot.
func (s *Store) Content(pkg string, id domain.SnapshotID) (domain.Tree, error) {
	lock := s.pkgLock(pkg)
	lock.Lock()
	defer lock.Unlock()

	chain, err := s.loadChain(pkg)
	if err != nil {
		return nil, err
	}
	if !chainContains(chain, id) {
		return nil, unknownSnapshot(pkg, id)
	}
	return s.readContent(pkg, id)
}

// Diff computes the diff between two snapshots of the package. An empty
// from means the empty baseline used for first installs.
func (s *Store) Diff(pkg string, from, to domain.SnapshotID) (domain.Diff, error) {
	lock := s.pkgLock(pkg)
	lock.Lock()
	defer lock.Unlock()

	chain, err := s.loadChain(pkg)
	if err != nil {
		return domain.Diff{}, err
	}

	fromTree := domain.Tree{}
	if from != "" {
		if !chainContains(chain, from) {
			return domain.Diff{}, unknownSnapshot(pkg, from)
		}
		if fromTree, err = s.readContent(pkg, from); err != nil {
			return domain.Diff{}, err
		}
	}

	if !chainContains(chain, to) {
		return domain.Diff{}, unknownSnapshot(pkg, to)
	}
	toTree, err := s.readContent(pkg, to)
	if err != nil {
		return domain.Diff{}, err
	}

	return s.differ.Compute(fromTree, toTree), nil
}

// List enumerates all tracked packages, sorted by name.
func (s *Store) List() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read base directory")
	}

	var pkgs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tracked, err := afero.Exists(s.fs, s.historyPath(entry.Name()))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to probe history")
		}
		if tracked {
			pkgs = append(pkgs, entry.Name())
		}
	}
	sort.Strings(pkgs)
	return pkgs, nil
}

// loadChain reads and verifies the package's history chain. A chain
// whose parent links do not form a single line is reported as
// corruption, never repaired.
func (s *Store) loadChain(pkg string) ([]domain.Snapshot, error) {
	data, err := afero.ReadFile(s.fs, s.historyPath(pkg))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, "failed to read history")
	}
	if len(data) == 0 {
		return nil, nil
	}

	var chain []domain.Snapshot
	if err := json.Unmarshal(data, &chain); err != nil {
		corrupt := zerr.Wrap(domain.ErrRepositoryCorrupt, err.Error())
		return nil, zerr.With(corrupt, "package", pkg)
	}

	for i, snap := range chain {
		var wantParent domain.SnapshotID
		if i > 0 {
			wantParent = chain[i-1].ID
		}
		if snap.Parent != wantParent {
			corrupt := zerr.Wrap(domain.ErrRepositoryCorrupt, "broken parent link")
			corrupt = zerr.With(corrupt, "package", pkg)
			corrupt = zerr.With(corrupt, "snapshot", string(snap.ID))
			return nil, corrupt
		}
	}
	return chain, nil
}

func (s *Store) writeChain(pkg string, chain []domain.Snapshot) error {
	data, err := json.MarshalIndent(chain, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal history")
	}
	if err := s.fs.MkdirAll(s.pkgDir(pkg), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create package directory")
	}
	if err := afero.WriteFile(s.fs, s.historyPath(pkg), data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write history")
	}
	return nil
}

// writeContent stores a snapshot's tree. Content files are immutable:
// an existing file for the same id is already byte-equivalent.
func (s *Store) writeContent(pkg string, id domain.SnapshotID, content domain.Tree) error {
	path := s.contentPath(pkg, id)
	exists, err := afero.Exists(s.fs, path)
	if err != nil {
		return zerr.Wrap(err, "failed to probe snapshot content")
	}
	if exists {
		return nil
	}

	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal snapshot content")
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.Wrap(err, "failed to create snapshots directory")
	}
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return zerr.Wrap(err, "failed to write snapshot content")
	}
	return nil
}

func (s *Store) readContent(pkg string, id domain.SnapshotID) (domain.Tree, error) {
	data, err := afero.ReadFile(s.fs, s.contentPath(pkg, id))
	if err != nil {
		if os.IsNotExist(err) {
			corrupt := zerr.Wrap(domain.ErrRepositoryCorrupt, "snapshot content missing")
			corrupt = zerr.With(corrupt, "package", pkg)
			return nil, zerr.With(corrupt, "snapshot", string(id))
		}
		return nil, zerr.Wrap(err, "failed to read snapshot content")
	}

	var tree domain.Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		corrupt := zerr.Wrap(domain.ErrRepositoryCorrupt, err.Error())
		return nil, zerr.With(corrupt, "package", pkg)
	}
	return tree, nil
}

func chainContains(chain []domain.Snapshot, id domain.SnapshotID) bool {
	for _, snap := range chain {
		if snap.ID == id {
			return true
		}
	}
	return false
}

func unknownSnapshot(pkg string, id domain.SnapshotID) error {
	err := zerr.With(zerr.Wrap(domain.ErrUnknownSnapshot, ""), "package", pkg)
	return zerr.With(err, "snapshot", string(id))
}
