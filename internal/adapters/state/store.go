// Package state implements the install-record store.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.trai.ch/aurum/internal/core/domain"
	"go.trai.ch/aurum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InstallState = (*Store)(nil)

// Store implements ports.InstallState with a single JSON file mapping
// package name to install record. Updates are written to a temp file
// and renamed over the old one, so a failed write never clobbers the
// previous record.
type Store struct {
	fs   afero.Fs
	path string

	mu    sync.RWMutex
	cache map[string]domain.InstallRecord
}

// NewStore creates an install-state store backed by the file at path.
func NewStore(fs afero.Fs, path string) (*Store, error) {
	s := &Store{
		fs:    fs,
		path:  filepath.Clean(path),
		cache: make(map[string]domain.InstallRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return zerr.Wrap(err, "failed to read install state")
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.Wrap(err, "failed to unmarshal install state")
	}
	return nil
}

// Record atomically overwrites the package's install record.
func (s *Store) Record(pkg string, id domain.SnapshotID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]domain.InstallRecord, len(s.cache)+1)
	for k, v := range s.cache {
		next[k] = v
	}
	next[pkg] = domain.InstallRecord{
		Package:     pkg,
		Snapshot:    id,
		InstalledAt: at,
	}

	if err := s.save(next); err != nil {
		return err
	}
	s.cache = next
	return nil
}

// Installed returns the package's install record, or nil if the package
// was never installed.
func (s *Store) Installed(pkg string) (*domain.InstallRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[pkg]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// save writes the full map to a sibling temp file and renames it into
// place. The rename is the commit point: readers see either the old
// state or the new one, never a torn file.
func (s *Store) save(records map[string]domain.InstallRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal install state")
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create state directory")
	}

	tmp, err := afero.TempFile(s.fs, dir, "installed-*.json")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp state file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return zerr.Wrap(err, "failed to write temp state file")
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return zerr.Wrap(err, "failed to close temp state file")
	}

	if err := s.fs.Rename(tmpName, s.path); err != nil {
		_ = s.fs.Remove(tmpName)
		return zerr.Wrap(err, "failed to replace install state")
	}
	return nil
}
