package persist

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"mlist-manager/core/address"

	"github.com/spf13/afero"
)

var (
	// ErrMissingFile is returned when a strict load target does not exist.
	ErrMissingFile = errors.New("required file does not exist")
	// ErrDestinationExists is returned when a protected write target already exists.
	ErrDestinationExists = errors.New("destination already exists")
)

// Store reads and writes address files on a filesystem.
type Store struct {
	fs afero.Fs
}

// New creates a store on top of the given filesystem.
func New(fsys afero.Fs) *Store {
	return &Store{fs: fsys}
}

// NewOS creates a store on the host filesystem.
func NewOS() *Store {
	return New(afero.NewOsFs())
}

// Fs returns the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Load extracts the address set stored at path.
// When strict is false a missing file yields an empty set; when strict is true
// it fails with ErrMissingFile.
func (s *Store) Load(path string, strict bool) (address.Set, error) {
	if path == "" {
		if strict {
			return nil, fmt.Errorf("failed to load addresses: no path given: %w", ErrMissingFile)
		}
		return address.NewSet(), nil
	}

	f, err := s.fs.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !strict {
				return address.NewSet(), nil
			}
			return nil, fmt.Errorf("failed to load %s: %w", path, ErrMissingFile)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	set, err := address.Extract(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return set, nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// Write stores set at path, one address per line in sorted order.
// With overwrite false an existing file is left alone and ErrDestinationExists is returned.
func (s *Store) Write(set address.Set, path string, overwrite bool) error {
	txn := s.Begin()
	defer txn.Rollback()

	if err := txn.Stage(path, set, overwrite); err != nil {
		return err
	}
	return txn.Commit()
}

// SamePath reports whether a and b name the same file once cleaned and made absolute.
// Symlinks are not resolved.
func SamePath(a, b string) bool {
	return canonicalPath(a) == canonicalPath(b)
}

func canonicalPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Begin starts a new write transaction.
func (s *Store) Begin() *Txn {
	return &Txn{store: s}
}

// render writes set to a new file at path. The file must not exist yet.
func (s *Store) render(set address.Set, path string) error {
	f, err := s.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, a := range set.Sorted() {
		if _, err := w.WriteString(a + "\n"); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
