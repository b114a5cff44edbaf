package persist

import (
	"errors"
	"fmt"
	"path/filepath"

	"mlist-manager/core/address"

	"github.com/google/uuid"
)

var (
	// ErrTxnDone is returned when a committed or rolled back transaction is reused.
	ErrTxnDone = errors.New("transaction already finished")
	// ErrDuplicateTarget is returned when two staged paths name the same file.
	ErrDuplicateTarget = errors.New("file staged twice")
)

type staged struct {
	path      string
	temp      string
	overwrite bool
}

type backup struct {
	path string
	temp string
}

// Txn stages a group of writes and publishes them together.
// A Txn is not safe for concurrent use.
type Txn struct {
	store  *Store
	staged []staged
	done   bool
}

// Stage renders set into a temporary file next to path.
// Nothing is visible at path until Commit. Every path may be staged once;
// different spellings of one file count as the same path.
func (t *Txn) Stage(path string, set address.Set, overwrite bool) error {
	if t.done {
		return ErrTxnDone
	}
	if path == "" {
		return errors.New("cannot stage addresses: no path given")
	}
	for _, st := range t.staged {
		if SamePath(st.path, path) {
			return fmt.Errorf("cannot stage %s over %s: %w", path, st.path, ErrDuplicateTarget)
		}
	}

	if !overwrite {
		exists, err := t.store.Exists(path)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
		if exists {
			return fmt.Errorf("cannot write %s: %w", path, ErrDestinationExists)
		}
	}

	temp := siblingPath(path, "tmp")
	if err := t.store.render(set, temp); err != nil {
		_ = t.store.fs.Remove(temp)
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}

	t.staged = append(t.staged, staged{path: path, temp: temp, overwrite: overwrite})
	return nil
}

// Paths returns the staged target paths in staging order.
func (t *Txn) Paths() []string {
	paths := make([]string, 0, len(t.staged))
	for _, st := range t.staged {
		paths = append(paths, st.path)
	}
	return paths
}

// Commit publishes every staged file. If any target cannot be replaced, every
// target already handled is restored and the error is returned.
func (t *Txn) Commit() error {
	if t.done {
		return ErrTxnDone
	}
	t.done = true
	defer t.cleanup()

	fsys := t.store.fs

	// Protected targets are checked again: they may have appeared since Stage.
	for _, st := range t.staged {
		if st.overwrite {
			continue
		}
		exists, err := t.store.Exists(st.path)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", st.path, err)
		}
		if exists {
			return fmt.Errorf("cannot write %s: %w", st.path, ErrDestinationExists)
		}
	}

	var backups []backup
	for _, st := range t.staged {
		exists, err := t.store.Exists(st.path)
		if err != nil {
			t.restore(nil, backups)
			return fmt.Errorf("failed to check %s: %w", st.path, err)
		}
		if !exists {
			continue
		}
		b := backup{path: st.path, temp: siblingPath(st.path, "bak")}
		if err := fsys.Rename(st.path, b.temp); err != nil {
			t.restore(nil, backups)
			return fmt.Errorf("failed to move %s aside: %w", st.path, err)
		}
		backups = append(backups, b)
	}

	var placed []string
	for _, st := range t.staged {
		if err := fsys.Rename(st.temp, st.path); err != nil {
			t.restore(placed, backups)
			return fmt.Errorf("failed to write %s: %w", st.path, err)
		}
		placed = append(placed, st.path)
	}

	for _, b := range backups {
		_ = fsys.Remove(b.temp)
	}
	return nil
}

// Rollback discards every staged file. It is a no-op after Commit.
func (t *Txn) Rollback() {
	if t.done {
		return
	}
	t.done = true
	t.cleanup()
}

// restore removes placed targets and moves backups back in reverse order.
func (t *Txn) restore(placed []string, backups []backup) {
	fsys := t.store.fs
	for i := len(placed) - 1; i >= 0; i-- {
		_ = fsys.Remove(placed[i])
	}
	for i := len(backups) - 1; i >= 0; i-- {
		_ = fsys.Rename(backups[i].temp, backups[i].path)
	}
}

func (t *Txn) cleanup() {
	for _, st := range t.staged {
		_ = t.store.fs.Remove(st.temp)
	}
}

// siblingPath returns a hidden unique path in the directory of path.
func siblingPath(path, kind string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s-%s", base, kind, uuid.NewString()))
}
