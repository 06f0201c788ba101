// Package store is the single source of truth for which LLVM versions are
// installed and where each one lives on disk.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/llvm-select/llvm-select/internal/version"
)

// ErrNotInstalled reports an operation against a version that is not present
// in the store.
var ErrNotInstalled = errors.New("library version is not installed")

// Entry is one installed version: its key plus the directory it occupies.
type Entry struct {
	Key version.Key
	Dir string
}

// Store manages the versions root directory. Each installation occupies an
// immediate subdirectory named "VERSION-BUILDTYPE" and must contain the
// llvm-config query executable under bin/ to be considered valid.
type Store struct {
	root string
	exe  string
}

// Option configures a Store.
type Option func(*Store)

// WithExecutableName overrides the query executable name used by the layout
// check. The default is llvm-config, or llvm-config.exe on windows.
func WithExecutableName(name string) Option {
	return func(s *Store) {
		s.exe = name
	}
}

// New returns a Store rooted at dir. The directory does not need to exist
// yet; a missing root simply means nothing is installed.
func New(root string, opts ...Option) *Store {
	s := &Store{root: root, exe: "llvm-config"}
	if runtime.GOOS == "windows" {
		s.exe = "llvm-config.exe"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the versions root directory.
func (s *Store) Root() string {
	return s.root
}

// Path resolves the directory a key would occupy. It does not check
// existence.
func (s *Store) Path(k version.Key) string {
	return filepath.Join(s.root, k.DirName())
}

// QueryExecutable resolves the path of the llvm-config executable belonging
// to a key. It does not check existence.
func (s *Store) QueryExecutable(k version.Key) string {
	return filepath.Join(s.Path(k), "bin", s.exe)
}

// Installed reports whether a key satisfies the layout invariant: its
// directory exists and contains the query executable under bin/.
func (s *Store) Installed(k version.Key) bool {
	info, err := os.Stat(s.Path(k))
	if err != nil || !info.IsDir() {
		return false
	}
	exe, err := os.Stat(s.QueryExecutable(k))
	return err == nil && !exe.IsDir()
}

// List scans the versions root and returns every valid installation in
// lexicographic directory-name order. Entries that do not parse as
// "VERSION-BUILDTYPE" or fail the layout invariant are skipped; a single
// corrupt entry never fails the listing. A missing root yields an empty
// list.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan versions root: %w", err)
	}

	var entries []Entry
	for _, de := range dirents {
		if !de.IsDir() {
			continue
		}
		k, ok := version.ParseDirName(de.Name())
		if !ok || !s.Installed(k) {
			continue
		}
		entries = append(entries, Entry{Key: k, Dir: s.Path(k)})
	}
	return entries, nil
}

// Remove deletes an installation recursively. It fails with ErrNotInstalled
// before touching anything if the key does not satisfy the layout invariant.
// Removing the currently active version is permitted and leaves the active
// link dangling.
func (s *Store) Remove(k version.Key) error {
	if !s.Installed(k) {
		return fmt.Errorf("remove %s: %w", k, ErrNotInstalled)
	}
	if err := os.RemoveAll(s.Path(k)); err != nil {
		return fmt.Errorf("remove %s: %w", k, err)
	}
	return nil
}
