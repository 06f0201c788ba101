// Package activate owns the system-wide redirection artifact that makes one
// installed LLVM version answer to the well-known llvm-config command.
//
// There are two variants of the mechanism: a symlink on unix-like systems
// and a generated .cmd shim on windows. Both replace the artifact with an
// atomic rename so a concurrent invoker of llvm-config sees either the old
// target or the new one, never a missing command.
package activate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/llvm-select/llvm-select/internal/store"
	"github.com/llvm-select/llvm-select/internal/version"
)

// CommandName is the well-known command downstream tools invoke.
const CommandName = "llvm-config"

// ErrPermission reports insufficient privilege to update the redirection
// artifact. The previously active version is left untouched.
var ErrPermission = errors.New("permission denied")

// State describes what the redirection artifact currently points at.
type State int

const (
	// None means no version has been activated yet.
	None State = iota
	// Active means the artifact resolves to a valid installation.
	Active
	// Dangling means the artifact exists but its target no longer
	// satisfies the store layout invariant, typically because the active
	// version was removed. This is reportable state, not an error.
	Dangling
)

// Activator switches the well-known llvm-config command between installed
// versions.
type Activator interface {
	// Activate makes k the target of the redirection artifact. It fails
	// with store.ErrNotInstalled if k is not a valid installation, and
	// with ErrPermission if the artifact location is not writable; in
	// both cases the previous target is left intact.
	Activate(k version.Key) error

	// Current resolves the redirection artifact back to a key. The key
	// is meaningful for Active and Dangling; a Dangling artifact whose
	// target cannot be attributed to any version yields a zero key.
	Current() (version.Key, State)
}

// New selects the platform variant for the running system. The artifact is
// placed in binDir and validated against st.
func New(st *store.Store, binDir string) Activator {
	if runtime.GOOS == "windows" {
		return &shimActivator{store: st, binDir: binDir}
	}
	return &symlinkActivator{store: st, binDir: binDir}
}

// keyFromExecutable recovers the version key from the path of a query
// executable laid out as <root>/<VERSION-BUILDTYPE>/bin/<exe>.
func keyFromExecutable(exe string) (version.Key, bool) {
	return version.ParseDirName(filepath.Base(filepath.Dir(filepath.Dir(exe))))
}

// replace atomically swaps path for the file or link at tmp. On failure tmp
// is cleaned up and the previous artifact remains in place.
func replace(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return classify(err)
	}
	return nil
}

// tempName returns a scratch name next to path. Keeping it in the same
// directory is what makes the final rename atomic.
func tempName(path string) string {
	return fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
}

// classify maps filesystem privilege failures onto ErrPermission so the
// command layer can give them a distinct exit code.
func classify(err error) error {
	if errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%v: %w", err, ErrPermission)
	}
	return err
}
