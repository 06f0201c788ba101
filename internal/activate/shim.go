package activate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/llvm-select/llvm-select/internal/store"
	"github.com/llvm-select/llvm-select/internal/version"
)

// shimActivator writes a generated batch file that forwards every argument
// to the query executable of the active version. This is the mechanism on
// windows, where unprivileged symlinks are not generally available.
type shimActivator struct {
	store  *store.Store
	binDir string
}

func (a *shimActivator) shimPath() string {
	return filepath.Join(a.binDir, CommandName+".cmd")
}

// shimContents renders the batch file. cmd.exe passes %* through verbatim,
// so arguments, working directory and exit code behave exactly as if the
// executable had been invoked directly.
func shimContents(exe string) string {
	return "@echo off\n\"" + exe + "\" %*\n"
}

// shimTarget recovers the executable path from a shim previously written by
// shimContents.
func shimTarget(contents string) (string, bool) {
	start := strings.Index(contents, `"`)
	end := strings.LastIndex(contents, `"`)
	if start < 0 || end <= start {
		return "", false
	}
	return contents[start+1 : end], true
}

func (a *shimActivator) Activate(k version.Key) error {
	if !a.store.Installed(k) {
		return fmt.Errorf("activate %s: %w", k, store.ErrNotInstalled)
	}
	if err := writable(a.binDir); err != nil {
		return fmt.Errorf("activate %s: %w", k, err)
	}

	shim := a.shimPath()
	tmp := tempName(shim)

	if err := os.WriteFile(tmp, []byte(shimContents(a.store.QueryExecutable(k))), 0o755); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("activate %s: %w", k, classify(err))
	}
	if err := replace(tmp, shim); err != nil {
		return fmt.Errorf("activate %s: %w", k, err)
	}
	return nil
}

func (a *shimActivator) Current() (version.Key, State) {
	contents, err := os.ReadFile(a.shimPath())
	if err != nil {
		return version.Key{}, None
	}
	exe, ok := shimTarget(string(contents))
	if !ok {
		return version.Key{}, Dangling
	}
	k, ok := keyFromExecutable(exe)
	if !ok || !a.store.Installed(k) {
		return k, Dangling
	}
	return k, Active
}
