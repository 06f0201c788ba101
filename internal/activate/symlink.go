package activate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/llvm-select/llvm-select/internal/store"
	"github.com/llvm-select/llvm-select/internal/version"
)

// symlinkActivator points a symlink in binDir at the query executable of the
// active version. This is the mechanism on macOS and Linux.
type symlinkActivator struct {
	store  *store.Store
	binDir string
}

func (a *symlinkActivator) linkPath() string {
	return filepath.Join(a.binDir, CommandName)
}

func (a *symlinkActivator) Activate(k version.Key) error {
	if !a.store.Installed(k) {
		return fmt.Errorf("activate %s: %w", k, store.ErrNotInstalled)
	}
	if err := writable(a.binDir); err != nil {
		return fmt.Errorf("activate %s: %w", k, err)
	}

	target := a.store.QueryExecutable(k)
	link := a.linkPath()
	tmp := tempName(link)

	os.Remove(tmp)
	if err := os.Symlink(target, tmp); err != nil {
		return fmt.Errorf("activate %s: %w", k, classify(err))
	}
	if err := replace(tmp, link); err != nil {
		return fmt.Errorf("activate %s: %w", k, err)
	}
	return nil
}

func (a *symlinkActivator) Current() (version.Key, State) {
	link := a.linkPath()
	target, err := os.Readlink(link)
	if err != nil {
		// A foreign non-symlink occupying the path dangles; only a
		// genuinely absent link means nothing is active.
		if _, statErr := os.Lstat(link); statErr == nil {
			return version.Key{}, Dangling
		}
		return version.Key{}, None
	}
	k, ok := keyFromExecutable(target)
	if !ok || !a.store.Installed(k) {
		return k, Dangling
	}
	return k, Active
}
