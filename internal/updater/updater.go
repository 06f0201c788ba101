// Package updater keeps the llvm-select binary itself current via GitHub
// releases.
package updater

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/creativeprojects/go-selfupdate"
)

// repoSlug is the repository llvm-select releases are published from.
const repoSlug = "llvm-select/llvm-select"

// Updater checks for and applies releases of the tool itself.
type Updater struct {
	current string
	su      *selfupdate.Updater
}

// New returns an Updater for the running binary at the given version.
// Release assets are verified against the published SHA256SUMS file.
func New(current string) (*Updater, error) {
	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{UniqueFilename: "SHA256SUMS.txt"},
	})
	if err != nil {
		return nil, fmt.Errorf("create updater: %w", err)
	}
	return &Updater{current: strings.TrimPrefix(current, "v"), su: su}, nil
}

// Check queries the release feed. It returns nil when the running binary is
// already the latest release.
func (u *Updater) Check(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.su.DetectLatest(ctx, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return nil, fmt.Errorf("check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found for %s", repoSlug)
	}
	if latest.LessOrEqual(u.current) {
		return nil, nil
	}
	return latest, nil
}

// Apply replaces the running binary with the release, rolling back from a
// backup if the replacement fails.
func (u *Updater) Apply(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	backup := exe + ".backup"
	data, err := os.ReadFile(exe)
	if err != nil {
		return fmt.Errorf("back up executable: %w", err)
	}
	if err := os.WriteFile(backup, data, 0o755); err != nil {
		return fmt.Errorf("back up executable: %w", err)
	}
	defer os.Remove(backup)

	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		if rbErr := os.Rename(backup, exe); rbErr != nil {
			return fmt.Errorf("update failed and rollback failed: %v (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}
	return nil
}
