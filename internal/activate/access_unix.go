//go:build !windows

package activate

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// writable checks up front that the artifact directory can be written, so a
// privilege problem surfaces before any state is touched.
func writable(dir string) error {
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, ErrPermission)
	}
	return nil
}
