//go:build windows

package activate

// writable is a no-op on windows; ACL evaluation is left to the write
// itself, whose failure classify maps onto ErrPermission.
func writable(dir string) error {
	return nil
}
