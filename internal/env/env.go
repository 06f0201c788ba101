// Package env resolves the well-known filesystem locations llvm-select
// works with.
package env

import (
	"os"
	"path/filepath"
	"runtime"
)

// VersionsRoot returns the directory holding one subdirectory per installed
// version. LLVM_SELECT_ROOT overrides the platform default: /usr/local/llvm
// on unix-like systems, a "versions" directory next to the executable on
// windows.
func VersionsRoot() (string, error) {
	if root := os.Getenv("LLVM_SELECT_ROOT"); root != "" {
		return root, nil
	}
	if runtime.GOOS == "windows" {
		base, err := executableBase()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, "versions"), nil
	}
	return "/usr/local/llvm", nil
}

// BinDir returns the directory holding the llvm-config redirection
// artifact, outside the versions root. LLVM_SELECT_BIN overrides the
// platform default.
func BinDir() (string, error) {
	if dir := os.Getenv("LLVM_SELECT_BIN"); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "windows" {
		base, err := executableBase()
		if err != nil {
			return "", err
		}
		return filepath.Join(base, "bin"), nil
	}
	return "/usr/local/bin", nil
}

// ConfigPath returns the optional configuration file location.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "llvm-select", "config.yaml"), nil
}

// ScratchDir returns the directory build scratch space is created under,
// creating it if needed.
func ScratchDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(cache, "llvm-select")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// executableBase returns the parent of the directory the running executable
// lives in, which is the install base on windows.
func executableBase() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}
