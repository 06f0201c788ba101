package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/llvm-select/llvm-select/internal/version"
)

// mockFetcher implements Fetcher by synthesizing a source tree on disk.
type mockFetcher struct {
	err     error
	fetched int
}

func (m *mockFetcher) Fetch(ctx context.Context, d version.Details, workDir string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.fetched++
	src := filepath.Join(workDir, "llvm-src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(src, "CMakeLists.txt"), []byte(d.String()), 0o644); err != nil {
		return "", err
	}
	return src, nil
}

// mockCompiler implements Compiler with scriptable behaviour.
type mockCompiler struct {
	// fail makes Compile return an error after creating a partial
	// destination, simulating an interrupted toolchain.
	fail bool
	// lie makes Compile report success without producing the query
	// executable.
	lie bool
	// pin makes Compile fail after leaving content the cleanup cannot
	// remove, a file inside a read-only directory.
	pin bool

	compiled []version.Key
}

func (m *mockCompiler) Compile(ctx context.Context, sourceDir string, buildType version.BuildType, destDir string) error {
	if err := os.MkdirAll(filepath.Join(destDir, "bin"), 0o755); err != nil {
		return err
	}
	if m.fail {
		return errors.New("simulated toolchain failure")
	}
	if m.pin {
		locked := filepath.Join(destDir, "bin", "locked")
		if err := os.MkdirAll(locked, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(locked, "keep"), []byte("x"), 0o644); err != nil {
			return err
		}
		if err := os.Chmod(locked, 0o555); err != nil {
			return err
		}
		return errors.New("simulated toolchain failure")
	}
	if m.lie {
		return nil
	}
	exe := filepath.Join(destDir, "bin", "llvm-config")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\necho built\n"), 0o755); err != nil {
		return err
	}
	key, _ := version.ParseDirName(filepath.Base(destDir))
	m.compiled = append(m.compiled, key)
	return nil
}
