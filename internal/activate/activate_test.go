package activate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/llvm-select/llvm-select/internal/store"
	"github.com/llvm-select/llvm-select/internal/version"
)

func installVersion(t *testing.T, s *store.Store, k version.Key) {
	t.Helper()
	exe := s.QueryExecutable(k)
	if err := os.MkdirAll(filepath.Dir(exe), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(exe, []byte("#!/bin/sh\necho "+k.Version+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func newTestSetup(t *testing.T) (*store.Store, string) {
	t.Helper()
	s := store.New(filepath.Join(t.TempDir(), "llvm"))
	binDir := t.TempDir()
	return s, binDir
}

// activators returns both variants so the shared contract is exercised for
// each mechanism regardless of the host platform.
func activators(s *store.Store, binDir string) map[string]Activator {
	return map[string]Activator{
		"symlink": &symlinkActivator{store: s, binDir: binDir},
		"shim":    &shimActivator{store: s, binDir: binDir},
	}
}

func TestActivateNotInstalled(t *testing.T) {
	s, binDir := newTestSetup(t)
	for name, a := range activators(s, binDir) {
		err := a.Activate(version.Key{Version: "9.0.0", Type: version.Release})
		if !errors.Is(err, store.ErrNotInstalled) {
			t.Errorf("%s: Activate of missing version returned %v, want ErrNotInstalled", name, err)
		}
		if _, state := a.Current(); state != None {
			t.Errorf("%s: failed Activate left state %v, want None", name, state)
		}
	}
}

func TestActivateAndCurrent(t *testing.T) {
	s, binDir := newTestSetup(t)
	k := version.Key{Version: "9.0.0", Type: version.Release}
	installVersion(t, s, k)

	for name, a := range activators(s, binDir) {
		if err := a.Activate(k); err != nil {
			t.Fatalf("%s: Activate returned error: %v", name, err)
		}
		got, state := a.Current()
		if state != Active {
			t.Fatalf("%s: Current state = %v, want Active", name, state)
		}
		if got != k {
			t.Errorf("%s: Current = %v, want %v", name, got, k)
		}
	}
}

func TestActivateSwitches(t *testing.T) {
	s, binDir := newTestSetup(t)
	k1 := version.Key{Version: "9.0.0", Type: version.Release}
	k2 := version.Key{Version: "10.0.1", Type: version.Debug}
	installVersion(t, s, k1)
	installVersion(t, s, k2)

	for name, a := range activators(s, binDir) {
		if err := a.Activate(k1); err != nil {
			t.Fatalf("%s: Activate(k1): %v", name, err)
		}
		if err := a.Activate(k2); err != nil {
			t.Fatalf("%s: Activate(k2): %v", name, err)
		}
		got, state := a.Current()
		if state != Active || got != k2 {
			t.Errorf("%s: Current = %v/%v, want %v/Active", name, got, state, k2)
		}
	}

	// No stray temp artifacts remain next to the real one.
	entries, err := os.ReadDir(binDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("leftover temp artifact %s", e.Name())
		}
	}
}

// artifactPaths maps each variant name from activators to the path of the
// artifact it manages in binDir.
func artifactPaths(binDir string) map[string]string {
	return map[string]string{
		"symlink": filepath.Join(binDir, CommandName),
		"shim":    filepath.Join(binDir, CommandName+".cmd"),
	}
}

func TestActivateVisibleThroughoutSwitch(t *testing.T) {
	s, binDir := newTestSetup(t)
	k1 := version.Key{Version: "9.0.0", Type: version.Release}
	k2 := version.Key{Version: "10.0.1", Type: version.Debug}
	installVersion(t, s, k1)
	installVersion(t, s, k2)

	paths := artifactPaths(binDir)
	for name, a := range activators(s, binDir) {
		artifact := paths[name]
		if err := a.Activate(k1); err != nil {
			t.Fatalf("%s: Activate(k1): %v", name, err)
		}

		stop := make(chan struct{})
		var missing atomic.Int64
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if _, err := os.Lstat(artifact); err != nil {
					missing.Add(1)
				}
			}
		}()

		for i := 0; i < 500; i++ {
			k := k1
			if i%2 == 1 {
				k = k2
			}
			if err := a.Activate(k); err != nil {
				close(stop)
				wg.Wait()
				t.Fatalf("%s: Activate during switching: %v", name, err)
			}
		}
		close(stop)
		wg.Wait()

		// The command path must exist in every sample taken while the
		// active version was flipping.
		if n := missing.Load(); n != 0 {
			t.Errorf("%s: command path absent in %d concurrent samples", name, n)
		}
	}
}

func TestCurrentForeignArtifact(t *testing.T) {
	s, binDir := newTestSetup(t)
	paths := artifactPaths(binDir)
	for name, a := range activators(s, binDir) {
		if err := os.WriteFile(paths[name], []byte("not written by us"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, state := a.Current()
		if state != Dangling {
			t.Errorf("%s: Current with foreign artifact = %v, want Dangling", name, state)
		}
		if got != (version.Key{}) {
			t.Errorf("%s: foreign artifact yielded key %v, want zero", name, got)
		}
		if err := os.Remove(paths[name]); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCurrentDanglingAfterRemove(t *testing.T) {
	s, binDir := newTestSetup(t)
	k := version.Key{Version: "9.0.0", Type: version.Release}
	installVersion(t, s, k)

	for name, a := range activators(s, binDir) {
		installVersion(t, s, k)
		if err := a.Activate(k); err != nil {
			t.Fatalf("%s: Activate: %v", name, err)
		}
		if err := s.Remove(k); err != nil {
			t.Fatalf("%s: Remove: %v", name, err)
		}
		got, state := a.Current()
		if state != Dangling {
			t.Errorf("%s: Current after remove = %v, want Dangling", name, state)
		}
		if got != k {
			t.Errorf("%s: dangling key = %v, want %v", name, got, k)
		}
	}
}

func TestSymlinkTargetsQueryExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink variant is not used on windows")
	}
	s, binDir := newTestSetup(t)
	k := version.Key{Version: "9.0.0", Type: version.Release}
	installVersion(t, s, k)

	a := &symlinkActivator{store: s, binDir: binDir}
	if err := a.Activate(k); err != nil {
		t.Fatal(err)
	}

	target, err := os.Readlink(filepath.Join(binDir, CommandName))
	if err != nil {
		t.Fatalf("well-known command is not a symlink: %v", err)
	}
	if target != s.QueryExecutable(k) {
		t.Errorf("symlink target = %q, want %q", target, s.QueryExecutable(k))
	}
}

func TestShimContentsRoundTrip(t *testing.T) {
	exe := filepath.Join("C:\\llvm", "versions", "9.0.0-Release", "bin", "llvm-config.exe")
	contents := shimContents(exe)
	if contents[:9] != "@echo off" {
		t.Errorf("shim does not start with @echo off: %q", contents)
	}
	got, ok := shimTarget(contents)
	if !ok || got != exe {
		t.Errorf("shimTarget = %q/%v, want %q", got, ok, exe)
	}
	if _, ok := shimTarget("@echo off"); ok {
		t.Error("shimTarget succeeded on a shim without a target")
	}
}

func TestActivatePermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("directory modes are not enforced on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission checks are bypassed")
	}

	s, binDir := newTestSetup(t)
	k1 := version.Key{Version: "9.0.0", Type: version.Release}
	k2 := version.Key{Version: "10.0.1", Type: version.Release}
	installVersion(t, s, k1)
	installVersion(t, s, k2)

	a := &symlinkActivator{store: s, binDir: binDir}
	if err := a.Activate(k1); err != nil {
		t.Fatal(err)
	}

	if err := os.Chmod(binDir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(binDir, 0o755) })

	err := a.Activate(k2)
	if !errors.Is(err, ErrPermission) {
		t.Fatalf("Activate into read-only dir returned %v, want ErrPermission", err)
	}

	// The prior active target is untouched.
	got, state := a.Current()
	if state != Active || got != k1 {
		t.Errorf("Current after denied Activate = %v/%v, want %v/Active", got, state, k1)
	}
}

func TestNewSelectsPlatformVariant(t *testing.T) {
	s, binDir := newTestSetup(t)
	a := New(s, binDir)
	if runtime.GOOS == "windows" {
		if _, ok := a.(*shimActivator); !ok {
			t.Errorf("New returned %T, want shim variant", a)
		}
	} else {
		if _, ok := a.(*symlinkActivator); !ok {
			t.Errorf("New returned %T, want symlink variant", a)
		}
	}
}
