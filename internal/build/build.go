// Package build orchestrates the installation of a new LLVM version: fetch
// the release sources, compile them with the external toolchain, and verify
// the result landed in the store with a valid layout.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/llvm-select/llvm-select/internal/fetch"
	"github.com/llvm-select/llvm-select/internal/store"
	"github.com/llvm-select/llvm-select/internal/toolchain"
	"github.com/llvm-select/llvm-select/internal/version"
)

// ErrAlreadyInstalled reports an install for a key that is already present.
// Re-installing requires an explicit remove first so an in-use installation
// is never silently clobbered.
var ErrAlreadyInstalled = errors.New("library version is already installed")

// FetchError wraps any failure to obtain the release sources.
type FetchError struct {
	Version string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch sources for %s: %v", e.Version, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BuildError wraps any failure between source tree and verified
// installation. By the time it is returned the destination directory has
// been cleaned up, so a later existence check reliably reports false.
type BuildError struct {
	Key version.Key
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %v", e.Key, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Fetcher is the source-obtaining collaborator. It returns the root of a
// ready-to-build source tree placed under workDir.
type Fetcher interface {
	Fetch(ctx context.Context, d version.Details, workDir string) (string, error)
}

// Compiler is the toolchain collaborator that turns a source tree into an
// installed tree at destDir.
type Compiler interface {
	Compile(ctx context.Context, sourceDir string, buildType version.BuildType, destDir string) error
}

// Builder produces new store entries. Builds for different keys occupy
// distinct scratch and destination directories and may run concurrently;
// two builds for the same key race, last writer wins.
type Builder struct {
	store    *store.Store
	fetcher  Fetcher
	compiler Compiler
	scratch  string
	keep     bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithFetcher replaces the default HTTP release fetcher.
func WithFetcher(f Fetcher) Option {
	return func(b *Builder) { b.fetcher = f }
}

// WithCompiler replaces the default CMake toolchain.
func WithCompiler(c Compiler) Option {
	return func(b *Builder) { b.compiler = c }
}

// WithScratchDir places per-build scratch directories under dir instead of
// the system temp directory.
func WithScratchDir(dir string) Option {
	return func(b *Builder) { b.scratch = dir }
}

// KeepBuildFiles disables removal of the scratch directory after the build,
// mirroring the --no-cleanup flag.
func KeepBuildFiles(keep bool) Option {
	return func(b *Builder) { b.keep = keep }
}

// New returns a Builder installing into st.
func New(st *store.Store, opts ...Option) *Builder {
	b := &Builder{
		store:    st,
		fetcher:  fetch.New(),
		compiler: toolchain.NewLLVM(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Install fetches, compiles and installs one version. The active link is
// never touched. On any failure after the destination directory may exist,
// the destination is removed before returning.
func (b *Builder) Install(ctx context.Context, k version.Key) (store.Entry, error) {
	d, err := version.Parse(k.Version)
	if err != nil {
		return store.Entry{}, err
	}
	if b.store.Installed(k) {
		return store.Entry{}, fmt.Errorf("install %s: %w", k, ErrAlreadyInstalled)
	}

	work, err := b.scratchDir()
	if err != nil {
		return store.Entry{}, err
	}
	if !b.keep {
		defer os.RemoveAll(work)
	}

	src, err := b.fetcher.Fetch(ctx, d, work)
	if err != nil {
		return store.Entry{}, &FetchError{Version: d.String(), Err: err}
	}

	dest := b.store.Path(k)
	if err := b.compiler.Compile(ctx, src, k.Type, dest); err != nil {
		return store.Entry{}, &BuildError{Key: k, Err: cleanDestination(dest, err)}
	}

	// The toolchain reported success; trust only the layout.
	if !b.store.Installed(k) {
		err := errors.New("toolchain reported success but produced no query executable")
		return store.Entry{}, &BuildError{Key: k, Err: cleanDestination(dest, err)}
	}

	return store.Entry{Key: k, Dir: dest}, nil
}

// cleanDestination removes a partially written destination after a failed
// build. A failed removal is joined into err so the surviving directory is
// reported alongside the original failure.
func cleanDestination(dest string, err error) error {
	if rmErr := os.RemoveAll(dest); rmErr != nil {
		return errors.Join(err, fmt.Errorf("clean up %s: %w", dest, rmErr))
	}
	return err
}

func (b *Builder) scratchDir() (string, error) {
	parent := b.scratch
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", err
		}
	}
	work, err := os.MkdirTemp(parent, "llvm-select-build-")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return work, nil
}
