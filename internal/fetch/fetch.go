// Package fetch obtains and assembles LLVM source trees from the upstream
// release archives.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/llvm-select/llvm-select/internal/version"
)

// DefaultBaseURL is the upstream release mirror.
const DefaultBaseURL = "http://llvm.org/releases/"

// ErrUnavailable reports that a release archive could not be retrieved,
// typically because the version does not exist on the mirror.
var ErrUnavailable = errors.New("release archive is not available")

// Fetcher produces a ready-to-build source tree for a release. The returned
// path is the root of the main llvm tree with the companion projects moved
// into place.
type Fetcher interface {
	Fetch(ctx context.Context, d version.Details, workDir string) (string, error)
}

type httpFetcher struct {
	base   string
	client *http.Client
	goos   string
}

// Option configures the HTTP fetcher.
type Option func(*httpFetcher)

// WithBaseURL overrides the release mirror base URL.
func WithBaseURL(base string) Option {
	return func(f *httpFetcher) {
		f.base = base
	}
}

// WithClient overrides the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *httpFetcher) {
		f.client = c
	}
}

// WithGOOS overrides the platform the tarball set is computed for.
func WithGOOS(goos string) Option {
	return func(f *httpFetcher) {
		f.goos = goos
	}
}

// New returns a Fetcher that downloads release tarballs over HTTP and
// extracts them natively.
func New(opts ...Option) Fetcher {
	f := &httpFetcher{
		base:   DefaultBaseURL,
		client: http.DefaultClient,
		goos:   runtime.GOOS,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *httpFetcher) Fetch(ctx context.Context, d version.Details, workDir string) (string, error) {
	for _, t := range d.Tarballs(f.goos) {
		archive := filepath.Join(workDir, d.TarballFilename(t))
		if err := f.download(ctx, d.TarballURL(f.base, t), archive); err != nil {
			return "", err
		}
		dest := filepath.Join(workDir, t.Component+"-src")
		if err := extractArchive(archive, dest); err != nil {
			return "", fmt.Errorf("extract %s: %w", filepath.Base(archive), err)
		}
		os.Remove(archive)
	}
	return assemble(workDir, d.Tarballs(f.goos))
}

// assemble moves the companion project trees into the layout the LLVM build
// expects: clang under tools/, compiler-rt and libc++ under projects/.
func assemble(workDir string, tarballs []version.Tarball) (string, error) {
	llvmSrc := filepath.Join(workDir, "llvm-src")

	placement := map[string][]string{
		"clang":       {"tools", "clang"},
		"compiler-rt": {"projects", "compiler-rt"},
		"libcxx":      {"projects", "libcxx"},
	}
	for _, t := range tarballs {
		rel, ok := placement[t.Component]
		if !ok {
			continue
		}
		dest := filepath.Join(llvmSrc, filepath.Join(rel...))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return "", err
		}
		if err := os.Rename(filepath.Join(workDir, t.Component+"-src"), dest); err != nil {
			return "", fmt.Errorf("assemble source tree: %w", err)
		}
	}
	return llvmSrc, nil
}

func (f *httpFetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d: %w", url, resp.StatusCode, ErrUnavailable)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}
