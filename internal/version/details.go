package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Tarball names one source archive belonging to a release. Component is the
// stable identifier ("llvm", "clang", "compiler-rt", "libcxx"); Name is the
// archive base name, which differs across releases (clang shipped as "cfe"
// for some of them).
type Tarball struct {
	Component string
	Name      string
}

// Details carries everything needed to fetch and assemble the source tree
// for one LLVM release. The rules encoded here track how the upstream
// release archives were actually published over time.
type Details struct {
	Major    int
	Minor    int
	Revision int

	hasRevision bool
}

// Parse validates an LLVM release string and returns its details.
//
// Accepted forms are MAJOR.MINOR and MAJOR.MINOR.REVISION. The minimum
// supported release is 2.6 (the first with a clang source tarball), 3.4.1 is
// the first with a revision component, and every release after 3.4 requires
// one.
func Parse(s string) (Details, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Details{}, fmt.Errorf("unsupported LLVM version %q", s)
	}
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Details{}, fmt.Errorf("unsupported LLVM version %q", s)
		}
		nums[i] = n
	}
	d := Details{Major: nums[0], Minor: nums[1]}
	if len(nums) == 3 {
		d.Revision = nums[2]
		d.hasRevision = true
	}
	if d.Major < 2 || (d.Major == 2 && d.Minor < 6) {
		return Details{}, fmt.Errorf("unsupported LLVM version %q", s)
	}
	// 3.4.1 is the first release with a revision number.
	if d.hasRevision && (d.Major < 3 || (d.Major == 3 && d.Minor < 4)) {
		return Details{}, fmt.Errorf("unsupported LLVM version %q", s)
	}
	// Everything after 3.4 requires one.
	if !d.hasRevision && (d.Major > 3 || (d.Major == 3 && d.Minor > 4)) {
		return Details{}, fmt.Errorf("unsupported LLVM version %q", s)
	}
	return d, nil
}

func (d Details) String() string {
	s := strconv.Itoa(d.Major) + "." + strconv.Itoa(d.Minor)
	if d.hasRevision {
		s += "." + strconv.Itoa(d.Revision)
	}
	return s
}

// Extension returns the archive extension the release was published with.
// 2.7 through 2.9 used .tgz, 2.6 and 3.0 used .tar.gz, 3.1 through 3.4.2
// used .src.tar.gz, and 3.5.0 onwards use .src.tar.xz.
func (d Details) Extension() string {
	switch {
	case d.Major == 2 && d.Minor > 6:
		return ".tgz"
	case (d.Major == 2 && d.Minor == 6) || (d.Major == 3 && d.Minor == 0):
		return ".tar.gz"
	case d.Major == 3 && d.Minor < 5:
		return ".src.tar.gz"
	default:
		return ".src.tar.xz"
	}
}

// Tarballs returns the source archives to fetch for this release on the
// given GOOS, in extraction order with the main llvm archive first.
// compiler-rt is built everywhere but windows from 3.1 onwards, and libc++
// only on darwin from 3.3 onwards.
func (d Details) Tarballs(goos string) []Tarball {
	ts := []Tarball{{Component: "llvm", Name: "llvm"}}

	// 3.3, and 3.5.0 onwards, renamed the clang archive to "cfe".
	clang := "cfe"
	if d.Major < 3 || (d.Major == 3 && (d.Minor < 3 || (d.Minor == 4 && !d.hasRevision))) {
		clang = "clang"
	}
	ts = append(ts, Tarball{Component: "clang", Name: clang})

	if goos != "windows" && (d.Major > 3 || (d.Major == 3 && d.Minor >= 1)) {
		ts = append(ts, Tarball{Component: "compiler-rt", Name: "compiler-rt"})
	}
	if goos == "darwin" && (d.Major > 3 || (d.Major == 3 && d.Minor >= 3)) {
		ts = append(ts, Tarball{Component: "libcxx", Name: "libcxx"})
	}
	return ts
}

// TarballFilename returns the archive file name for one component.
func (d Details) TarballFilename(t Tarball) string {
	return t.Name + "-" + d.tarballVersion(t) + d.Extension()
}

// TarballURL joins the mirror base URL with the release directory and the
// archive file name. base is expected to end with a slash.
func (d Details) TarballURL(base string, t Tarball) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + d.tarballVersion(t) + "/" + d.TarballFilename(t)
}

// tarballVersion returns the version string embedded in an archive name.
// For 3.4.1 and 3.4.2 the compiler-rt and libcxx archives were still
// published under plain 3.4; everything else is in sync with the release.
func (d Details) tarballVersion(t Tarball) string {
	if (t.Component == "compiler-rt" || t.Component == "libcxx") && d.Major == 3 && d.Minor == 4 {
		return "3.4"
	}
	return d.String()
}
