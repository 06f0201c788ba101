// Package version identifies installable LLVM artifacts: a release string
// paired with a CMake build type.
package version

import (
	"fmt"
	"strings"
)

// BuildType is one of the CMake build types LLVM can be compiled with.
type BuildType string

const (
	Release        BuildType = "Release"
	Debug          BuildType = "Debug"
	RelWithDebInfo BuildType = "RelWithDebInfo"
	MinSizeRel     BuildType = "MinSizeRel"
)

// BuildTypes lists every valid build type, in display order.
func BuildTypes() []BuildType {
	return []BuildType{Release, Debug, RelWithDebInfo, MinSizeRel}
}

// ParseBuildType validates a build type token. Matching is exact; there is
// no case folding.
func ParseBuildType(s string) (BuildType, error) {
	for _, bt := range BuildTypes() {
		if s == string(bt) {
			return bt, nil
		}
	}
	return "", fmt.Errorf("invalid build type %q (valid build types: %s)", s, joinBuildTypes())
}

func joinBuildTypes() string {
	names := make([]string, 0, 4)
	for _, bt := range BuildTypes() {
		names = append(names, string(bt))
	}
	return strings.Join(names, ", ")
}

// Key identifies one installation: an LLVM release plus the build type it
// was compiled with. Keys compare by exact match only; no semantic version
// ordering is defined.
type Key struct {
	Version string
	Type    BuildType
}

// String returns the "VERSION-BUILDTYPE" form, which is also the directory
// name the installation occupies under the versions root.
func (k Key) String() string {
	return k.Version + "-" + string(k.Type)
}

// DirName is an alias of String kept for call sites that talk about layout.
func (k Key) DirName() string {
	return k.String()
}

// ParseDirName interprets a directory name as "VERSION-BUILDTYPE". The build
// type is taken from the last dash-separated segment so release strings do
// not need escaping. Reports ok=false for names that do not follow the
// layout.
func ParseDirName(name string) (Key, bool) {
	i := strings.LastIndex(name, "-")
	if i <= 0 || i == len(name)-1 {
		return Key{}, false
	}
	bt, err := ParseBuildType(name[i+1:])
	if err != nil {
		return Key{}, false
	}
	if _, err := Parse(name[:i]); err != nil {
		return Key{}, false
	}
	return Key{Version: name[:i], Type: bt}, true
}
