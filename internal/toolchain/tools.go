package toolchain

import (
	"os/exec"
	"runtime"
)

// MissingCommandError reports that a command required for building is not
// available on the system PATH.
type MissingCommandError struct {
	Command string
}

func (e *MissingCommandError) Error() string {
	return e.Command + " is required for the build process"
}

// available reports whether running "name versionFlag" succeeds.
func available(name, versionFlag string) bool {
	if _, err := exec.LookPath(name); err != nil {
		return false
	}
	return exec.Command(name, versionFlag).Run() == nil
}

// CheckPrerequisites verifies the external tools a build needs. Fetching and
// extraction are native, so cmake is the only hard requirement.
func CheckPrerequisites() error {
	if !available("cmake", "--version") {
		return &MissingCommandError{Command: "cmake"}
	}
	return nil
}

// usingMinGW reports whether the build will run under MinGW g++ on windows.
func usingMinGW() bool {
	return runtime.GOOS == "windows" && available("g++", "-v")
}

// DetectGenerator picks the CMake generator for the current platform: Ninja
// when present on unix-like systems, NMake on windows installations without
// MinGW g++, and Unix Makefiles otherwise. Ninja is avoided on windows
// because some LLVM releases do not build cleanly with it there.
func DetectGenerator() string {
	if runtime.GOOS != "windows" && available("ninja", "--version") {
		return "Ninja"
	}
	if runtime.GOOS == "windows" && !available("g++", "-v") {
		return "NMake Makefiles"
	}
	return "Unix Makefiles"
}
