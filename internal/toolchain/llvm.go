package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/llvm-select/llvm-select/internal/version"
)

// LLVM compiles an assembled LLVM source tree into an install prefix. It is
// the build collaborator consumed by the builder.
type LLVM struct {
	out io.Writer
}

// NewLLVM returns a quiet toolchain; call Output to surface tool output.
func NewLLVM() *LLVM {
	return &LLVM{out: io.Discard}
}

// Output directs toolchain output to w.
func (l *LLVM) Output(w io.Writer) {
	l.out = w
}

// Compile configures, builds and installs sourceDir into destDir with the
// given build type. Exception handling and RTTI are enabled so the
// installed libraries are usable from ordinary C++ programs; the LLVM test
// suite is skipped.
func (l *LLVM) Compile(ctx context.Context, sourceDir string, buildType version.BuildType, destDir string) error {
	if err := CheckPrerequisites(); err != nil {
		return err
	}
	generator := DetectGenerator()

	cm := NewCMake(sourceDir, filepath.Join(sourceDir, "build"), destDir)
	cm.Generator(generator)
	cm.BuildType(string(buildType))
	cm.DefineBool("LLVM_ENABLE_EH", true)
	cm.DefineBool("LLVM_ENABLE_RTTI", true)
	cm.DefineBool("LLVM_INCLUDE_TESTS", false)
	cm.Output(l.out)

	mingw := usingMinGW()
	if mingw {
		defines, err := l.prebuildTablegen(ctx, sourceDir, string(buildType), generator)
		if err != nil {
			return fmt.Errorf("prepare tblgen: %w", err)
		}
		for k, v := range defines {
			cm.Define(k, v)
		}
	}

	if err := cm.Configure(ctx); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	if err := cm.Build(ctx); err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if err := cm.Install(ctx); err != nil {
		return fmt.Errorf("install: %w", err)
	}

	if mingw {
		copyRuntimeDLL(destDir)
	}
	return nil
}

// prebuildTablegen builds llvm-tblgen and clang-tblgen with libgcc and
// libstdc++ linked statically, and returns the cache defines that make the
// main build use them. A MinGW-built tblgen otherwise fails mid-build when
// libstdc++-6.dll is not on the PATH.
func (l *LLVM) prebuildTablegen(ctx context.Context, sourceDir, buildType, generator string) (map[string]string, error) {
	buildDir := filepath.Join(sourceDir, "build-tblgen")
	cm := NewCMake(sourceDir, buildDir, "")
	cm.Generator(generator)
	cm.BuildType(buildType)
	cm.DefineBool("LLVM_INCLUDE_TESTS", false)
	cm.Env(
		"LDFLAGS="+os.Getenv("LDFLAGS")+" -static-libgcc -static-libstdc++",
		"CXXFLAGS="+os.Getenv("CXXFLAGS")+" -static-libgcc -static-libstdc++",
		"CFLAGS="+os.Getenv("CFLAGS")+" -static-libgcc",
	)
	cm.Output(l.out)

	if err := cm.Configure(ctx); err != nil {
		return nil, err
	}
	for _, target := range []string{"llvm-tblgen", "clang-tblgen"} {
		if err := cm.BuildTarget(ctx, target); err != nil {
			return nil, err
		}
	}
	return tablegenDefines(buildDir), nil
}

func tablegenDefines(buildDir string) map[string]string {
	bin := filepath.Join(buildDir, "bin")
	return map[string]string{
		"LLVM_TABLEGEN":  filepath.Join(bin, "llvm-tblgen.exe"),
		"CLANG_TABLEGEN": filepath.Join(bin, "clang-tblgen.exe"),
	}
}

// copyRuntimeDLL places MinGW's libstdc++-6.dll next to the installed
// binaries. Statically linking the whole build instead breaks parts of the
// LLVM compilation, so only tblgen gets the static treatment. Best effort;
// the installation works without it whenever the DLL is on the PATH.
func copyRuntimeDLL(destDir string) {
	gxx, err := exec.LookPath("g++")
	if err != nil {
		return
	}
	data, err := os.ReadFile(filepath.Join(filepath.Dir(gxx), "libstdc++-6.dll"))
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(destDir, "bin", "libstdc++-6.dll"), data, 0o755)
}
