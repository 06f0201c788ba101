// Package toolchain drives the external CMake toolchain that compiles and
// installs LLVM releases.
package toolchain

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
)

// CMake wraps one configure/build/install cycle rooted at a source tree.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	defines    map[string]string
	extraEnv   []string
	stdout     io.Writer
	stderr     io.Writer
}

// NewCMake returns a driver for the given source, build and install
// directories. Output is discarded until Output is called.
func NewCMake(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		defines:    make(map[string]string),
		stdout:     io.Discard,
		stderr:     io.Discard,
	}
}

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE.
func (c *CMake) BuildType(name string) { c.buildType = name }

// Define adds a -D<key>=<value> cache definition.
func (c *CMake) Define(key, value string) { c.defines[key] = value }

// DefineBool adds a boolean cache definition rendered as true/false.
func (c *CMake) DefineBool(key string, value bool) {
	v := "false"
	if value {
		v = "true"
	}
	c.defines[key] = v
}

// Env appends KEY=VALUE overrides to the environment of every invocation.
func (c *CMake) Env(kv ...string) {
	c.extraEnv = append(c.extraEnv, kv...)
}

// Output directs the toolchain's stdout and stderr to w, typically
// os.Stdout for verbose builds.
func (c *CMake) Output(w io.Writer) {
	c.stdout = w
	c.stderr = w
}

// Configure generates the build system in the build directory.
func (c *CMake) Configure(ctx context.Context) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.run(ctx, c.configureArgs())
}

func (c *CMake) configureArgs() []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.installDir != "" {
		c.Define("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D"+k+"="+c.defines[k])
	}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	return args
}

// Build compiles everything the configure step generated.
func (c *CMake) Build(ctx context.Context) error {
	return c.run(ctx, []string{"--build", c.buildDir})
}

// BuildTarget compiles a single named target.
func (c *CMake) BuildTarget(ctx context.Context, target string) error {
	return c.run(ctx, []string{"--build", c.buildDir, "--target", target})
}

// Install runs the install target, placing the result under the install
// prefix given at construction.
func (c *CMake) Install(ctx context.Context) error {
	return c.run(ctx, []string{"--build", c.buildDir, "--target", "install"})
}

func (c *CMake) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "cmake", args...)
	if len(c.extraEnv) > 0 {
		cmd.Env = append(os.Environ(), c.extraEnv...)
	}
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr
	return cmd.Run()
}
