// Package config loads the optional llvm-select configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/llvm-select/llvm-select/internal/version"
)

// Config captures the tool-wide settings. Every field is optional; zero
// values fall back to the platform defaults resolved by the env package.
type Config struct {
	// VersionsRoot overrides the directory installed versions live in.
	VersionsRoot string `yaml:"versions_root"`
	// BinDir overrides the directory the llvm-config redirection
	// artifact is written to.
	BinDir string `yaml:"bin_dir"`
	// MirrorURL overrides the release mirror tarballs are fetched from.
	MirrorURL string `yaml:"mirror_url"`
	// DefaultBuildType is used when a command omits the build type.
	DefaultBuildType string `yaml:"default_build_type"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		MirrorURL:        "http://llvm.org/releases/",
		DefaultBuildType: string(version.Release),
	}
}

// Load reads the configuration at path over the defaults. A missing file is
// not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DefaultBuildType != "" {
		if _, err := version.ParseBuildType(c.DefaultBuildType); err != nil {
			return err
		}
	}
	return nil
}
