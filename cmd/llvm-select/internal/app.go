package internal

import (
	"github.com/llvm-select/llvm-select/internal/activate"
	"github.com/llvm-select/llvm-select/internal/config"
	"github.com/llvm-select/llvm-select/internal/env"
	"github.com/llvm-select/llvm-select/internal/store"
)

// app bundles the wired-up components every command works against.
type app struct {
	cfg       config.Config
	store     *store.Store
	activator activate.Activator
}

func newApp() (*app, error) {
	cfg := config.Default()
	if path, err := env.ConfigPath(); err == nil {
		var lerr error
		if cfg, lerr = config.Load(path); lerr != nil {
			return nil, lerr
		}
	}

	root := cfg.VersionsRoot
	if root == "" {
		var err error
		if root, err = env.VersionsRoot(); err != nil {
			return nil, err
		}
	}
	binDir := cfg.BinDir
	if binDir == "" {
		var err error
		if binDir, err = env.BinDir(); err != nil {
			return nil, err
		}
	}

	st := store.New(root)
	return &app{
		cfg:       cfg,
		store:     st,
		activator: activate.New(st, binDir),
	}, nil
}
