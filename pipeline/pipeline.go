// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/builder"
	"github.com/GZGavinZhao/srcget/fetcher"
	"github.com/GZGavinZhao/srcget/hostpkg"
	"github.com/GZGavinZhao/srcget/installer"
	"github.com/GZGavinZhao/srcget/recipe"
)

// Hook runs around an install request. Before hooks that fail abort the
// request; after hooks run regardless of the install outcome.
type Hook func(p *Pipeline) error

// Config carries every knob of an install pipeline explicitly. There is no
// ambient state: two pipelines with different Configs never interfere.
type Config struct {
	// RootDir anchors the default layout; the per-concern directories
	// below override it piecewise.
	RootDir    string
	MirrorDir  string
	BuildDir   string
	PackageDir string
	InstallDir string

	// MirrorRemote is the recipe index to sync from. Empty keeps the
	// mirror local-only.
	MirrorRemote string

	Upgrade bool

	// Service and Manager default to the git build service and the local
	// registry under InstallDir.
	Service builder.Service
	Manager hostpkg.Manager

	Before []Hook
	After  []Hook
}

// DefaultConfig lays the pipeline out under the user's cache directory and
// wires the default hooks: setup before each request, package directory
// purge after.
func DefaultConfig() (cfg Config, err error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		err = fmt.Errorf("failed to locate user cache directory: %w", err)
		return
	}

	cfg = Config{
		RootDir: filepath.Join(cache, "srcget"),
		Before:  []Hook{Setup},
		After:   []Hook{PurgePackages},
	}
	return
}

// fill resolves the directory layout against RootDir.
func (c *Config) fill() {
	if c.MirrorDir == "" {
		c.MirrorDir = filepath.Join(c.RootDir, "recipes")
	}
	if c.BuildDir == "" {
		c.BuildDir = filepath.Join(c.RootDir, "build")
	}
	if c.PackageDir == "" {
		c.PackageDir = filepath.Join(c.RootDir, "packages")
	}
	if c.InstallDir == "" {
		c.InstallDir = filepath.Join(c.RootDir, "installed")
	}
}

// Options shadows selected Config fields for a single Run without touching
// the pipeline's Config.
type Options struct {
	Upgrade *bool
}

// Pipeline executes install requests end to end: recipe resolution, build,
// metadata extraction and recursive dependency install.
type Pipeline struct {
	Config Config

	mirror  *recipe.Mirror
	manager hostpkg.Manager
	service builder.Service

	setupOnce sync.Once
	setupErr  error

	last *installer.Installer
}

func New(cfg Config) *Pipeline {
	cfg.fill()
	return &Pipeline{Config: cfg}
}

// Setup is the default before hook.
func Setup(p *Pipeline) error {
	return p.setup()
}

// PurgePackages is the default after hook: finished artifacts are spent
// once installed, keeping them would only shadow future builds.
func PurgePackages(p *Pipeline) error {
	entries, err := os.ReadDir(p.Config.PackageDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(p.Config.PackageDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// setup creates the directory layout, syncs the recipe mirror and opens the
// host registry. It runs at most once per pipeline.
func (p *Pipeline) setup() error {
	p.setupOnce.Do(func() {
		for _, dir := range []string{p.Config.BuildDir, p.Config.PackageDir, p.Config.InstallDir} {
			if p.setupErr = os.MkdirAll(dir, 0o755); p.setupErr != nil {
				p.setupErr = fmt.Errorf("failed to create %s: %w", dir, p.setupErr)
				return
			}
		}

		p.mirror = recipe.NewMirror(p.Config.MirrorDir, p.Config.MirrorRemote)
		if p.setupErr = p.mirror.Bootstrap(); p.setupErr != nil {
			return
		}

		p.service = p.Config.Service
		if p.service == nil {
			p.service = &fetcher.GitService{}
		}

		p.manager = p.Config.Manager
		if p.manager == nil {
			p.manager, p.setupErr = hostpkg.OpenRegistry(p.Config.InstallDir)
		}
	})
	return p.setupErr
}

// Run executes one install request. Options shadow the pipeline Config for
// this call only.
func (p *Pipeline) Run(req recipe.Request, opts Options) error {
	for _, hook := range p.Config.Before {
		if err := hook(p); err != nil {
			return fmt.Errorf("before hook failed: %w", err)
		}
	}
	// The default before hooks already ran setup; a caller-supplied hook
	// list may not have.
	if err := p.setup(); err != nil {
		return err
	}

	upgrade := p.Config.Upgrade
	if opts.Upgrade != nil {
		upgrade = *opts.Upgrade
	}

	b := &builder.Builder{
		Service:      p.service,
		Manager:      p.manager,
		BuildRoot:    p.Config.BuildDir,
		PackageRoot:  p.Config.PackageDir,
		AllowUpgrade: upgrade,
	}

	ins := installer.New(b, p.manager, recipe.Resolver{Mirror: p.mirror})
	p.last = ins

	runErr := ins.Install(req)

	for _, hook := range p.Config.After {
		if err := hook(p); err != nil {
			waterlog.Warnf("After hook failed: %s\n", err)
			if runErr == nil {
				runErr = err
			}
		}
	}

	return runErr
}

// Mirror exposes the recipe mirror after setup, nil before.
func (p *Pipeline) Mirror() *recipe.Mirror {
	return p.mirror
}

// Manager exposes the host package manager after setup, nil before.
func (p *Pipeline) Manager() hostpkg.Manager {
	return p.manager
}

// Last returns the installer of the most recent Run, carrying the install
// order and dependency graph of that request.
func (p *Pipeline) Last() *installer.Installer {
	return p.last
}
