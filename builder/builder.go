// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/GZGavinZhao/srcget/hostpkg"
	"github.com/GZGavinZhao/srcget/recipe"
)

// Builder drives the source build service through checkout and packaging.
type Builder struct {
	Service Service
	Manager hostpkg.Manager

	// BuildRoot holds one checkout directory per package name, reused
	// across invocations for incremental checkouts. PackageRoot receives
	// the finished artifacts.
	BuildRoot   string
	PackageRoot string

	AllowUpgrade bool
}

// Build resolves whether a (re)build is warranted and, if so, produces the
// artifact. An empty path with a nil error means no action was needed:
// already satisfied or no recipe.
func (b *Builder) Build(name string, cfg *recipe.Config) (path string, kind descriptor.Kind, err error) {
	if !ShouldBuild(b.Manager, name, cfg, b.AllowUpgrade) {
		return
	}

	dir := filepath.Join(b.BuildRoot, name)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("failed to create build directory %s: %w", dir, err)
		return
	}

	rawVersion, err := b.Service.Checkout(name, cfg, dir)
	if err != nil {
		err = fmt.Errorf("checkout of %s failed: %w", name, err)
		return
	}

	candidate, err := descriptor.ParseVersion(rawVersion)
	if err != nil {
		err = fmt.Errorf("checkout of %s reported version %q: %w", name, rawVersion, err)
		return
	}

	version, ok := DecideVersion(b.Manager, name, candidate)
	if !ok {
		return
	}

	waterlog.Infof("Building %s %s\n", name, version)
	if kind, err = b.Service.Package(name, version, cfg.Files, dir, b.PackageRoot); err != nil {
		err = fmt.Errorf("packaging of %s failed: %w", name, err)
		return
	}

	path = ArtifactPath(b.PackageRoot, name, version, kind)
	return
}

// ArtifactPath computes the deterministic artifact location. This is a
// contract shared with the descriptor extractor and the host package
// manager, so every party agrees where a built package lives.
func ArtifactPath(outDir string, name string, version descriptor.Version, kind descriptor.Kind) string {
	return filepath.Join(outDir, fmt.Sprintf("%s-%s.%s", name, version, kind.Ext()))
}
