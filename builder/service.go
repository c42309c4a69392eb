// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/GZGavinZhao/srcget/recipe"
)

// Service is the source build service the orchestrator drives. It speaks
// whatever version-control protocol the recipe demands and assembles the
// final artifact; the pipeline itself does neither.
type Service interface {
	// Checkout fetches the package source into dir and reports the version
	// string discovered at the checked-out revision.
	Checkout(name string, cfg *recipe.Config, dir string) (string, error)
	// Package assembles the artifact for an authorized version into outDir,
	// reporting the package kind it produced. The artifact's location
	// follows the naming contract: {outDir}/{name}-{version}.{kind-ext}.
	Package(name string, version descriptor.Version, files []string, buildDir string, outDir string) (descriptor.Kind, error)
}
