// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package builder

import (
	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/GZGavinZhao/srcget/hostpkg"
	"github.com/GZGavinZhao/srcget/recipe"
)

// ShouldBuild is the cheap pre-check that runs before any source fetch:
// a package that is installed while upgrades are disallowed, or that has no
// recipe at all, never reaches the build service.
func ShouldBuild(mgr hostpkg.Manager, name string, cfg *recipe.Config, allowUpgrade bool) bool {
	if cfg == nil {
		waterlog.Infof("No recipe found for %s, skipping\n", name)
		return false
	}

	if _, ok := mgr.Installed(name); ok && !allowUpgrade {
		waterlog.Debugf("%s is already installed and upgrades are disabled\n", name)
		return false
	}

	return true
}

// DecideVersion is the authoritative post-checkout comparison: the true
// upstream version is only known once the source has been fetched. It
// returns false when nothing needs to happen, either because the installed
// version is already at least the candidate or because a bundled package
// satisfies it.
func DecideVersion(mgr hostpkg.Manager, name string, candidate descriptor.Version) (descriptor.Version, bool) {
	if installed, ok := mgr.Installed(name); ok && installed.Compare(candidate) >= 0 {
		waterlog.Debugf("%s %s is already installed, candidate %s needs no action\n", name, installed, candidate)
		return nil, false
	}

	if mgr.Builtin(name, candidate) {
		waterlog.Debugf("%s %s is satisfied by a builtin package\n", name, candidate)
		return nil, false
	}

	return candidate, true
}
