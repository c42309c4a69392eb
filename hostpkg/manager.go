// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package hostpkg

import "github.com/GZGavinZhao/srcget/descriptor"

// Manager is the host environment's package registry: the pipeline asks it
// what is already installed, what the host bundles, and hands it finished
// artifacts to register.
type Manager interface {
	// Installed reports the version of an installed package, if any.
	Installed(name string) (descriptor.Version, bool)
	// Builtin reports whether a bundled package satisfies the candidate
	// version, making a separate install pointless.
	Builtin(name string, candidate descriptor.Version) bool
	// InstallFile registers a built artifact with the host.
	InstallFile(path string) error
	// Runtime names the host runtime pseudo-dependency. Declared
	// dependencies with this name are never installable packages.
	Runtime() string
}
