// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jwalton/gchalk"
)

// DefaultSummary is substituted when a package carries no summary of its own.
const DefaultSummary = "No description available."

type Kind int

const (
	KindUnknown Kind = iota
	// KindSingle is a single-file package shipped as one .el file.
	KindSingle
	// KindTar is a multi-file package shipped as an uncompressed tarball.
	KindTar
)

func (k Kind) Ext() string {
	switch k {
	case KindSingle:
		return "el"
	case KindTar:
		return "tar"
	default:
		return ""
	}
}

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindTar:
		return "tar"
	default:
		return "unknown"
	}
}

// KindForPath derives the package kind from an artifact's file extension.
func KindForPath(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".el":
		return KindSingle
	case ".tar":
		return KindTar
	default:
		return KindUnknown
	}
}

// Requirement is a runtime dependency with a minimum acceptable version.
type Requirement struct {
	Name       string
	MinVersion Version
}

// Descriptor is the normalized metadata of a built package, produced only by
// Extract. Both the legacy positional and the modern named wire formats
// normalize into this one shape.
type Descriptor struct {
	Name     string
	Version  Version
	Summary  string
	Requires []Requirement
	Kind     Kind
	Extras   map[string]string
}

// Show is the toString method for a descriptor.
//
// When `deps` is true, show the runtime dependencies this package declares.
//
// When `color` is true, show the dependencies in gray for easier viewing.
// Obviously this has no effects when `deps` is false.
func (d *Descriptor) Show(deps bool, color bool) string {
	id := fmt.Sprintf("%s-%s", d.Name, d.Version)
	if !deps || len(d.Requires) == 0 {
		return id
	}

	names := make([]string, len(d.Requires))
	for i, req := range d.Requires {
		names[i] = req.Name
	}

	if color {
		return id + gchalk.Gray(fmt.Sprintf("{%s}", strings.Join(names, ", ")))
	}
	return fmt.Sprintf("%s{%s}", id, strings.Join(names, ", "))
}
