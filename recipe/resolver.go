// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"strings"

	"github.com/DataDrake/waterlog"
)

// Resolver canonicalizes requests against a recipe mirror.
type Resolver struct {
	Mirror *Mirror
}

// Resolve turns a request into its canonical (name, config) form. A request
// that already carries an explicit recipe bypasses the mirror entirely. A
// bare name is matched against the mirrored recipe files, exactly first and
// then by case-insensitive prefix. An unresolved name is not an error: the
// config simply stays nil and the decision engine turns it into a skip.
func (r Resolver) Resolve(req Request) Request {
	if req.Config != nil {
		return req
	}

	if cfg, ok := r.Mirror.Read(req.Name); ok {
		req.Config = cfg
		return req
	}

	lower := strings.ToLower(req.Name)
	for _, name := range r.Mirror.List() {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			if cfg, ok := r.Mirror.Read(name); ok {
				waterlog.Debugf("Resolved %s to mirrored recipe %s\n", req.Name, name)
				req.Name = name
				req.Config = cfg
				return req
			}
		}
	}

	return req
}
