// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is an ordered tuple of dotted numeric components, e.g. "1.0.3" or
// a MELPA-style date version such as "20240131.1512".
type Version []int

func ParseVersion(s string) (v Version, err error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "v"))
	if s == "" {
		err = fmt.Errorf("empty version string")
		return
	}

	for _, part := range strings.Split(s, ".") {
		num, perr := strconv.Atoi(part)
		if perr != nil {
			return nil, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		v = append(v, num)
	}

	return
}

func (v Version) String() string {
	parts := make([]string, len(v))
	for i, num := range v {
		parts[i] = strconv.Itoa(num)
	}
	return strings.Join(parts, ".")
}

// Compare orders versions component-wise. A missing component is lower than
// any present one, so 1 < 1.0 and 1.2 < 1.2.0.
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v) || i < len(o); i++ {
		if i >= len(v) {
			return -1
		}
		if i >= len(o) {
			return 1
		}
		if v[i] != o[i] {
			if v[i] < o[i] {
				return -1
			}
			return 1
		}
	}

	return 0
}
