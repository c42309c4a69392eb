// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Two metadata wire formats exist upstream. The modern one is a JSON object
// with named fields; the legacy one is a positional JSON array laid out as
// [name, requires, summary, version]. Both are converted here, once, at the
// ingestion boundary.

type modernMeta struct {
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	Summary  string            `json:"summary"`
	Requires [][]string        `json:"requires"`
	Kind     string            `json:"kind,omitempty"`
	Extras   map[string]string `json:"extras,omitempty"`
}

const (
	legacyFieldName = iota
	legacyFieldRequires
	legacyFieldSummary
	legacyFieldVersion
	legacyFieldCount
)

// DecodeMetadata parses a metadata document in either wire format and
// normalizes it to a Descriptor of the given kind.
func DecodeMetadata(data []byte, kind Kind) (desc *Descriptor, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		err = fmt.Errorf("empty metadata document")
		return
	}

	switch data[0] {
	case '{':
		desc, err = decodeModern(data)
	case '[':
		desc, err = decodeLegacy(data)
	default:
		err = fmt.Errorf("metadata is neither an object nor a positional array")
	}
	if err != nil {
		return
	}

	if desc.Name == "" {
		return nil, fmt.Errorf("metadata has no package name")
	}
	if desc.Summary == "" {
		desc.Summary = DefaultSummary
	}
	desc.Kind = kind

	return
}

func decodeModern(data []byte) (desc *Descriptor, err error) {
	var meta modernMeta
	if err = json.Unmarshal(data, &meta); err != nil {
		return
	}

	version, err := ParseVersion(meta.Version)
	if err != nil {
		return
	}

	requires, err := parseRequires(meta.Requires)
	if err != nil {
		return
	}

	desc = &Descriptor{
		Name:     meta.Name,
		Version:  version,
		Summary:  meta.Summary,
		Requires: requires,
		Extras:   meta.Extras,
	}
	return
}

func decodeLegacy(data []byte) (desc *Descriptor, err error) {
	var fields []json.RawMessage
	if err = json.Unmarshal(data, &fields); err != nil {
		return
	}
	if len(fields) < legacyFieldCount {
		err = fmt.Errorf("legacy metadata has %d fields, want %d", len(fields), legacyFieldCount)
		return
	}

	var name, summary, rawVersion string
	if err = json.Unmarshal(fields[legacyFieldName], &name); err != nil {
		return
	}
	if err = json.Unmarshal(fields[legacyFieldSummary], &summary); err != nil {
		return
	}
	if err = json.Unmarshal(fields[legacyFieldVersion], &rawVersion); err != nil {
		return
	}

	var rawRequires [][]string
	if err = json.Unmarshal(fields[legacyFieldRequires], &rawRequires); err != nil {
		return
	}

	version, err := ParseVersion(rawVersion)
	if err != nil {
		return
	}

	requires, err := parseRequires(rawRequires)
	if err != nil {
		return
	}

	desc = &Descriptor{
		Name:     name,
		Version:  version,
		Summary:  summary,
		Requires: requires,
	}
	return
}

// parseRequires turns (name, min-version) pairs into Requirements, dropping
// duplicate names while keeping the first occurrence.
func parseRequires(pairs [][]string) (res []Requirement, err error) {
	seen := mapset.NewSet[string]()

	for _, pair := range pairs {
		if len(pair) == 0 || pair[0] == "" {
			return nil, fmt.Errorf("requirement entry has no name")
		}
		if !seen.Add(pair[0]) {
			continue
		}

		req := Requirement{Name: pair[0]}
		if len(pair) > 1 && pair[1] != "" {
			if req.MinVersion, err = ParseVersion(pair[1]); err != nil {
				return nil, fmt.Errorf("requirement %s: %w", pair[0], err)
			}
		}
		res = append(res, req)
	}

	return
}
