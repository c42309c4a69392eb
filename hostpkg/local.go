// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package hostpkg

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/DataDrake/waterlog"
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/GZGavinZhao/srcget/utils"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

const (
	manifestFile = "manifest.yaml"
	builtinsFile = "builtins.yaml"

	// DefaultRuntime is the host runtime pseudo-dependency used when the
	// registry has no builtins file of its own.
	DefaultRuntime = "emacs"
)

// Entry is one installed package in the registry manifest.
type Entry struct {
	Name        string    `yaml:"name"`
	Version     string    `yaml:"version"`
	Kind        string    `yaml:"kind"`
	Checksum    string    `yaml:"checksum"`
	InstalledAt time.Time `yaml:"installed_at"`
}

type manifest struct {
	Packages []Entry `yaml:"packages"`
}

type builtins struct {
	Runtime  string            `yaml:"runtime"`
	Packages map[string]string `yaml:"packages"`
}

// LocalRegistry is a directory-backed Manager: installed artifacts live in
// the directory next to a YAML manifest, and a builtins file describes what
// the host runtime already bundles.
type LocalRegistry struct {
	Dir string

	runtime string
	builtin map[string]descriptor.Version
	entries map[string]Entry
}

func OpenRegistry(dir string) (reg *LocalRegistry, err error) {
	if err = os.MkdirAll(dir, 0o755); err != nil {
		err = fmt.Errorf("failed to create registry directory %s: %w", dir, err)
		return
	}

	reg = &LocalRegistry{
		Dir:     dir,
		runtime: DefaultRuntime,
		builtin: make(map[string]descriptor.Version),
		entries: make(map[string]Entry),
	}

	if err = reg.loadManifest(); err != nil {
		return nil, err
	}
	if err = reg.loadBuiltins(); err != nil {
		return nil, err
	}

	return
}

func (r *LocalRegistry) loadManifest() error {
	path := filepath.Join(r.Dir, manifestFile)
	if !utils.PathExists(path) {
		return nil
	}

	raw, err := os.Open(path)
	if err != nil {
		return err
	}
	defer raw.Close()

	var m manifest
	if err := yaml.NewDecoder(raw).Decode(&m); err != nil {
		return fmt.Errorf("failed to decode registry manifest %s: %w", path, err)
	}

	for _, entry := range m.Packages {
		r.entries[entry.Name] = entry
	}
	return nil
}

func (r *LocalRegistry) loadBuiltins() error {
	path := filepath.Join(r.Dir, builtinsFile)
	if !utils.PathExists(path) {
		return nil
	}

	raw, err := os.Open(path)
	if err != nil {
		return err
	}
	defer raw.Close()

	var b builtins
	if err := yaml.NewDecoder(raw).Decode(&b); err != nil {
		return fmt.Errorf("failed to decode builtins file %s: %w", path, err)
	}

	if b.Runtime != "" {
		r.runtime = b.Runtime
	}
	for name, verStr := range b.Packages {
		version, err := descriptor.ParseVersion(verStr)
		if err != nil {
			return fmt.Errorf("builtin %s: %w", name, err)
		}
		r.builtin[name] = version
	}
	return nil
}

func (r *LocalRegistry) saveManifest() error {
	var m manifest
	for _, entry := range r.entries {
		m.Packages = append(m.Packages, entry)
	}
	sort.Slice(m.Packages, func(i, j int) bool {
		return m.Packages[i].Name < m.Packages[j].Name
	})

	out, err := os.Create(filepath.Join(r.Dir, manifestFile))
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out)
	if err = enc.Encode(&m); err != nil {
		out.Close()
		return err
	}
	if err = enc.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (r *LocalRegistry) Installed(name string) (descriptor.Version, bool) {
	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	version, err := descriptor.ParseVersion(entry.Version)
	if err != nil {
		waterlog.Warnf("Registry entry %s has unparsable version %q\n", name, entry.Version)
		return nil, false
	}
	return version, true
}

func (r *LocalRegistry) Builtin(name string, candidate descriptor.Version) bool {
	bundled, ok := r.builtin[name]
	return ok && bundled.Compare(candidate) >= 0
}

func (r *LocalRegistry) Runtime() string {
	return r.runtime
}

// InstallFile registers a built artifact: the file is copied into the
// registry directory and recorded in the manifest with a blake3 checksum.
// The artifact's name and version come from the artifact naming contract,
// {name}-{dotted-version}.{el|tar}.
func (r *LocalRegistry) InstallFile(path string) (err error) {
	name, version, err := ParseArtifactName(path)
	if err != nil {
		return
	}

	kind := descriptor.KindForPath(path)
	if kind == descriptor.KindUnknown {
		return fmt.Errorf("artifact %s has no recognized package extension", path)
	}

	sum, err := checksumFile(path)
	if err != nil {
		return fmt.Errorf("failed to checksum artifact %s: %w", path, err)
	}

	dst := filepath.Join(r.Dir, filepath.Base(path))
	if err = utils.CopyFile(path, dst); err != nil {
		return fmt.Errorf("failed to copy artifact %s into registry: %w", path, err)
	}

	r.entries[name] = Entry{
		Name:        name,
		Version:     version.String(),
		Kind:        kind.String(),
		Checksum:    sum,
		InstalledAt: time.Now(),
	}

	if err = r.saveManifest(); err != nil {
		return fmt.Errorf("failed to save registry manifest: %w", err)
	}

	waterlog.Goodf("Installed %s %s\n", name, version)
	return
}

// ParseArtifactName splits an artifact path into package name and version.
// The split happens at the last dash: generated versions never contain
// dashes, so everything before it is the name, which may itself be dashed.
// A suffix that does not parse as a version is an error.
func ParseArtifactName(path string) (name string, version descriptor.Version, err error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	idx := strings.LastIndex(base, "-")
	if idx <= 0 {
		err = fmt.Errorf("artifact name %s is not of the form name-version", base)
		return
	}

	version, err = descriptor.ParseVersion(base[idx+1:])
	if err != nil {
		err = fmt.Errorf("artifact name %s has no parsable version: %w", base, err)
		return
	}

	name = base[:idx]
	return
}

func checksumFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	sum := blake3.Sum256(data)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
