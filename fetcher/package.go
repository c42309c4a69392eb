// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package fetcher

import (
	"archive/tar"
	"bufio"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/GZGavinZhao/srcget/builder"
	"github.com/GZGavinZhao/srcget/descriptor"
	"github.com/charlievieth/fastwalk"
)

var (
	summaryRe = regexp.MustCompile(`^;;;\s*\S+\s*---\s*(.+?)\s*(?:-\*-.*-\*-\s*)?$`)
	requireRe = regexp.MustCompile(`\(\s*([A-Za-z0-9][A-Za-z0-9_.-]*)(?:\s+"([^"]+)")?\s*\)`)
)

// Package assembles the final artifact from a checkout: one file becomes a
// single-file package, anything more becomes a tarball carrying a
// metadata.json entry. The metadata block is generated here from the main
// file's library headers, so the extractor downstream always has one place
// to look.
func (s *GitService) Package(name string, version descriptor.Version, files []string, buildDir string, outDir string) (kind descriptor.Kind, err error) {
	paths, err := expandFiles(buildDir, files)
	if err != nil {
		return
	}
	if len(paths) == 0 {
		err = fmt.Errorf("recipe for %s matched no package files in %s", name, buildDir)
		return
	}

	meta, err := buildMetadata(name, version, buildDir, paths)
	if err != nil {
		return
	}

	if len(paths) == 1 && strings.HasSuffix(paths[0], ".el") {
		kind = descriptor.KindSingle
		err = writeSingle(builder.ArtifactPath(outDir, name, version, kind), buildDir, paths[0], meta)
		return
	}

	kind = descriptor.KindTar
	err = writeTar(builder.ArtifactPath(outDir, name, version, kind), name, version, buildDir, paths, meta)
	return
}

// expandFiles matches the recipe's file globs over the checkout and returns
// the sorted relative paths. An empty file list defaults to every .el file.
func expandFiles(buildDir string, patterns []string) (paths []string, err error) {
	if len(patterns) == 0 {
		patterns = []string{"*.el"}
	}

	walkConf := fastwalk.Config{
		Follow: false,
	}
	var mutex sync.Mutex

	err = fastwalk.Walk(&walkConf, buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, rerr := filepath.Rel(buildDir, path)
		if rerr != nil {
			return rerr
		}

		for _, pattern := range patterns {
			relMatch, merr := filepath.Match(pattern, rel)
			if merr != nil {
				return fmt.Errorf("bad file pattern %q: %w", pattern, merr)
			}
			baseMatch, _ := filepath.Match(pattern, d.Name())

			if relMatch || baseMatch {
				mutex.Lock()
				paths = append(paths, rel)
				mutex.Unlock()
				break
			}
		}

		return nil
	})
	if err != nil {
		return
	}

	slices.Sort(paths)
	return
}

// buildMetadata assembles the modern metadata document from the main
// library's headers. A checkout without parsable headers still yields valid
// metadata, just with the default summary and no requirements.
func buildMetadata(name string, version descriptor.Version, buildDir string, paths []string) ([]byte, error) {
	summary, requires := parseHeaders(filepath.Join(buildDir, mainFile(name, paths)))

	doc := map[string]any{
		"name":    name,
		"version": version.String(),
		"summary": summary,
	}
	if len(requires) > 0 {
		doc["requires"] = requires
	}

	return json.Marshal(doc)
}

// mainFile picks the library whose headers describe the package: name.el
// when present, the first .el file otherwise.
func mainFile(name string, paths []string) string {
	want := name + ".el"
	for _, path := range paths {
		if filepath.Base(path) == want {
			return path
		}
	}
	for _, path := range paths {
		if strings.HasSuffix(path, ".el") {
			return path
		}
	}
	return paths[0]
}

// parseHeaders reads the summary and Package-Requires header from a
// library's comment block.
func parseHeaders(path string) (summary string, requires [][]string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for lineNum := 0; scanner.Scan() && lineNum < 64; lineNum++ {
		line := scanner.Text()

		if summary == "" {
			if m := summaryRe.FindStringSubmatch(line); m != nil {
				summary = m[1]
				continue
			}
		}

		if rest, ok := strings.CutPrefix(line, ";; Package-Requires:"); ok {
			for _, m := range requireRe.FindAllStringSubmatch(rest, -1) {
				pair := []string{m[1]}
				if m[2] != "" {
					pair = append(pair, m[2])
				}
				requires = append(requires, pair)
			}
		}
	}

	return
}

func writeSingle(outPath string, buildDir string, rel string, meta []byte) error {
	content, err := os.ReadFile(filepath.Join(buildDir, rel))
	if err != nil {
		return err
	}

	var buf strings.Builder
	buf.WriteString(descriptor.MetadataHeader)
	buf.WriteString(" ")
	buf.Write(meta)
	buf.WriteString("\n")
	buf.Write(content)

	return os.WriteFile(outPath, []byte(buf.String()), 0o644)
}

func writeTar(outPath string, name string, version descriptor.Version, buildDir string, paths []string, meta []byte) (err error) {
	out, err := os.Create(outPath)
	if err != nil {
		return
	}
	defer out.Close()

	tw := tar.NewWriter(out)
	prefix := fmt.Sprintf("%s-%s", name, version)

	writeEntry := func(entry string, body []byte) error {
		hdr := tar.Header{
			Name: filepath.Join(prefix, entry),
			Mode: 0o644,
			Size: int64(len(body)),
		}
		if err := tw.WriteHeader(&hdr); err != nil {
			return err
		}
		_, err := tw.Write(body)
		return err
	}

	for _, rel := range paths {
		content, rerr := os.ReadFile(filepath.Join(buildDir, rel))
		if rerr != nil {
			return rerr
		}
		if err = writeEntry(rel, content); err != nil {
			return
		}
	}

	if err = writeEntry(descriptor.MetadataEntry, meta); err != nil {
		return
	}

	return tw.Close()
}
