// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MetadataHeader marks the metadata line of a single-file package. The rest
// of the line is one JSON document.
const MetadataHeader = ";; Package-Metadata:"

// MetadataEntry is the name of the metadata document inside a tar artifact.
const MetadataEntry = "metadata.json"

// headerLimit bounds how far into a single-file package the metadata header
// is searched for.
const headerLimit = 128

// ErrNotPackage reports that a file is not an installable package at all,
// as opposed to a package with broken metadata.
var ErrNotPackage = errors.New("file is not a package artifact")

// MalformedError reports a package artifact whose metadata could not be
// parsed. Callers are expected to degrade, not abort: an artifact without
// usable metadata is still installable.
type MalformedError struct {
	Path   string
	Reason error
}

func (e MalformedError) Error() string {
	return fmt.Sprintf("malformed package metadata in %s: %s", e.Path, e.Reason)
}

func (e MalformedError) Unwrap() error {
	return e.Reason
}

// Extract reads an artifact's metadata and normalizes it into a Descriptor.
// The kind is taken from the file extension; unknown extensions yield
// ErrNotPackage, unreadable or unparsable metadata yields a MalformedError.
func Extract(path string) (desc *Descriptor, err error) {
	kind := KindForPath(path)

	var data []byte
	switch kind {
	case KindSingle:
		data, err = readHeaderMetadata(path)
	case KindTar:
		data, err = readTarMetadata(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotPackage, path)
	}
	if err != nil {
		return nil, MalformedError{Path: path, Reason: err}
	}

	if desc, err = DecodeMetadata(data, kind); err != nil {
		return nil, MalformedError{Path: path, Reason: err}
	}

	return
}

func readHeaderMetadata(path string) (data []byte, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for lineNum := 0; scanner.Scan() && lineNum < headerLimit; lineNum++ {
		line := scanner.Text()
		if strings.HasPrefix(line, MetadataHeader) {
			return []byte(strings.TrimSpace(line[len(MetadataHeader):])), nil
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	err = fmt.Errorf("no %q header found", MetadataHeader)
	return
}

func readTarMetadata(path string) (data []byte, err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	tr := tar.NewReader(file)
	for {
		hdr, rerr := tr.Next()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}

		if hdr.Typeflag != tar.TypeReg || filepath.Base(hdr.Name) != MetadataEntry {
			continue
		}

		return io.ReadAll(tr)
	}

	err = fmt.Errorf("no %s entry found", MetadataEntry)
	return
}
