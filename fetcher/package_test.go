// SPDX-FileCopyrightText: Copyright © 2023-2026 srcget developers
//
// SPDX-License-Identifier: MPL-2.0

package fetcher

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/GZGavinZhao/srcget/descriptor"
)

const fooSource = `;;; foo.el --- Frobnicate buffers -*- lexical-binding: t -*-

;; Package-Requires: ((emacs "27.1") (dash "2.19") (seq))

;;; Code:
(provide 'foo)
;;; foo.el ends here
`

func writeTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestExpandFilesDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"foo.el":          fooSource,
		"lisp/foo-ext.el": "(provide 'foo-ext)\n",
		"README.md":       "readme\n",
		".git/config":     "[core]\n",
	})

	paths, err := expandFiles(dir, nil)
	if err != nil {
		t.Fatalf("expandFiles failed: %s", err)
	}

	want := []string{"foo.el", "lisp/foo-ext.el"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("expandFiles = %v; want %v", paths, want)
	}
}

func TestExpandFilesPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"foo.el":          fooSource,
		"lisp/foo-ext.el": "(provide 'foo-ext)\n",
		"foo.texi":        "docs\n",
	})

	paths, err := expandFiles(dir, []string{"lisp/*.el", "*.texi"})
	if err != nil {
		t.Fatalf("expandFiles failed: %s", err)
	}

	want := []string{"foo.texi", "lisp/foo-ext.el"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("expandFiles = %v; want %v", paths, want)
	}
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"foo.el": fooSource})

	summary, requires := parseHeaders(filepath.Join(dir, "foo.el"))
	if summary != "Frobnicate buffers" {
		t.Errorf("summary = %q; want %q", summary, "Frobnicate buffers")
	}

	want := [][]string{{"emacs", "27.1"}, {"dash", "2.19"}, {"seq"}}
	if !reflect.DeepEqual(requires, want) {
		t.Errorf("requires = %v; want %v", requires, want)
	}
}

func TestPackageSingle(t *testing.T) {
	t.Parallel()

	buildDir := t.TempDir()
	outDir := t.TempDir()
	writeTree(t, buildDir, map[string]string{"foo.el": fooSource})

	version, err := descriptor.ParseVersion("1.2")
	if err != nil {
		t.Fatal(err)
	}

	svc := GitService{}
	kind, err := svc.Package("foo", version, nil, buildDir, outDir)
	if err != nil {
		t.Fatalf("Package failed: %s", err)
	}
	if kind != descriptor.KindSingle {
		t.Fatalf("kind = %s; want %s", kind, descriptor.KindSingle)
	}

	desc, err := descriptor.Extract(filepath.Join(outDir, "foo-1.2.el"))
	if err != nil {
		t.Fatalf("Extract failed: %s", err)
	}
	if desc.Name != "foo" || desc.Version.String() != "1.2" {
		t.Errorf("descriptor = %s %s; want foo 1.2", desc.Name, desc.Version)
	}
	if desc.Summary != "Frobnicate buffers" {
		t.Errorf("summary = %q; want %q", desc.Summary, "Frobnicate buffers")
	}

	var names []string
	for _, req := range desc.Requires {
		names = append(names, req.Name)
	}
	want := []string{"emacs", "dash", "seq"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("requires = %v; want %v", names, want)
	}
}

func TestPackageTar(t *testing.T) {
	t.Parallel()

	buildDir := t.TempDir()
	outDir := t.TempDir()
	writeTree(t, buildDir, map[string]string{
		"foo.el":      fooSource,
		"foo-core.el": "(provide 'foo-core)\n",
	})

	version, err := descriptor.ParseVersion("2.0")
	if err != nil {
		t.Fatal(err)
	}

	svc := GitService{}
	kind, err := svc.Package("foo", version, nil, buildDir, outDir)
	if err != nil {
		t.Fatalf("Package failed: %s", err)
	}
	if kind != descriptor.KindTar {
		t.Fatalf("kind = %s; want %s", kind, descriptor.KindTar)
	}

	desc, err := descriptor.Extract(filepath.Join(outDir, "foo-2.0.tar"))
	if err != nil {
		t.Fatalf("Extract failed: %s", err)
	}
	if desc.Name != "foo" || desc.Kind != descriptor.KindTar {
		t.Errorf("descriptor = %s (%s); want foo (tar)", desc.Name, desc.Kind)
	}
}

func TestPackageNoFiles(t *testing.T) {
	t.Parallel()

	version, _ := descriptor.ParseVersion("1.0")
	svc := GitService{}
	if _, err := svc.Package("foo", version, nil, t.TempDir(), t.TempDir()); err == nil {
		t.Error("Package on an empty checkout should fail")
	}
}

func TestPickHighestTag(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tags []string
		want string
		ok   bool
	}{
		{[]string{"v1.0", "v1.10", "v1.2"}, "1.10", true},
		{[]string{"2.3", "experimental", "2.3.1"}, "2.3.1", true},
		{[]string{"nightly", "snapshot"}, "", false},
		{nil, "", false},
	}

	for _, c := range cases {
		got, ok := pickHighestTag(c.tags)
		if got != c.want || ok != c.ok {
			t.Errorf("pickHighestTag(%v) = %q, %v; want %q, %v", c.tags, got, ok, c.want, c.ok)
		}
	}
}
