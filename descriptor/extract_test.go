package descriptor

import (
	"archive/tar"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const modernDoc = `{"name":"bar","version":"1.0","summary":"A bar package","requires":[["baz","1.2"],["emacs","24.3"]]}`

// The same package expressed in the legacy positional layout:
// [name, requires, summary, version].
const legacyDoc = `["bar",[["baz","1.2"],["emacs","24.3"]],"A bar package","1.0"]`

func writeSingleFile(t *testing.T, dir, name, doc string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	content := ";;; bar.el --- A bar package\n" +
		MetadataHeader + " " + doc + "\n" +
		"(provide 'bar)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func writeTarArtifact(t *testing.T, dir, name, doc string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer file.Close()

	tw := tar.NewWriter(file)
	entries := map[string]string{
		"bar-1.0/bar.el":        "(provide 'bar)\n",
		"bar-1.0/metadata.json": doc,
	}
	for entry, body := range entries {
		if err := tw.WriteHeader(&tar.Header{
			Name: entry,
			Mode: 0o644,
			Size: int64(len(body)),
		}); err != nil {
			t.Fatalf("WriteHeader: %v", err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	return path
}

func TestExtractSingleFile(t *testing.T) {
	t.Parallel()

	path := writeSingleFile(t, t.TempDir(), "bar-1.0.el", modernDoc)
	desc, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if desc.Name != "bar" {
		t.Errorf("Name = %q; want %q", desc.Name, "bar")
	}
	if desc.Kind != KindSingle {
		t.Errorf("Kind = %v; want KindSingle", desc.Kind)
	}
	if !reflect.DeepEqual(desc.Version, Version{1, 0}) {
		t.Errorf("Version = %v; want 1.0", desc.Version)
	}
	want := []Requirement{
		{Name: "baz", MinVersion: Version{1, 2}},
		{Name: "emacs", MinVersion: Version{24, 3}},
	}
	if !reflect.DeepEqual(desc.Requires, want) {
		t.Errorf("Requires = %v; want %v", desc.Requires, want)
	}
}

func TestExtractTar(t *testing.T) {
	t.Parallel()

	path := writeTarArtifact(t, t.TempDir(), "bar-1.0.tar", modernDoc)
	desc, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if desc.Kind != KindTar {
		t.Errorf("Kind = %v; want KindTar", desc.Kind)
	}
	if desc.Name != "bar" || len(desc.Requires) != 2 {
		t.Errorf("unexpected descriptor: %+v", desc)
	}
}

// A legacy positional document and the equivalent modern named document must
// normalize to identical descriptors.
func TestExtractLegacyModernRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	modernPath := writeSingleFile(t, dir, "modern-1.0.el", modernDoc)
	legacyPath := writeSingleFile(t, dir, "legacy-1.0.el", legacyDoc)

	modern, err := Extract(modernPath)
	if err != nil {
		t.Fatalf("Extract(modern): %v", err)
	}
	legacy, err := Extract(legacyPath)
	if err != nil {
		t.Fatalf("Extract(legacy): %v", err)
	}

	if !reflect.DeepEqual(modern, legacy) {
		t.Errorf("descriptors differ:\nmodern: %+v\nlegacy: %+v", modern, legacy)
	}
}

func TestExtractUnknownExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bar-1.0.zip")
	if err := os.WriteFile(path, []byte("nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Extract(path)
	if !errors.Is(err, ErrNotPackage) {
		t.Errorf("err = %v; want ErrNotPackage", err)
	}
}

func TestExtractMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cases := map[string]string{
		"broken-json": `{"name":"bar","version":`,
		"no-name":     `{"version":"1.0"}`,
		"bad-version": `{"name":"bar","version":"one.two"}`,
		"short-array": `["bar"]`,
	}

	for label, doc := range cases {
		path := writeSingleFile(t, dir, label+".el", doc)
		_, err := Extract(path)
		var malformed MalformedError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: err = %v; want MalformedError", label, err)
		}
	}

	// A single-file package without any metadata header at all.
	bare := filepath.Join(dir, "bare-1.0.el")
	if err := os.WriteFile(bare, []byte("(provide 'bare)\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	var malformed MalformedError
	if _, err := Extract(bare); !errors.As(err, &malformed) {
		t.Errorf("bare: err = %v; want MalformedError", err)
	}
}

func TestExtractDefaultSummary(t *testing.T) {
	t.Parallel()

	doc := `["bar",[],"","1.0"]`
	path := writeSingleFile(t, t.TempDir(), "bar-1.0.el", doc)

	desc, err := Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if desc.Summary != DefaultSummary {
		t.Errorf("Summary = %q; want %q", desc.Summary, DefaultSummary)
	}
}
