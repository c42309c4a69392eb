package descriptor

import (
	"strings"
	"testing"
)

func TestDescriptorShow(t *testing.T) {
	t.Parallel()

	desc := &Descriptor{
		Name:    "bar",
		Version: Version{1, 0},
		Requires: []Requirement{
			{Name: "baz", MinVersion: Version{1, 2}},
			{Name: "emacs", MinVersion: Version{24, 3}},
		},
	}

	if got := desc.Show(false, false); got != "bar-1.0" {
		t.Errorf("Show(false, false) = %q; want %q", got, "bar-1.0")
	}
	if got := desc.Show(true, false); got != "bar-1.0{baz, emacs}" {
		t.Errorf("Show(true, false) = %q; want %q", got, "bar-1.0{baz, emacs}")
	}

	// The colored rendering wraps the dependency list in terminal escapes
	// when the output supports them, so check content rather than exact
	// bytes.
	colored := desc.Show(true, true)
	for _, want := range []string{"bar-1.0", "baz", "emacs"} {
		if !strings.Contains(colored, want) {
			t.Errorf("Show(true, true) = %q; missing %q", colored, want)
		}
	}

	bare := &Descriptor{Name: "seq", Version: Version{2, 23}}
	if got := bare.Show(true, true); got != "seq-2.23" {
		t.Errorf("Show on a dependency-free descriptor = %q; want %q", got, "seq-2.23")
	}
}
