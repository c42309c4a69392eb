package descriptor

import (
	"reflect"
	"testing"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Version
	}{
		{"1.0", Version{1, 0}},
		{"v2.13.4", Version{2, 13, 4}},
		{"20240131.1512", Version{20240131, 1512}},
		{"7", Version{7}},
	}

	for _, tc := range cases {
		got, err := ParseVersion(tc.in)
		if err != nil {
			t.Errorf("ParseVersion(%q): %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseVersion(%q) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "1.x", "one", "1..2"} {
		if v, err := ParseVersion(in); err == nil {
			t.Errorf("ParseVersion(%q) = %v; want error", in, v)
		}
	}
}

func TestVersionCompare(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.1", -1},
		{"2.0", "1.9.9", 1},
		// A missing component is lower than any present one.
		{"1", "1.0", -1},
		{"1.2.0", "1.2", 1},
		{"24.3", "24.3.50", -1},
	}

	for _, tc := range cases {
		a, _ := ParseVersion(tc.a)
		b, _ := ParseVersion(tc.b)
		if got := a.Compare(b); got != tc.want {
			t.Errorf("Compare(%s, %s) = %d; want %d", tc.a, tc.b, got, tc.want)
		}
		if got := b.Compare(a); got != -tc.want {
			t.Errorf("Compare(%s, %s) = %d; want %d", tc.b, tc.a, got, -tc.want)
		}
	}
}

func TestVersionString(t *testing.T) {
	t.Parallel()

	v := Version{1, 2, 3}
	if got := v.String(); got != "1.2.3" {
		t.Errorf("String() = %q; want %q", got, "1.2.3")
	}
}
