// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"testing"

	"github.com/invowk/testsetup/internal/marker"
	"github.com/invowk/testsetup/internal/testutil"
)

func TestHasExtension(t *testing.T) {
	t.Parallel()

	pred := HasExtension(".txt", ".RST")
	tests := []struct {
		path string
		want bool
	}{
		{"/pkg/a.txt", true},
		{"/pkg/a.TXT", true},
		{"/pkg/a.rst", true},
		{"/pkg/a.py", false},
		{"/pkg/txt", false},
		{"/pkg/a.txt.bak", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := pred(tt.path); got != tt.want {
				t.Errorf("HasExtension(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestMarkerPredicates(t *testing.T) {
	t.Parallel()

	root := testutil.WriteCave(t)
	p := marker.NewParser()

	tests := []struct {
		name string
		pred Predicate
		file string
		want bool
	}{
		{"has doctest", HasMarker(p, "doctest"), "doc.rst", true},
		{"no doctest", HasMarker(p, "doctest"), "file1.rst", false},
		{"unit layer", MarkerEquals(p, "test-layer", "unit"), "file1.rst", true},
		{"unit layer case", MarkerEquals(p, "test-layer", "UNIT"), "file1.rst", true},
		{"functional is not unit", MarkerEquals(p, "test-layer", "unit"), "file1.txt", false},
		{"missing file", HasMarker(p, "doctest"), "missing.rst", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.pred(filepath.Join(root, tt.file)); got != tt.want {
				t.Errorf("predicate(%s) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestCombinators(t *testing.T) {
	t.Parallel()

	yes := func(string) bool { return true }
	no := func(string) bool { return false }
	calls := 0
	counting := func(string) bool { calls++; return true }

	if !All()("x") {
		t.Error("All() with no predicates should accept")
	}
	if All(no, counting)("x") {
		t.Error("All(no, ...) should reject")
	}
	if calls != 0 {
		t.Errorf("All should stop at first rejection, later predicate ran %d times", calls)
	}
	if !All(yes, yes)("x") {
		t.Error("All(yes, yes) should accept")
	}
	if Any()("x") {
		t.Error("Any() with no predicates should reject")
	}
	if !Any(no, yes)("x") {
		t.Error("Any(no, yes) should accept")
	}
}

func TestIsHiddenDir(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]bool{".git": true, ".": true, "src": false, "a.b": false} {
		if got := IsHiddenDir(name); got != want {
			t.Errorf("IsHiddenDir(%q) = %v, want %v", name, got, want)
		}
	}
}
