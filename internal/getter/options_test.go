// SPDX-License-Identifier: MPL-2.0

package getter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/testsetup/internal/suite"
)

func TestRecognizedKeys(t *testing.T) {
	t.Parallel()

	want := []string{
		"allow_teardown", "checker", "default_env_file", "encoding", "ext", "extensions",
		"globs", "optionflags", "options", "setup", "teardown",
	}
	if diff := cmp.Diff(want, RecognizedKeys()); diff != "" {
		t.Errorf("RecognizedKeys() mismatch (-want +got):\n%s", diff)
	}
	if ModuleTest.Recognizes(KeyDefaultEnvFile) {
		t.Error("module kind should not recognize default_env_file")
	}
	if !FunctionalDocTest.Recognizes(KeyDefaultEnvFile) {
		t.Error("functional kind should recognize default_env_file")
	}
	if !DocTest.Recognizes(KeyExt) || DocTest.Recognizes("bar") {
		t.Error("doctest kind should recognize ext and not bar")
	}
}

func TestMergeOptions_Precedence(t *testing.T) {
	t.Parallel()

	got := MergeOptions(
		map[string]any{"encoding": "utf-8", "setup": "engine"},
		map[string]any{"extensions": []string{".txt"}, "setup": "kind"},
		map[string]any{"ext": []string{".foo"}},
	)
	want := map[string]any{
		"encoding":   "utf-8",
		"setup":      "kind",
		"extensions": []string{".foo"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MergeOptions() mismatch (-want +got):\n%s", diff)
	}

	both := MergeOptions(map[string]any{"ext": []string{".a"}, "extensions": []string{".b"}})
	if diff := cmp.Diff(map[string]any{"extensions": []string{".b"}}, both); diff != "" {
		t.Errorf("explicit extensions should win over ext in the same layer (-want +got):\n%s", diff)
	}
}

func TestDecodeOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     map[string]any
		want    Options
		wantErr string
	}{
		{
			name: "typed values",
			cfg: map[string]any{
				"extensions":     []string{".txt"},
				"optionflags":    suite.FlagEllipsis,
				"allow_teardown": true,
				"globs":          map[string]any{"x": 1},
				"unknown":        "ignored",
			},
			want: Options{
				Extensions:    []string{".txt"},
				OptionFlags:   suite.FlagEllipsis,
				AllowTeardown: true,
				Globs:         map[string]any{"x": 1},
			},
		},
		{
			name: "strings from the command line",
			cfg: map[string]any{
				"extensions":     ".foo, .bar",
				"optionflags":    "ELLIPSIS|REPORT_NDIFF",
				"allow_teardown": "true",
			},
			want: Options{
				Extensions:    []string{".foo", ".bar"},
				OptionFlags:   suite.FlagEllipsis | suite.FlagReportNDiff,
				AllowTeardown: true,
			},
		},
		{
			name: "flag list and integer",
			cfg:  map[string]any{"optionflags": []any{"ellipsis", "skip"}},
			want: Options{OptionFlags: suite.FlagEllipsis | suite.FlagSkip},
		},
		{
			name: "integer flags",
			cfg:  map[string]any{"optionflags": 8},
			want: Options{OptionFlags: suite.FlagEllipsis},
		},
		{
			name:    "unknown flag",
			cfg:     map[string]any{"optionflags": "FAST"},
			wantErr: `unknown option flag "FAST"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeOptions(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("DecodeOptions() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeOptions() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeOptions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDescriptor_Defaults(t *testing.T) {
	t.Parallel()

	d := UnitDocTest.Defaults()
	d[KeyExtensions] = []string{".changed"}
	d[KeyTeardown] = "changed"

	again := UnitDocTest.Defaults()
	if diff := cmp.Diff([]string{".txt", ".rst"}, again[KeyExtensions]); diff != "" {
		t.Errorf("Defaults() must return a copy (-want +got):\n%s", diff)
	}
	if again[KeyTeardown] != "testsetup.cleanup" {
		t.Errorf("unit teardown default = %v", again[KeyTeardown])
	}
	if got := ModuleTest.Defaults(); len(got) != 1 {
		t.Errorf("module defaults = %v, want only extensions", got)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, d := range Descriptors() {
		got, ok := Lookup(d.Kind)
		if !ok || got.Prefix != d.Prefix {
			t.Errorf("Lookup(%q) = %v, %v", d.Kind, got.Kind, ok)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}

	seen := map[byte]bool{}
	for _, d := range Descriptors() {
		if seen[d.Prefix] {
			t.Errorf("duplicate prefix %c", d.Prefix)
		}
		seen[d.Prefix] = true
	}
}
