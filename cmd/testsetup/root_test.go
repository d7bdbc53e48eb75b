// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/invowk/testsetup/internal/config"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/testutil"
)

// staticFrameworks never probes a container provider.
func staticFrameworks(mode envlayer.Mode, _ *log.Logger) (envlayer.Framework, error) {
	if valid, errs := mode.IsValid(); !valid {
		return nil, errs[0]
	}
	return envlayer.Static(mode == envlayer.ModeAlways), nil
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := NewApp(Dependencies{Frameworks: staticFrameworks, Stdout: &out, Stderr: &errOut})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestListCave(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteCave(t)

	tests := []struct {
		name      string
		framework string
		want      []string
		notWant   []string
	}{
		{
			name:      "framework unavailable",
			framework: "none",
			want:      []string{"unit-doctest (1)", "file1.rst", "teardown=testsetup.cleanup", "module (1)", "file1.py", "doctest (1)", "doc.rst"},
			notWant:   []string{"functional-doctest", "hidden.rst", "notatest"},
		},
		{
			name:      "framework available",
			framework: "always",
			want:      []string{"functional-doctest (2)", "file1.txt", "subdir/subdirfile.txt", "layer=", "(5 tests)"},
			notWant:   []string{"hidden.rst", "notatest"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := run(t, "list", dir, "--framework", tt.framework)
			if err != nil {
				t.Fatalf("list error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(stdout, s) {
					t.Errorf("output missing %q:\n%s", s, stdout)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(stdout, s) {
					t.Errorf("output unexpectedly contains %q:\n%s", s, stdout)
				}
			}
		})
	}
}

func TestListYAML(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteCave(t)
	stdout, _, err := run(t, "list", dir, "--framework", "none", "--format", "yaml", "--set", "uencoding=latin-1")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}

	var view nodeView
	if err := yaml.Unmarshal([]byte(stdout), &view); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, stdout)
	}
	if view.Name != filepath.Base(dir) {
		t.Errorf("root name = %q, want %q", view.Name, filepath.Base(dir))
	}
	if len(view.Children) != 3 {
		t.Fatalf("got %d kinds, want 3:\n%s", len(view.Children), stdout)
	}
	unit := view.Children[0]
	if unit.Name != "unit-doctest" || len(unit.Units) != 1 {
		t.Fatalf("first kind = %+v", unit)
	}
	if unit.Units[0].Encoding != "latin-1" {
		t.Errorf("unit encoding = %q, want latin-1", unit.Units[0].Encoding)
	}
	if doc := view.Children[2]; doc.Units[0].Encoding != "utf-8" {
		t.Errorf("doctest encoding = %q, want utf-8", doc.Units[0].Encoding)
	}
}

func TestListUsesConfigDefaults(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteCave(t)
	testutil.MustWriteFile(t, filepath.Join(dir, config.FileName), []byte(`framework: "none"
collector: {
	dextensions: [".rst", ".txt"]
}
`))
	testutil.MustWriteFile(t, filepath.Join(dir, "extra.txt"), []byte(":doctest:\n"))

	stdout, _, err := run(t, "list", dir)
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(stdout, "doctest (2)") || !strings.Contains(stdout, "extra.txt") {
		t.Errorf("config defaults not applied:\n%s", stdout)
	}
	if strings.Contains(stdout, "functional-doctest") {
		t.Errorf("framework from config not applied:\n%s", stdout)
	}
}

func TestListRequire(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"a.txt": ":doctest:\n>>> 1\n",
		"b.txt": ":doctest:\nprose only\n",
	})

	stdout, _, err := run(t, "list", dir, "--framework", "none", "--require", ">>> ")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if !strings.Contains(stdout, "a.txt") || strings.Contains(stdout, "b.txt") {
		t.Errorf("require filter not applied:\n%s", stdout)
	}
}

func TestListErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"b.txt": ":doctest:\n:layer: nowhere.Missing\n",
	})

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing layer", args: []string{"list", dir, "--framework", "none"}, wantErr: "b.txt"},
		{name: "missing package", args: []string{"list", filepath.Join(dir, "absent")}, wantErr: "resolve package"},
		{name: "bad framework", args: []string{"list", dir, "--framework", "sometimes"}, wantErr: "environment framework"},
		{name: "bad assignment", args: []string{"list", dir, "--framework", "none", "--set", "novalue"}, wantErr: "novalue"},
		{name: "bad format", args: []string{"list", dir, "--format", "json"}, wantErr: "unknown format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, stderr, err := run(t, tt.args...)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != 1 {
				t.Fatalf("error = %v, want ExitError with code 1", err)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantErr, stderr)
			}
		})
	}
}

func TestMarkers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "doc.txt")
	testutil.MustWriteFile(t, path, []byte("Title\n.. :doctest:\n:Test-Layer: unit\n:setup: testsetup.noop\n"))

	stdout, _, err := run(t, "markers", path)
	if err != nil {
		t.Fatalf("markers error = %v", err)
	}
	for _, want := range []string{"2\t:doctest:", "3\t:test-layer:\tunit", "4\t:setup:\ttestsetup.noop"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	rendered, _, err := run(t, "markers", path, "--render")
	if err != nil {
		t.Fatalf("markers --render error = %v", err)
	}
	if !strings.Contains(rendered, "test-layer") {
		t.Errorf("rendered output missing tag:\n%s", rendered)
	}
}

func TestMarkersMissingFile(t *testing.T) {
	t.Parallel()

	_, stderr, err := run(t, "markers", filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("markers error = nil, want error")
	}
	if !strings.Contains(stderr, "absent.txt") {
		t.Errorf("stderr missing file name:\n%s", stderr)
	}
}

func TestConfigShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, config.FileName), []byte(`framework: "none"
collector: {
	encoding: "latin-1"
}
`))

	tests := []struct {
		format string
		want   []string
	}{
		{format: "text", want: []string{"Current Configuration", config.FileName, "framework: none", "encoding: latin-1"}},
		{format: "toml", want: []string{"framework = 'none'", "encoding = 'latin-1'"}},
		{format: "yaml", want: []string{"framework: none", "encoding: latin-1"}},
		{format: "cue", want: []string{`framework: "none"`, `encoding: "latin-1"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := run(t, "config", "show", dir, "--format", tt.format)
			if err != nil {
				t.Fatalf("config show error = %v", err)
			}
			for _, s := range tt.want {
				if !strings.Contains(stdout, s) {
					t.Errorf("output missing %q:\n%s", s, stdout)
				}
			}
		})
	}
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, _, err := run(t, "config", "init", dir); err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if _, _, err := run(t, "config", "init", dir); err == nil {
		t.Error("second config init succeeded, want already exists error")
	}
	if _, _, err := run(t, "config", "init", dir, "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{PackageDir: dir})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if cfg.Framework != envlayer.ModeAuto {
		t.Errorf("Framework = %q, want auto", cfg.Framework)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain failure")
	if got := formatErrorForDisplay(plain, false); got != "plain failure" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}
}

func TestListVerboseRendersDiagnosticIssues(t *testing.T) {
	t.Parallel()

	dir := testutil.WriteCave(t)

	_, quiet, err := run(t, "list", dir, "--framework", "none")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	if strings.Contains(quiet, "Things you can try") {
		t.Errorf("issue rendered without --verbose:\n%s", quiet)
	}

	_, stderr, err := run(t, "list", dir, "--framework", "none", "--verbose")
	if err != nil {
		t.Fatalf("list --verbose error = %v", err)
	}
	if !strings.Contains(stderr, "Things you can try") {
		t.Errorf("framework issue not rendered:\n%s", stderr)
	}
	if n := strings.Count(stderr, "Things you can try"); n != 1 {
		t.Errorf("issue rendered %d times, want once", n)
	}
}
