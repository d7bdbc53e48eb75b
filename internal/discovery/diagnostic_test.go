// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/invowk/testsetup/internal/issue"
)

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     bool
		wantErr  bool
	}{
		{SeverityWarning, true, false},
		{SeverityError, true, false},
		{"", false, true},
		{"invalid", false, true},
		{"WARNING", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.severity.IsValid()
			if isValid != tt.want {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.severity, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("Severity(%q).IsValid() returned no errors, want error", tt.severity)
				}
				if !errors.Is(errs[0], ErrInvalidSeverity) {
					t.Errorf("error should wrap ErrInvalidSeverity, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("Severity(%q).IsValid() returned unexpected errors: %v", tt.severity, errs)
			}
		})
	}
}

func TestDiagnosticCode_IsValid(t *testing.T) {
	t.Parallel()

	validCodes := []DiagnosticCode{
		CodeScanDirFailed, CodeEnvFrameworkUnavailable, CodeFunctionalFileSkipped, CodeGetterSkipped,
	}
	for _, code := range validCodes {
		t.Run(string(code), func(t *testing.T) {
			t.Parallel()
			isValid, errs := code.IsValid()
			if !isValid || len(errs) > 0 {
				t.Errorf("DiagnosticCode(%q).IsValid() = %v, %v; want true, nil", code, isValid, errs)
			}
		})
	}

	invalidCodes := []DiagnosticCode{"", "invalid", "SCAN_DIR_FAILED"}
	for _, code := range invalidCodes {
		t.Run("invalid_"+string(code), func(t *testing.T) {
			t.Parallel()
			isValid, errs := code.IsValid()
			if isValid {
				t.Errorf("DiagnosticCode(%q).IsValid() = true, want false", code)
			}
			if len(errs) == 0 {
				t.Fatalf("DiagnosticCode(%q).IsValid() returned no errors, want error", code)
			}
			if !errors.Is(errs[0], ErrInvalidDiagnosticCode) {
				t.Errorf("error should wrap ErrInvalidDiagnosticCode, got: %v", errs[0])
			}
		})
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := NewDiagnostic(SeverityWarning, CodeGetterSkipped, "left out functional-doctest")
	if got, want := d.String(), "warning: left out functional-doctest"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	d = NewDiagnosticWithPath(SeverityError, CodeFunctionalFileSkipped, "skipped", "/pkg/a.txt")
	if got, want := d.String(), "error: skipped (/pkg/a.txt)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCollector_ConcurrentReport(t *testing.T) {
	t.Parallel()

	var c Collector
	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			c.Report(NewDiagnostic(SeverityWarning, CodeScanDirFailed, "x"))
		})
	}
	wg.Wait()

	got := c.Diagnostics()
	if len(got) != 20 {
		t.Fatalf("len(Diagnostics()) = %d, want 20", len(got))
	}
	got[0].Message = "mutated"
	if c.Diagnostics()[0].Message == "mutated" {
		t.Error("Diagnostics() must return a copy")
	}
}

func TestLogReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := LogReporter{Logger: logger}

	cause := errors.New("permission denied")
	r.Report(NewDiagnosticWithCause(SeverityWarning, CodeScanDirFailed, "skipping directory", "/pkg/locked", cause))
	r.Report(NewDiagnosticWithPath(SeverityError, CodeEnvFrameworkUnavailable, "no framework", "/pkg/a.txt"))

	out := buf.String()
	for _, want := range []string{
		"WARN", "skipping directory", "code=scan_dir_failed", "path=/pkg/locked", "permission denied",
		"ERRO", "no framework", "code=env_framework_unavailable",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	Discard.Report(NewDiagnostic(SeverityWarning, CodeScanDirFailed, "dropped"))
}

func TestIssues(t *testing.T) {
	t.Parallel()

	diags := []Diagnostic{
		NewDiagnostic(SeverityWarning, CodeScanDirFailed, "no issue"),
		NewDiagnostic(SeverityWarning, CodeGetterSkipped, "first").WithIssue(issue.EnvFrameworkUnavailableId),
		NewDiagnostic(SeverityWarning, CodeFunctionalFileSkipped, "again").WithIssue(issue.EnvFrameworkUnavailableId),
		NewDiagnostic(SeverityError, CodeScanDirFailed, "other").WithIssue(issue.PackageNotFoundId),
	}

	var got []issue.Id
	for _, iss := range Issues(diags) {
		got = append(got, iss.Id())
	}
	want := []issue.Id{issue.EnvFrameworkUnavailableId, issue.PackageNotFoundId}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Issues() mismatch (-want +got):\n%s", diff)
	}
	if Issues(nil) != nil {
		t.Error("Issues(nil) should be nil")
	}
}

func TestTee(t *testing.T) {
	t.Parallel()

	var a, b Collector
	r := Tee(&a, Discard, &b)
	d := NewDiagnosticWithPath(SeverityWarning, CodeScanDirFailed, "cannot list", "/x")
	r.Report(d)

	for name, c := range map[string]*Collector{"first": &a, "second": &b} {
		if diff := cmp.Diff([]Diagnostic{d}, c.Diagnostics()); diff != "" {
			t.Errorf("%s reporter mismatch (-want +got):\n%s", name, diff)
		}
	}
}
