// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/invowk/testsetup/internal/issue"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"
)

const (
	// CodeScanDirFailed is emitted when a nested directory cannot be listed.
	CodeScanDirFailed DiagnosticCode = "scan_dir_failed"
	// CodeEnvFrameworkUnavailable is emitted when a file declares an environment
	// definition layer but no environment framework is available.
	CodeEnvFrameworkUnavailable DiagnosticCode = "env_framework_unavailable"
	// CodeFunctionalFileSkipped is emitted when a functional test file is skipped
	// because the environment framework is unavailable.
	CodeFunctionalFileSkipped DiagnosticCode = "functional_file_skipped"
	// CodeGetterSkipped is emitted when a collector leaves out a getter kind.
	CodeGetterSkipped DiagnosticCode = "getter_skipped"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")

	knownCodes = []DiagnosticCode{
		CodeScanDirFailed,
		CodeEnvFrameworkUnavailable,
		CodeFunctionalFileSkipped,
		CodeGetterSkipped,
	}
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic is a structured, non-fatal discovery problem that is handed to a
	// Reporter instead of aborting the scan.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "scan_dir_failed").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
		// Issue links the diagnostic to a catalog entry (optional, zero for none).
		Issue issue.Id
	}

	// Reporter receives diagnostics as they are produced.
	Reporter interface {
		Report(d Diagnostic)
	}

	// Collector is a Reporter that keeps every diagnostic in arrival order.
	// It is safe for concurrent use.
	Collector struct {
		mu          sync.Mutex
		diagnostics []Diagnostic
	}

	// LogReporter writes diagnostics through a charmbracelet logger.
	LogReporter struct {
		Logger *log.Logger
	}

	// InvalidSeverityError is returned when a Severity value is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode value is not recognized.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}
)

// NewDiagnostic creates a diagnostic without path or cause.
func NewDiagnostic(severity Severity, code DiagnosticCode, message string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message}
}

// NewDiagnosticWithPath creates a diagnostic associated with a file path.
func NewDiagnosticWithPath(severity Severity, code DiagnosticCode, message, path string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path}
}

// NewDiagnosticWithCause creates a diagnostic carrying the underlying error.
func NewDiagnosticWithCause(severity Severity, code DiagnosticCode, message, path string, cause error) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path, Cause: cause}
}

// WithIssue returns a copy of d linked to the catalog issue id.
func (d Diagnostic) WithIssue(id issue.Id) Diagnostic {
	d.Issue = id
	return d
}

// Issues returns the distinct catalog issues the diagnostics link to, in
// first-seen order.
func Issues(diags []Diagnostic) []*issue.Issue {
	var (
		seen   []issue.Id
		issues []*issue.Issue
	)
	for _, d := range diags {
		if d.Issue == 0 || slices.Contains(seen, d.Issue) {
			continue
		}
		seen = append(seen, d.Issue)
		if iss := issue.Get(d.Issue); iss != nil {
			issues = append(issues, iss)
		}
	}
	return issues
}

// String returns the textual form of the diagnostic, suitable for a single
// line of output.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Path)
}

// IsValid returns whether the Severity is one of the defined levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether the DiagnosticCode is one of the defined codes.
func (c DiagnosticCode) IsValid() (bool, []error) {
	if slices.Contains(knownCodes, c) {
		return true, nil
	}
	return false, []error{&InvalidDiagnosticCodeError{Value: c}}
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q (expected warning or error)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Error implements the error interface for InvalidDiagnosticCodeError.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }

// Report stores d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diagnostics)
}

// Report logs d at warn or error level with its code and path as key-values.
func (r LogReporter) Report(d Diagnostic) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	kv := []any{"code", d.Code}
	if d.Path != "" {
		kv = append(kv, "path", d.Path)
	}
	if d.Cause != nil {
		kv = append(kv, "err", d.Cause)
	}
	if d.Severity == SeverityError {
		logger.Error(d.Message, kv...)
		return
	}
	logger.Warn(d.Message, kv...)
}

// Tee returns a Reporter that hands every diagnostic to each of reporters.
func Tee(reporters ...Reporter) Reporter {
	return teeReporter(slices.Clone(reporters))
}

type teeReporter []Reporter

func (t teeReporter) Report(d Diagnostic) {
	for _, r := range t {
		r.Report(d)
	}
}

// Discard is a Reporter that drops every diagnostic.
var Discard Reporter = discardReporter{}

type discardReporter struct{}

func (discardReporter) Report(Diagnostic) {}
