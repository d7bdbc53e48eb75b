// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/testsetup/internal/marker"
)

// Predicate decides whether the file at an absolute path is kept by Scan.
type Predicate func(path string) bool

// HasExtension accepts files whose extension (compared case-insensitively)
// is one of exts. Extensions include the leading dot, e.g. ".txt".
func HasExtension(exts ...string) Predicate {
	allowed := make([]string, len(exts))
	for i, ext := range exts {
		allowed[i] = strings.ToLower(ext)
	}
	return func(path string) bool {
		return slices.Contains(allowed, strings.ToLower(filepath.Ext(path)))
	}
}

// HasMarker accepts files carrying tag, whatever its value.
func HasMarker(p *marker.Parser, tag string) Predicate {
	return func(path string) bool {
		_, ok := p.FindInFile(tag, path)
		return ok
	}
}

// MarkerEquals accepts files whose first tag marker has value, compared
// case-insensitively.
func MarkerEquals(p *marker.Parser, tag, value string) Predicate {
	return func(path string) bool {
		got, ok := p.FindInFile(tag, path)
		return ok && strings.EqualFold(got, value)
	}
}

// All accepts a file only when every predicate does. Evaluation stops at the
// first rejection, so cheap checks such as HasExtension belong first.
func All(preds ...Predicate) Predicate {
	return func(path string) bool {
		for _, pred := range preds {
			if !pred(path) {
				return false
			}
		}
		return true
	}
}

// Any accepts a file when at least one predicate does.
func Any(preds ...Predicate) Predicate {
	return func(path string) bool {
		for _, pred := range preds {
			if pred(path) {
				return true
			}
		}
		return false
	}
}

// IsHiddenDir reports whether a directory basename marks it as hidden
// (e.g. ".git", ".svn").
func IsHiddenDir(name string) bool {
	return strings.HasPrefix(name, ".")
}
