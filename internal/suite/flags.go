// SPDX-License-Identifier: MPL-2.0

package suite

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"
)

// Option flags understood by doctest-style execution engines. Names match the
// configuration spelling, e.g. "ELLIPSIS" or "normalize_whitespace".
const (
	FlagDontAcceptTrueForOne OptionFlag = 1 << iota
	FlagDontAcceptBlankline
	FlagNormalizeWhitespace
	FlagEllipsis
	FlagSkip
	FlagIgnoreExceptionDetail
	FlagReportUDiff
	FlagReportCDiff
	FlagReportNDiff
	FlagReportOnlyFirstFailure

	// DefaultDocFlags is applied to documentation units unless configured.
	DefaultDocFlags = FlagEllipsis | FlagNormalizeWhitespace | FlagReportNDiff

	flagCount = 10
)

// ErrUnknownOptionFlag is the sentinel error wrapped by UnknownOptionFlagError.
var ErrUnknownOptionFlag = errors.New("unknown option flag")

var flagNames = [flagCount]string{
	"DONT_ACCEPT_TRUE_FOR_1",
	"DONT_ACCEPT_BLANKLINE",
	"NORMALIZE_WHITESPACE",
	"ELLIPSIS",
	"SKIP",
	"IGNORE_EXCEPTION_DETAIL",
	"REPORT_UDIFF",
	"REPORT_CDIFF",
	"REPORT_NDIFF",
	"REPORT_ONLY_FIRST_FAILURE",
}

type (
	// OptionFlag is a bit set of execution flags.
	OptionFlag uint32

	// UnknownOptionFlagError is returned when a flag name is not recognized.
	UnknownOptionFlagError struct {
		Name string
	}
)

// ParseOptionFlags combines flag names (case-insensitive, "|" separated
// names are accepted inside one argument) into an OptionFlag.
func ParseOptionFlags(names ...string) (OptionFlag, error) {
	var f OptionFlag
	for _, arg := range names {
		for name := range strings.SplitSeq(arg, "|") {
			name = strings.ToUpper(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			flag, ok := lookupFlag(name)
			if !ok {
				return 0, &UnknownOptionFlagError{Name: name}
			}
			f |= flag
		}
	}
	return f, nil
}

func lookupFlag(name string) (OptionFlag, bool) {
	for i, n := range flagNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}

// Has reports whether every bit of flag is set in f.
func (f OptionFlag) Has(flag OptionFlag) bool { return f&flag == flag }

// Names returns the names of the set flags in declaration order.
func (f OptionFlag) Names() []string {
	names := make([]string, 0, bits.OnesCount32(uint32(f)))
	for i, n := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return names
}

// String joins the set flag names with "|"; the empty set is "0".
func (f OptionFlag) String() string {
	if f == 0 {
		return "0"
	}
	return strings.Join(f.Names(), "|")
}

// Error implements the error interface for UnknownOptionFlagError.
func (e *UnknownOptionFlagError) Error() string {
	return fmt.Sprintf("unknown option flag %q", e.Name)
}

// Unwrap returns ErrUnknownOptionFlag for errors.Is() compatibility.
func (e *UnknownOptionFlagError) Unwrap() error { return ErrUnknownOptionFlag }
