// SPDX-License-Identifier: MPL-2.0

package suite

import (
	"regexp"
	"strings"
)

const ellipsisMarker = "..."

type (
	// Checker compares the expected and actual output of one example.
	Checker interface {
		CheckOutput(want, got string, flags OptionFlag) bool
	}

	// Rewrite is one normalization applied by a RenormalizingChecker.
	Rewrite struct {
		Pattern     *regexp.Regexp
		Replacement string
	}

	// RenormalizingChecker rewrites both outputs with its patterns before the
	// comparison, so platform-dependent text can be matched portably.
	RenormalizingChecker struct {
		Rewrites []Rewrite
	}

	// ExactChecker compares outputs honoring only the option flags.
	ExactChecker struct{}
)

// NewRenormalizingChecker builds a checker from pattern/replacement pairs.
// It panics if a pattern does not compile; patterns are expected to be
// program constants.
func NewRenormalizingChecker(pairs ...string) *RenormalizingChecker {
	if len(pairs)%2 != 0 {
		panic("suite: NewRenormalizingChecker needs pattern/replacement pairs")
	}
	c := &RenormalizingChecker{}
	for i := 0; i < len(pairs); i += 2 {
		c.Rewrites = append(c.Rewrites, Rewrite{
			Pattern:     regexp.MustCompile(pairs[i]),
			Replacement: pairs[i+1],
		})
	}
	return c
}

// CheckOutput implements Checker.
func (c *RenormalizingChecker) CheckOutput(want, got string, flags OptionFlag) bool {
	for _, rw := range c.Rewrites {
		want = rw.Pattern.ReplaceAllString(want, rw.Replacement)
		got = rw.Pattern.ReplaceAllString(got, rw.Replacement)
	}
	return compareOutput(want, got, flags)
}

// CheckOutput implements Checker.
func (ExactChecker) CheckOutput(want, got string, flags OptionFlag) bool {
	return compareOutput(want, got, flags)
}

func compareOutput(want, got string, flags OptionFlag) bool {
	if want == got {
		return true
	}
	if !flags.Has(FlagDontAcceptTrueForOne) {
		if (got == "True\n" && want == "1\n") || (got == "False\n" && want == "0\n") {
			return true
		}
	}
	if flags.Has(FlagNormalizeWhitespace) {
		want = strings.Join(strings.Fields(want), " ")
		got = strings.Join(strings.Fields(got), " ")
		if want == got {
			return true
		}
	}
	if flags.Has(FlagEllipsis) {
		return ellipsisMatch(want, got)
	}
	return false
}

// ellipsisMatch reports whether got matches want, where every "..." in want
// stands for any (possibly empty) substring.
func ellipsisMatch(want, got string) bool {
	if !strings.Contains(want, ellipsisMarker) {
		return want == got
	}
	pieces := strings.Split(want, ellipsisMarker)
	first, last := pieces[0], pieces[len(pieces)-1]
	if !strings.HasPrefix(got, first) {
		return false
	}
	got = got[len(first):]
	if !strings.HasSuffix(got, last) {
		return false
	}
	got = got[:len(got)-len(last)]
	for _, piece := range pieces[1 : len(pieces)-1] {
		idx := strings.Index(got, piece)
		if idx < 0 {
			return false
		}
		got = got[idx+len(piece):]
	}
	return true
}
