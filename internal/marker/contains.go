// SPDX-License-Identifier: MPL-2.0

package marker

import (
	"fmt"
	"regexp"
	"strings"
)

// ContainsAll reports whether every pattern matches at the start of at least
// one line of the file at path. Lines are matched as read, without trimming.
// Read errors count as "no match".
func (p *Parser) ContainsAll(path string, patterns ...string) (bool, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return false, fmt.Errorf("invalid line pattern %q: %w", pat, err)
		}
		compiled = append(compiled, re)
	}

	text, err := p.ReadFile(path)
	if err != nil {
		return false, nil
	}

	found := make([]bool, len(compiled))
	remaining := len(compiled)
	for line := range strings.SplitSeq(text, "\n") {
		if remaining == 0 {
			break
		}
		for i, re := range compiled {
			if !found[i] && matchesAtStart(re, line) {
				found[i] = true
				remaining--
			}
		}
	}
	return remaining == 0, nil
}

func matchesAtStart(re *regexp.Regexp, line string) bool {
	loc := re.FindStringIndex(line)
	return loc != nil && loc[0] == 0
}
