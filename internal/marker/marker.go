// SPDX-License-Identifier: MPL-2.0

package marker

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

type (
	// Marker is a single tag/value annotation found in a text.
	Marker struct {
		// Tag is the lower-cased tag name (without the surrounding colons).
		Tag string
		// Value is the trimmed text following the second colon.
		Value string
		// Line is the 1-based line number the marker was found on.
		Line int
	}

	// Parser finds markers in text. It memoizes one compiled pattern per tag and
	// is safe for concurrent use.
	Parser struct {
		mu       sync.RWMutex
		patterns map[string]*regexp.Regexp
		encoding string
	}

	// Option configures a Parser.
	Option func(*Parser)
)

// anyMarkerPattern matches a marker line with any tag. Used for listing.
var anyMarkerPattern = regexp.MustCompile(`^(?:\.\.\s+)?:([A-Za-z0-9_.-]+):(.*)$`)

// Default is the shared parser backing the package-level helpers.
var Default = NewParser()

// WithEncoding sets the character encoding used when reading files.
// An empty label means UTF-8.
func WithEncoding(label string) Option {
	return func(p *Parser) {
		p.encoding = label
	}
}

// NewParser creates a Parser with an empty pattern cache.
func NewParser(opts ...Option) *Parser {
	p := &Parser{patterns: make(map[string]*regexp.Regexp)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Find returns the value of the first line in text carrying tag.
// The boolean is false when no line matches.
func (p *Parser) Find(tag, text string) (string, bool) {
	re := p.pattern(tag)
	for line := range strings.SplitSeq(text, "\n") {
		m := re.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// FindInFile reads path and returns the value of the first marker carrying tag.
// Unreadable files report the marker as absent.
func (p *Parser) FindInFile(tag, path string) (string, bool) {
	text, err := p.ReadFile(path)
	if err != nil {
		return "", false
	}
	return p.Find(tag, text)
}

// ReadFile reads path and decodes it with the parser's encoding, dropping
// undecodable byte sequences.
func (p *Parser) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data, p.encoding), nil
}

// pattern returns the cached pattern for tag, compiling it on first use.
// Two goroutines racing on the same tag compile equal patterns, so the
// second store is harmless.
func (p *Parser) pattern(tag string) *regexp.Regexp {
	key := strings.ToLower(tag)

	p.mu.RLock()
	re, ok := p.patterns[key]
	p.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`(?i)^(?:\.\.\s+)?:` + regexp.QuoteMeta(key) + `:(.*)$`)

	p.mu.Lock()
	p.patterns[key] = re
	p.mu.Unlock()
	return re
}

// CachedTags reports how many distinct tags have a compiled pattern.
func (p *Parser) CachedTags() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.patterns)
}

// All lists every marker line in text, top to bottom.
func All(text string) []Marker {
	var markers []Marker
	for i, line := range strings.Split(text, "\n") {
		m := anyMarkerPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		markers = append(markers, Marker{
			Tag:   strings.ToLower(m[1]),
			Value: strings.TrimSpace(m[2]),
			Line:  i + 1,
		})
	}
	return markers
}

// Find looks up tag in text using the Default parser.
func Find(tag, text string) (string, bool) {
	return Default.Find(tag, text)
}

// FindInFile looks up tag in the file at path using the Default parser.
func FindInFile(tag, path string) (string, bool) {
	return Default.FindInFile(tag, path)
}
