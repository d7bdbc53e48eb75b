// SPDX-License-Identifier: MPL-2.0

// Package collector assembles the suites of every test kind of a package
// into one aggregate suite.
//
// Configuration is given once for all kinds. A key made of a kind prefix and
// an option that kind recognizes ("uextensions", "pext") reaches only that
// kind, without the prefix. Every other key reaches every kind unchanged, and
// kinds ignore keys they do not understand.
package collector

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/invowk/testsetup/internal/discovery"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/getter"
	"github.com/invowk/testsetup/internal/issue"
	"github.com/invowk/testsetup/internal/pkgref"
	"github.com/invowk/testsetup/internal/resolve"
	"github.com/invowk/testsetup/internal/suite"
)

type (
	// Entry is one registered test kind.
	Entry struct {
		Descriptor getter.Descriptor
	}

	// Collector holds the ordered getter registry of a package.
	Collector struct {
		// Package is the package whose tests are collected.
		Package pkgref.Package
		// Entries are built in order. Callers may replace them before Build.
		Entries []Entry
		// Defaults are routed like caller configuration and overridden by it.
		Defaults map[string]any

		framework  envlayer.Framework
		registry   *resolve.Registry
		reporter   discovery.Reporter
		getterOpts []getter.Option
	}

	// Option configures a Collector.
	Option func(*Collector)
)

// WithFramework sets the environment framework.
func WithFramework(f envlayer.Framework) Option {
	return func(c *Collector) { c.framework = f }
}

// WithRegistry sets the registry dotted names are resolved against.
func WithRegistry(r *resolve.Registry) Option {
	return func(c *Collector) { c.registry = r }
}

// WithReporter sets the diagnostic reporter.
func WithReporter(r discovery.Reporter) Option {
	return func(c *Collector) { c.reporter = r }
}

// WithDefaults sets the collector defaults.
func WithDefaults(defaults map[string]any) Option {
	return func(c *Collector) { c.Defaults = maps.Clone(defaults) }
}

// WithGetterOptions adds options applied to every getter, e.g.
// getter.WithFilter.
func WithGetterOptions(opts ...getter.Option) Option {
	return func(c *Collector) { c.getterOpts = append(c.getterOpts, opts...) }
}

// New creates a collector for every test kind. The functional kind is left
// out, with a diagnostic, when the environment framework is unavailable.
func New(ctx context.Context, pkg pkgref.Package, opts ...Option) *Collector {
	return newCollector(ctx, pkg, getter.Descriptors(), opts)
}

// NewDocTestCollector creates a collector restricted to documentation kinds.
func NewDocTestCollector(ctx context.Context, pkg pkgref.Package, opts ...Option) *Collector {
	return newCollector(ctx, pkg, []getter.Descriptor{
		getter.FunctionalDocTest, getter.UnitDocTest, getter.DocTest,
	}, opts)
}

func newCollector(ctx context.Context, pkg pkgref.Package, descs []getter.Descriptor, opts []Option) *Collector {
	c := &Collector{Package: pkg, Defaults: map[string]any{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.framework == nil {
		c.framework = envlayer.NewContainers()
	}
	if c.registry == nil {
		c.registry = resolve.NewDefaultRegistry()
	}
	if c.reporter == nil {
		c.reporter = discovery.Discard
	}

	for _, d := range descs {
		if d.Functional && !c.framework.Available(ctx) {
			c.reporter.Report(discovery.NewDiagnostic(
				discovery.SeverityWarning,
				discovery.CodeGetterSkipped,
				fmt.Sprintf("leaving out %s tests: environment framework unavailable", d.Kind),
			).WithIssue(issue.EnvFrameworkUnavailableId))
			continue
		}
		c.Entries = append(c.Entries, Entry{Descriptor: d})
	}
	return c
}

// Kinds returns the registered kinds in order.
func (c *Collector) Kinds() []getter.Kind {
	kinds := make([]getter.Kind, len(c.Entries))
	for i, e := range c.Entries {
		kinds[i] = e.Descriptor.Kind
	}
	return kinds
}

// Route splits cfg by kind prefix. The result maps every entry's prefix to
// the configuration that entry receives.
func (c *Collector) Route(cfg map[string]any) map[byte]map[string]any {
	routed := make(map[byte]map[string]any, len(c.Entries))
	for _, e := range c.Entries {
		routed[e.Descriptor.Prefix] = map[string]any{}
	}

	// Broadcast keys first so a prefixed key for the same option wins. Option
	// aliases are replaced by their canonical key here, so "uext" beats a
	// broadcast "extensions" too.
	var prefixed []string
	for key, value := range cfg {
		if _, ok := c.owner(key); ok {
			prefixed = append(prefixed, key)
			continue
		}
		if shadowed(cfg, "", key) {
			continue
		}
		for _, m := range routed {
			m[getter.CanonicalKey(key)] = value
		}
	}
	for _, key := range prefixed {
		if shadowed(cfg, key[:1], key[1:]) {
			continue
		}
		e, _ := c.owner(key)
		routed[e.Descriptor.Prefix][getter.CanonicalKey(key[1:])] = cfg[key]
	}
	return routed
}

// shadowed reports whether option is an alias whose canonical key is also
// given with the same prefix. The canonical key wins.
func shadowed(cfg map[string]any, prefix, option string) bool {
	canonical := getter.CanonicalKey(option)
	if canonical == option {
		return false
	}
	_, ok := cfg[prefix+canonical]
	return ok
}

// owner returns the entry a prefixed key is addressed to.
func (c *Collector) owner(key string) (Entry, bool) {
	if len(key) < 2 {
		return Entry{}, false
	}
	for _, e := range c.Entries {
		if key[0] == e.Descriptor.Prefix && e.Descriptor.Recognizes(key[1:]) {
			return e, true
		}
	}
	return Entry{}, false
}

// Getters creates one getter per entry with routed Defaults overridden by
// routed cfg.
func (c *Collector) Getters(cfg map[string]any) ([]*getter.Getter, error) {
	defaults := c.Route(c.Defaults)
	config := c.Route(cfg)

	opts := append([]getter.Option{
		getter.WithFramework(c.framework),
		getter.WithRegistry(c.registry),
		getter.WithReporter(c.reporter),
	}, c.getterOpts...)

	getters := make([]*getter.Getter, 0, len(c.Entries))
	for _, e := range c.Entries {
		p := e.Descriptor.Prefix
		g, err := getter.New(e.Descriptor, c.Package, getter.MergeOptions(defaults[p], config[p]), opts...)
		if err != nil {
			return nil, err
		}
		getters = append(getters, g)
	}
	return getters, nil
}

// Build builds every getter in registry order and returns their nodes as the
// children of one node named after the package.
func (c *Collector) Build(ctx context.Context, cfg map[string]any) (*suite.Node, error) {
	getters, err := c.Getters(cfg)
	if err != nil {
		return nil, err
	}
	root := suite.NewNode(c.Package.Name)
	for _, g := range getters {
		node, err := g.Build(ctx)
		if err != nil {
			return nil, fmt.Errorf("collecting %s tests: %w", g.Descriptor().Kind, err)
		}
		root.AddChild(node)
	}
	return root, nil
}

// ParseAssignments turns "key=value" strings into a configuration map. Keys
// are lower-cased; values stay strings and are converted when decoded.
func ParseAssignments(pairs []string) (map[string]any, error) {
	cfg := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected key=value)", pair)
		}
		cfg[key] = strings.TrimSpace(value)
	}
	return cfg, nil
}
