// SPDX-License-Identifier: MPL-2.0

package getter

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/invowk/testsetup/internal/discovery"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/issue"
	"github.com/invowk/testsetup/internal/marker"
	"github.com/invowk/testsetup/internal/pkgref"
	"github.com/invowk/testsetup/internal/resolve"
	"github.com/invowk/testsetup/internal/suite"
)

type (
	// Getter finds and assembles the tests of one kind in one package.
	Getter struct {
		desc      Descriptor
		pkg       pkgref.Package
		opts      Options
		filter    discovery.Predicate
		require   []string
		parser    *marker.Parser
		registry  *resolve.Registry
		framework envlayer.Framework
		reporter  discovery.Reporter
		// readText loads the decoded content of an accepted file.
		readText func(path string) (string, error)

		setup    suite.Hook
		teardown suite.Hook
		checker  suite.Checker
	}

	// Option configures a Getter.
	Option func(*Getter)
)

// WithFilter replaces the kind's file predicate.
func WithFilter(pred discovery.Predicate) Option {
	return func(g *Getter) { g.filter = pred }
}

// WithRequire narrows the candidate files to those where every pattern
// matches the start of some line.
func WithRequire(patterns ...string) Option {
	return func(g *Getter) { g.require = append(g.require, patterns...) }
}

// WithParser sets the marker parser. Without it a parser for the configured
// encoding is created.
func WithParser(p *marker.Parser) Option {
	return func(g *Getter) { g.parser = p }
}

// WithRegistry sets the registry used to resolve dotted names.
func WithRegistry(r *resolve.Registry) Option {
	return func(g *Getter) { g.registry = r }
}

// WithFramework sets the environment framework.
func WithFramework(f envlayer.Framework) Option {
	return func(g *Getter) { g.framework = f }
}

// WithReporter sets the diagnostic reporter.
func WithReporter(r discovery.Reporter) Option {
	return func(g *Getter) { g.reporter = r }
}

// New creates a getter for desc in pkg. cfg is the caller configuration for
// this kind (already stripped of the kind prefix); it overrides the kind
// defaults, which override the engine defaults.
func New(desc Descriptor, pkg pkgref.Package, cfg map[string]any, opts ...Option) (*Getter, error) {
	g := &Getter{desc: desc, pkg: pkg}
	for _, opt := range opts {
		opt(g)
	}

	decoded, err := DecodeOptions(MergeOptions(engineDefaults, desc.Defaults(), cfg))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("configure " + desc.Kind.String() + " getter").
			WithResource(pkg.String()).
			WithIssue(issue.InvalidOptionId).
			Wrap(err).
			Build()
	}
	g.opts = decoded

	for _, pattern := range g.require {
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("configure " + desc.Kind.String() + " getter").
				WithResource(pattern).
				WithIssue(issue.InvalidOptionId).
				Wrap(err).
				Build()
		}
	}

	if g.parser == nil {
		g.parser = marker.NewParser(marker.WithEncoding(g.opts.Encoding))
	}
	if g.readText == nil {
		g.readText = g.parser.ReadFile
	}
	if g.registry == nil {
		g.registry = resolve.NewDefaultRegistry()
	}
	if g.framework == nil {
		g.framework = envlayer.NewContainers()
	}
	if g.reporter == nil {
		g.reporter = discovery.Discard
	}

	if g.setup, err = g.configuredHook(KeySetup, g.opts.Setup); err != nil {
		return nil, err
	}
	if g.teardown, err = g.configuredHook(KeyTeardown, g.opts.Teardown); err != nil {
		return nil, err
	}
	if g.opts.Checker != "" {
		c, err := g.registry.Checker(g.opts.Checker)
		if err != nil {
			return nil, g.optionError(KeyChecker, g.opts.Checker, err)
		}
		g.checker = c
	}
	return g, nil
}

// Descriptor returns the getter's kind descriptor.
func (g *Getter) Descriptor() Descriptor { return g.desc }

// Options returns the decoded options.
func (g *Getter) Options() Options { return g.opts }

// Predicate returns the file predicate Build scans with.
func (g *Getter) Predicate() discovery.Predicate {
	pred := g.filter
	if pred == nil {
		pred = discovery.All(
			discovery.HasExtension(g.opts.Extensions...),
			g.desc.MarkerPredicate(g.parser),
		)
	}
	if len(g.require) == 0 {
		return pred
	}
	return discovery.All(pred, func(path string) bool {
		ok, err := g.parser.ContainsAll(path, g.require...)
		return ok && err == nil
	})
}

// Build scans the package and returns a node holding one unit per accepted
// file, named after the kind. Non-fatal problems go to the reporter; a
// dotted name that cannot be resolved aborts the build.
func (g *Getter) Build(ctx context.Context) (*suite.Node, error) {
	res, err := discovery.Scan(g.pkg.Dir, g.Predicate())
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("scan package").
			WithResource(g.pkg.String()).
			WithIssue(issue.PackageNotFoundId).
			Wrap(err).
			Build()
	}
	for _, d := range res.Diagnostics {
		g.reporter.Report(d)
	}

	node := suite.NewNode(g.desc.Kind.String())
	for _, path := range res.Paths {
		if g.desc.Functional && !g.framework.Available(ctx) {
			g.reporter.Report(discovery.NewDiagnosticWithPath(
				discovery.SeverityWarning,
				discovery.CodeFunctionalFileSkipped,
				"skipping functional test file: environment framework unavailable",
				path,
			).WithIssue(issue.EnvFrameworkUnavailableId))
			continue
		}
		u, err := g.buildUnit(ctx, path)
		if err != nil {
			return nil, err
		}
		node.AddUnit(u)
	}
	return node, nil
}

func (g *Getter) buildUnit(ctx context.Context, path string) (*suite.Unit, error) {
	rel := g.relPath(path)

	// An unreadable file has no markers.
	text, err := g.readText(path)
	if err != nil {
		text = ""
	}

	setup, setupName, err := g.fileHook(text, rel, TagSetup, g.setup, g.opts.Setup)
	if err != nil {
		return nil, err
	}
	teardown, teardownName, err := g.fileHook(text, rel, TagTeardown, g.teardown, g.opts.Teardown)
	if err != nil {
		return nil, err
	}
	layer, err := g.resolveLayer(ctx, path, rel, text)
	if err != nil {
		return nil, err
	}

	return &suite.Unit{
		Kind:         g.desc.Kind.String(),
		Path:         rel,
		AbsPath:      path,
		Setup:        setup,
		Teardown:     teardown,
		SetupName:    setupName,
		TeardownName: teardownName,
		Globals:      maps.Clone(g.opts.Globs),
		Flags:        g.opts.OptionFlags,
		Checker:      g.checker,
		Encoding:     g.opts.Encoding,
		Options:      maps.Clone(g.opts.Options),
		Layer:        layer,
	}, nil
}

// fileHook picks a file's :setup: or :teardown: marker over the configured
// hook.
func (g *Getter) fileHook(text, rel, tag string, configured suite.Hook, configuredName string) (suite.Hook, string, error) {
	name, ok := g.parser.Find(tag, text)
	if !ok || name == "" {
		return configured, configuredName, nil
	}
	h, err := g.registry.Hook(name)
	if err != nil {
		return nil, "", g.markerError(rel, tag, name, err)
	}
	return h, name, nil
}

func (g *Getter) configuredHook(key, name string) (suite.Hook, error) {
	if name == "" {
		return suite.Noop, nil
	}
	h, err := g.registry.Hook(name)
	if err != nil {
		return nil, g.optionError(key, name, err)
	}
	return h, nil
}

// relPath returns path relative to the package root in slash form. Paths
// outside the root are returned unchanged.
func (g *Getter) relPath(path string) string {
	rel, err := filepath.Rel(g.pkg.Dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (g *Getter) markerError(rel, tag, value string, err error) error {
	return issue.NewErrorContext().
		WithOperation("resolve marker").
		WithResource(fmt.Sprintf("%s (:%s: %s)", rel, tag, value)).
		WithSuggestion("Check the dotted name for typos").
		WithSuggestion("Register the module providing it with the resolver registry").
		WithIssue(issue.MarkerResolutionFailedId).
		Wrap(err).
		Build()
}

func (g *Getter) optionError(key, value string, err error) error {
	return issue.NewErrorContext().
		WithOperation("resolve option").
		WithResource(fmt.Sprintf("%c%s = %s", g.desc.Prefix, key, value)).
		WithIssue(issue.MarkerResolutionFailedId).
		Wrap(err).
		Build()
}
