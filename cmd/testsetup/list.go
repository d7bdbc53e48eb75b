// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/invowk/testsetup/internal/collector"
	"github.com/invowk/testsetup/internal/discovery"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/getter"
	"github.com/invowk/testsetup/internal/issue"
	"github.com/invowk/testsetup/internal/suite"
)

type (
	listOptions struct {
		format    string
		set       []string
		framework string
		require   []string
		doctests  bool
	}

	// nodeView and unitView are the YAML shape of a suite tree.
	nodeView struct {
		Name     string     `yaml:"name"`
		Layer    string     `yaml:"layer,omitempty"`
		Units    []unitView `yaml:"units,omitempty"`
		Children []nodeView `yaml:"children,omitempty"`
	}

	unitView struct {
		Path     string   `yaml:"path"`
		Kind     string   `yaml:"kind"`
		Layer    string   `yaml:"layer,omitempty"`
		Setup    string   `yaml:"setup,omitempty"`
		Teardown string   `yaml:"teardown,omitempty"`
		Flags    []string `yaml:"flags,omitempty"`
		Encoding string   `yaml:"encoding,omitempty"`
	}
)

func newListCommand(app *App) *cobra.Command {
	opts := &listOptions{}

	listCmd := &cobra.Command{
		Use:   "list [package]",
		Short: "Discover tests in a package and show the assembled suite",
		Long: `Discover tests in a package and show the assembled suite.

The package is a directory path or a Go import path (default "."). Options
given with --set override the collector defaults of testsetup.cue; a key
prefixed with a kind letter (f, u, p or d) only reaches that kind:

  testsetup list --set uextensions=.rst --set encoding=latin-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := "."
			if len(args) == 1 {
				ref = args[0]
			}
			if err := runList(cmd, app, ref, opts); err != nil {
				cmd.SilenceErrors = true
				return app.reportError(err)
			}
			return nil
		},
	}

	listCmd.Flags().StringVar(&opts.format, "format", "text", "output format (text|yaml)")
	listCmd.Flags().StringArrayVar(&opts.set, "set", nil, "collector option as key=value (repeatable)")
	listCmd.Flags().StringVar(&opts.framework, "framework", "", "environment framework mode (auto|none|always)")
	listCmd.Flags().StringArrayVar(&opts.require, "require", nil, "only keep files with a line starting with this regexp (repeatable)")
	listCmd.Flags().BoolVar(&opts.doctests, "doctests-only", false, "only collect text doctests (no module tests)")

	return listCmd
}

func runList(cmd *cobra.Command, app *App, ref string, opts *listOptions) error {
	if opts.format != "text" && opts.format != "yaml" {
		return fmt.Errorf("unknown format %q (expected text or yaml)", opts.format)
	}

	ctx := cmd.Context()
	sess, err := app.openSession(ctx, ref)
	if err != nil {
		return err
	}

	mode := sess.cfg.Framework
	if opts.framework != "" {
		mode = envlayer.Mode(opts.framework)
	}
	framework, err := app.Frameworks(mode, sess.logger)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("select environment framework").
			WithResource(string(mode)).
			WithSuggestion("Use one of auto, none or always").
			WithIssue(issue.InvalidOptionId).
			Wrap(err).
			BuildError()
	}

	overrides, err := collector.ParseAssignments(opts.set)
	if err != nil {
		return err
	}

	sess.logger.Debug("collecting tests", "package", sess.pkg, "config", sess.configFile, "framework", mode)

	diags := &discovery.Collector{}
	collectorOpts := []collector.Option{
		collector.WithFramework(framework),
		collector.WithReporter(discovery.Tee(discovery.LogReporter{Logger: sess.logger}, diags)),
		collector.WithDefaults(sess.cfg.Collector),
	}
	if len(opts.require) > 0 {
		collectorOpts = append(collectorOpts, collector.WithGetterOptions(getter.WithRequire(opts.require...)))
	}

	newCollector := collector.New
	if opts.doctests {
		newCollector = collector.NewDocTestCollector
	}
	root, err := newCollector(ctx, sess.pkg, collectorOpts...).Build(ctx, overrides)
	if app.verbose || sess.cfg.Verbose {
		app.renderIssues(discovery.Issues(diags.Diagnostics()))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.format == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(viewOf(root)); err != nil {
			return err
		}
		return enc.Close()
	}
	renderTree(out, root)
	return nil
}

func viewOf(n *suite.Node) nodeView {
	v := nodeView{Name: n.Name}
	if n.Layer != nil {
		v.Layer = n.Layer.LayerID().String()
	}
	for _, u := range n.Units {
		uv := unitView{
			Path:     u.Path,
			Kind:     u.Kind,
			Setup:    u.SetupName,
			Teardown: u.TeardownName,
			Flags:    u.Flags.Names(),
			Encoding: u.Encoding,
		}
		if id := u.LayerID(); !id.IsZero() {
			uv.Layer = id.String()
		}
		v.Units = append(v.Units, uv)
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, viewOf(c))
	}
	return v
}

// renderTree writes the suite as an indented tree:
//
//	mypkg (4 tests)
//	  unit-doctest (1)
//	    file1.rst  setup=testsetup.noop
func renderTree(w io.Writer, root *suite.Node) {
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(root.Name), SubtitleStyle.Render(fmt.Sprintf("(%d tests)", root.CountUnits())))
	for _, child := range root.Children {
		renderNode(w, child, 1)
	}
}

func renderNode(w io.Writer, n *suite.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s\n", indent, kindStyle.Render(n.Name), SubtitleStyle.Render(fmt.Sprintf("(%d)", n.CountUnits())))
	for _, u := range n.Units {
		var attrs []string
		if id := u.LayerID(); !id.IsZero() {
			attrs = append(attrs, "layer="+id.String())
		}
		if u.SetupName != "" {
			attrs = append(attrs, "setup="+u.SetupName)
		}
		if u.TeardownName != "" {
			attrs = append(attrs, "teardown="+u.TeardownName)
		}
		line := indent + "  " + PathStyle.Render(u.Path)
		if len(attrs) > 0 {
			line += "  " + SubtitleStyle.Render(strings.Join(attrs, " "))
		}
		fmt.Fprintln(w, line)
	}
	for _, c := range n.Children {
		renderNode(w, c, depth+1)
	}
}
