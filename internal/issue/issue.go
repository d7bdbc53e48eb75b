// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PackageNotFoundId Id = iota + 1
	MarkerResolutionFailedId
	EnvFrameworkUnavailableId
	ConfigLoadFailedId
	InvalidOptionId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the glamour-rendered Markdown of the issue, followed by its
// links. An empty stylePath selects the "auto" style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(slices.Clone(i.docLinks), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	if stylePath == "" {
		stylePath = "auto"
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

The package reference is neither an existing directory nor a Go import path
that resolves to one.

## Things you can try:
- Pass a directory explicitly:
~~~
$ testsetup list ./internal/mypkg
~~~

- Run the command from inside the module that owns the import path, so the
  Go tool can resolve it:
~~~
$ cd /path/to/module
$ testsetup list example.com/mod/mypkg
~~~`,
	}

	markerResolutionFailedIssue = &Issue{
		id: MarkerResolutionFailedId,
		mdMsg: `
# A marker names something that does not exist!

A ` + "`:layer:`, `:setup:` or `:teardown:`" + ` marker (or the matching configuration
option) holds a dotted name that could not be resolved.

## Things you can try:
- Check the spelling of the module and attribute, e.g.
~~~
:layer: mypkg.testing.FunctionalLayer
~~~

- Make sure the module is registered with the resolver before the suite is
  built. The built-in module is ` + "`testsetup`" + ` with
  ` + "`testsetup.noop`, `testsetup.cleanup` and `testsetup.renormalizing`" + `.`,
	}

	envFrameworkUnavailableIssue = &Issue{
		id: EnvFrameworkUnavailableId,
		mdMsg: `
# Functional environment framework unavailable!

Some files ask for a functional environment (` + "`:test-layer: functional`" + `,
` + "`:zcml-layer:` or `:functional-zcml-layer:`" + `), but no container provider answered.
Those files were skipped or left without a layer.

## Things you can try:
- Start Docker or Podman and retry.
- Force availability when the environment is provided another way:
~~~
$ testsetup list --framework always
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

` + "`testsetup.cue`" + ` could not be read or does not match the schema.

## Things you can try:
- Check the CUE syntax and the allowed fields:
~~~cue
framework: "auto" // or "none", "always"
verbose:   false
collector: {
	uextensions: [".txt", ".rst", ".foo"]
	setup:       "testsetup.noop"
}
~~~

- Print the effective configuration:
~~~
$ testsetup config show
~~~`,
	}

	invalidOptionIssue = &Issue{
		id: InvalidOptionId,
		mdMsg: `
# Invalid collector option!

An option value has the wrong type or an unknown value, for example an
unknown name in ` + "`optionflags`" + `.

## Things you can try:
- Use flag names such as ` + "`ELLIPSIS`, `NORMALIZE_WHITESPACE`, `REPORT_NDIFF`" + `.
- Give extensions with their leading dot: ` + "`--set pext=.py`" + `.`,
	}

	issues = map[Id]*Issue{
		packageNotFoundIssue.Id():         packageNotFoundIssue,
		markerResolutionFailedIssue.Id():  markerResolutionFailedIssue,
		envFrameworkUnavailableIssue.Id(): envFrameworkUnavailableIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
		invalidOptionIssue.Id():           invalidOptionIssue,
	}
)

// Values returns every catalog issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
