// SPDX-License-Identifier: MPL-2.0

package getter

import (
	"maps"
	"slices"

	"github.com/invowk/testsetup/internal/discovery"
	"github.com/invowk/testsetup/internal/envlayer"
	"github.com/invowk/testsetup/internal/marker"
	"github.com/invowk/testsetup/internal/resolve"
	"github.com/invowk/testsetup/internal/suite"
)

// Marker tags recognized in test files.
const (
	TagDocTest             = "doctest"
	TagUnitTest            = "unittest"
	TagTestLayer           = "test-layer"
	TagLayer               = "layer"
	TagZCMLLayer           = "zcml-layer"
	TagFunctionalZCMLLayer = "functional-zcml-layer"
	TagSetup               = "setup"
	TagTeardown            = "teardown"
)

const (
	// KindFunctional is a documentation test that needs the functional
	// environment framework.
	KindFunctional Kind = "functional-doctest"
	// KindUnit is a documentation test run without a shared environment.
	KindUnit Kind = "unit-doctest"
	// KindModule is a test module.
	KindModule Kind = "module"
	// KindDocTest is a plain documentation test.
	KindDocTest Kind = "doctest"
)

var (
	docExtensions = []string{".txt", ".rst"}

	// FunctionalDocTest describes functional documentation tests.
	FunctionalDocTest = Descriptor{
		Kind:       KindFunctional,
		Prefix:     'f',
		Extensions: docExtensions,
		Rules:      []Rule{{Tag: TagTestLayer, Value: "functional"}},
		Functional: true,
		defaults: map[string]any{
			KeyOptionFlags:    suite.DefaultDocFlags,
			KeyDefaultEnvFile: envlayer.DefaultEnvFile,
		},
	}

	// UnitDocTest describes unit documentation tests.
	UnitDocTest = Descriptor{
		Kind:       KindUnit,
		Prefix:     'u',
		Extensions: docExtensions,
		Rules:      []Rule{{Tag: TagTestLayer, Value: "unit"}},
		defaults: map[string]any{
			KeyOptionFlags: suite.DefaultDocFlags,
			KeyTeardown:    resolve.CleanupHook,
		},
	}

	// ModuleTest describes test modules.
	ModuleTest = Descriptor{
		Kind:       KindModule,
		Prefix:     'p',
		Extensions: []string{".py"},
		Rules:      []Rule{{Tag: TagUnitTest}, {Tag: TagTestLayer, Value: "python"}},
	}

	// DocTest describes plain documentation tests.
	DocTest = Descriptor{
		Kind:       KindDocTest,
		Prefix:     'd',
		Extensions: docExtensions,
		Rules:      []Rule{{Tag: TagDocTest}},
		defaults: map[string]any{
			KeyOptionFlags: suite.DefaultDocFlags,
		},
	}
)

type (
	// Kind names a test kind.
	Kind string

	// Rule is a marker requirement. An empty Value only requires the tag to
	// be present; otherwise the first tag marker must equal Value, ignoring
	// case.
	Rule struct {
		Tag   string
		Value string
	}

	// Descriptor is the static description of a test kind.
	Descriptor struct {
		Kind Kind
		// Prefix namespaces the kind's options in collector configuration.
		Prefix byte
		// Extensions are the default accepted file extensions.
		Extensions []string
		// Rules are alternatives: a file is a test of this kind when any rule
		// holds.
		Rules []Rule
		// Functional marks kinds that need the environment framework.
		Functional bool

		defaults map[string]any
	}
)

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Descriptors returns every kind in registry order.
func Descriptors() []Descriptor {
	return []Descriptor{FunctionalDocTest, UnitDocTest, ModuleTest, DocTest}
}

// Lookup returns the descriptor of kind.
func Lookup(kind Kind) (Descriptor, bool) {
	for _, d := range Descriptors() {
		if d.Kind == kind {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Defaults returns a copy of the kind's default configuration. Extensions
// are always included.
func (d Descriptor) Defaults() map[string]any {
	out := maps.Clone(d.defaults)
	if out == nil {
		out = make(map[string]any)
	}
	out[KeyExtensions] = slices.Clone(d.Extensions)
	return out
}

// RecognizedKeys returns the option keys this kind understands.
func (d Descriptor) RecognizedKeys() []string {
	keys := RecognizedKeys()
	if !d.Functional {
		keys = slices.DeleteFunc(keys, func(k string) bool { return k == KeyDefaultEnvFile })
	}
	return keys
}

// Recognizes reports whether key is an option of this kind.
func (d Descriptor) Recognizes(key string) bool {
	return slices.Contains(d.RecognizedKeys(), key)
}

// MarkerPredicate returns the predicate for the kind's marker rules alone.
func (d Descriptor) MarkerPredicate(p *marker.Parser) discovery.Predicate {
	preds := make([]discovery.Predicate, len(d.Rules))
	for i, r := range d.Rules {
		if r.Value == "" {
			preds[i] = discovery.HasMarker(p, r.Tag)
		} else {
			preds[i] = discovery.MarkerEquals(p, r.Tag, r.Value)
		}
	}
	return discovery.Any(preds...)
}
