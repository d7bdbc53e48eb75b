// SPDX-License-Identifier: MPL-2.0

package getter

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/invowk/testsetup/internal/suite"
)

// Option keys understood by getters.
const (
	KeyExtensions     = "extensions"
	KeyExt            = "ext"
	KeySetup          = "setup"
	KeyTeardown       = "teardown"
	KeyGlobs          = "globs"
	KeyOptionFlags    = "optionflags"
	KeyEncoding       = "encoding"
	KeyChecker        = "checker"
	KeyOptions        = "options"
	KeyAllowTeardown  = "allow_teardown"
	KeyDefaultEnvFile = "default_env_file"
)

// engineDefaults apply to every kind below the kind defaults.
var engineDefaults = map[string]any{
	KeyEncoding: "utf-8",
}

// Options is the decoded configuration of one getter. It is built once and
// never modified.
type Options struct {
	// Extensions are the accepted file extensions, with leading dot.
	Extensions []string `mapstructure:"extensions"`
	// Setup and Teardown are dotted hook names.
	Setup    string `mapstructure:"setup"`
	Teardown string `mapstructure:"teardown"`
	// Globs are the initial globals of every unit.
	Globs map[string]any `mapstructure:"globs"`
	// OptionFlags are applied to every unit.
	OptionFlags suite.OptionFlag `mapstructure:"optionflags"`
	// Encoding is the text encoding of test files.
	Encoding string `mapstructure:"encoding"`
	// Checker is the dotted name of an output checker.
	Checker string `mapstructure:"checker"`
	// Options are passed through to the execution engine untouched.
	Options map[string]any `mapstructure:"options"`
	// AllowTeardown is handed to definition layers.
	AllowTeardown bool `mapstructure:"allow_teardown"`
	// DefaultEnvFile is the functional fallback definition file, relative to
	// the package root.
	DefaultEnvFile string `mapstructure:"default_env_file"`
}

// RecognizedKeys returns every option key a getter understands, including
// the "ext" alias, sorted.
func RecognizedKeys() []string {
	t := reflect.TypeFor[Options]()
	keys := []string{KeyExt}
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("mapstructure"); tag != "" {
			keys = append(keys, strings.Split(tag, ",")[0])
		}
	}
	slices.Sort(keys)
	return keys
}

// CanonicalKey returns the option key an alias stands for, or key itself.
func CanonicalKey(key string) string {
	if key == KeyExt {
		return KeyExtensions
	}
	return key
}

// MergeOptions layers configuration maps, later maps winning. The "ext"
// alias is folded into "extensions" within each layer before merging.
func MergeOptions(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		l := maps.Clone(layer)
		if v, ok := l[KeyExt]; ok {
			delete(l, KeyExt)
			if _, both := l[KeyExtensions]; !both {
				l[KeyExtensions] = v
			}
		}
		maps.Copy(out, l)
	}
	return out
}

// DecodeOptions decodes merged configuration into Options. Unknown keys are
// ignored.
func DecodeOptions(cfg map[string]any) (Options, error) {
	var opts Options
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			optionFlagHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return Options{}, fmt.Errorf("creating options decoder: %w", err)
	}
	if err := dec.Decode(cfg); err != nil {
		return Options{}, fmt.Errorf("decoding options: %w", err)
	}
	for i, ext := range opts.Extensions {
		opts.Extensions[i] = strings.TrimSpace(ext)
	}
	return opts, nil
}

// optionFlagHook accepts flag names ("ELLIPSIS|REPORT_NDIFF"), lists of names
// and plain integers for OptionFlag fields.
func optionFlagHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[suite.OptionFlag]() {
		return data, nil
	}
	switch v := data.(type) {
	case suite.OptionFlag:
		return v, nil
	case string:
		return suite.ParseOptionFlags(v)
	case []string:
		return suite.ParseOptionFlags(v...)
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("option flag list holds %T, want string", item)
			}
			names = append(names, s)
		}
		return suite.ParseOptionFlags(names...)
	default:
		return data, nil
	}
}
