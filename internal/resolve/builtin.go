// SPDX-License-Identifier: MPL-2.0

package resolve

import "github.com/invowk/testsetup/internal/suite"

// BuiltinModule is the module name of the attributes every default registry
// provides.
const BuiltinModule = "testsetup"

// Builtin attribute names, usable as BuiltinModule + "." + name.
const (
	NoopHook             = BuiltinModule + ".noop"
	CleanupHook          = BuiltinModule + ".cleanup"
	RenormalizingChecker = BuiltinModule + ".renormalizing"
)

// renormalizing folds Windows line endings and path separators.
var renormalizing = suite.NewRenormalizingChecker(
	`\r\n`, "\n",
	`\\`, "/",
)

// Cleanup resets the state a unit may have left behind: its globals are
// cleared so the next run starts fresh.
func Cleanup(u *suite.Unit) error {
	clear(u.Globals)
	return nil
}

// NewDefaultRegistry returns a registry holding the builtin module.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegisterModule(BuiltinModule, Module{
		"noop":          suite.Hook(suite.Noop),
		"cleanup":       suite.Hook(Cleanup),
		"renormalizing": suite.Checker(renormalizing),
	})
	return r
}
