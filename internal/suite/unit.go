// SPDX-License-Identifier: MPL-2.0

package suite

import "maps"

type (
	// Hook runs before (setup) or after (teardown) a unit.
	Hook func(u *Unit) error

	// Unit is one runnable test, built from one discovered file.
	Unit struct {
		// Kind is the getter kind that produced the unit.
		Kind string
		// Path is the file path relative to the package root, in slash form.
		Path string
		// AbsPath is the absolute file path.
		AbsPath string
		// Setup and Teardown surround execution. They are never nil.
		Setup    Hook
		Teardown Hook
		// SetupName and TeardownName are the dotted names the hooks were
		// resolved from; empty for the no-op default.
		SetupName    string
		TeardownName string
		// Globals are the initial names visible to the unit.
		Globals map[string]any
		// Flags are the execution option flags.
		Flags OptionFlag
		// Checker compares expected and actual output; nil means exact.
		Checker Checker
		// Encoding is the text encoding of the file.
		Encoding string
		// Options are engine options passed through untouched.
		Options map[string]any
		// Layer is the shared environment, or nil.
		Layer Layer
	}
)

// Noop is the default hook.
func Noop(*Unit) error { return nil }

// RunSetup calls the setup hook.
func (u *Unit) RunSetup() error {
	if u.Setup == nil {
		return nil
	}
	return u.Setup(u)
}

// RunTeardown calls the teardown hook.
func (u *Unit) RunTeardown() error {
	if u.Teardown == nil {
		return nil
	}
	return u.Teardown(u)
}

// Clone returns a copy of u whose maps can be modified independently.
func (u *Unit) Clone() *Unit {
	c := *u
	c.Globals = maps.Clone(u.Globals)
	c.Options = maps.Clone(u.Options)
	return &c
}

// LayerID returns the unit's layer identity, or the zero ID without a layer.
func (u *Unit) LayerID() LayerID {
	if u.Layer == nil {
		return LayerID{}
	}
	return u.Layer.LayerID()
}

// Check compares want and got with the unit's checker and flags.
func (u *Unit) Check(want, got string) bool {
	var c Checker = ExactChecker{}
	if u.Checker != nil {
		c = u.Checker
	}
	return c.CheckOutput(want, got, u.Flags)
}
