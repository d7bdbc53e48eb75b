// SPDX-License-Identifier: MPL-2.0

package suite

import "fmt"

type (
	// LayerID is the structural identity of a layer. Two layers are the same
	// shared environment iff their IDs are equal.
	LayerID struct {
		// DefinitionFile is the environment definition file backing the layer
		// (empty for layers that are not built from a file).
		DefinitionFile string
		// Module is the dotted module name that provides the layer.
		Module string
		// Name is the layer name within Module.
		Name string
	}

	// Layer is a shared-environment descriptor attached to units or nodes.
	Layer interface {
		LayerID() LayerID
	}

	// NamedLayer is a layer identified by module and name only, as registered
	// in a resolver module.
	NamedLayer struct {
		Module string
		Name   string
	}
)

// String returns "module.Name", followed by the definition file when set.
func (id LayerID) String() string {
	qualified := id.Name
	if id.Module != "" {
		qualified = id.Module + "." + id.Name
	}
	if id.DefinitionFile == "" {
		return qualified
	}
	return fmt.Sprintf("%s (%s)", qualified, id.DefinitionFile)
}

// IsZero reports whether id identifies no layer.
func (id LayerID) IsZero() bool { return id == LayerID{} }

// LayerID implements Layer.
func (l NamedLayer) LayerID() LayerID {
	return LayerID{Module: l.Module, Name: l.Name}
}

// SameLayer reports whether a and b describe the same environment. Two nil
// layers are the same; a nil and a non-nil layer are not.
func SameLayer(a, b Layer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.LayerID() == b.LayerID()
}
