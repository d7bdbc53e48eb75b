// SPDX-License-Identifier: MPL-2.0

package envlayer

import (
	"context"
	"fmt"
	"reflect"

	"github.com/invowk/testsetup/internal/suite"
)

// DefaultEnvFile is the environment definition file functional tests fall
// back to when no marker names one.
const DefaultEnvFile = "ftesting.zcml"

// ModuleName identifies this package as the provider of definition layers.
var ModuleName = reflect.TypeFor[DefinitionLayer]().PkgPath()

type (
	// Framework is the optional functional environment framework.
	Framework interface {
		// Available reports whether the framework can be used at all.
		Available(ctx context.Context) bool
		// NewLayer builds the layer for an environment definition file.
		NewLayer(definitionFile, module, name string, allowTeardown bool) suite.Layer
	}

	// DefinitionLayer is a layer set up from an environment definition file.
	DefinitionLayer struct {
		DefinitionFile string
		Module         string
		Name           string
		// AllowTeardown permits tearing the environment down between runs.
		// It is not part of the layer identity.
		AllowTeardown bool
	}

	// Static is a Framework whose availability is fixed.
	Static bool
)

// LayerName returns the conventional layer name for a definition file value.
func LayerName(value string) string {
	return fmt.Sprintf("DefinitionLayer [%s]", value)
}

// LayerID implements suite.Layer.
func (l DefinitionLayer) LayerID() suite.LayerID {
	return suite.LayerID{DefinitionFile: l.DefinitionFile, Module: l.Module, Name: l.Name}
}

// Available implements Framework.
func (s Static) Available(context.Context) bool { return bool(s) }

// NewLayer implements Framework.
func (Static) NewLayer(definitionFile, module, name string, allowTeardown bool) suite.Layer {
	return newDefinitionLayer(definitionFile, module, name, allowTeardown)
}

func newDefinitionLayer(definitionFile, module, name string, allowTeardown bool) suite.Layer {
	return DefinitionLayer{
		DefinitionFile: definitionFile,
		Module:         module,
		Name:           name,
		AllowTeardown:  allowTeardown,
	}
}
