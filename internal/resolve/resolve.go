// SPDX-License-Identifier: MPL-2.0

// Package resolve turns dotted names found in markers and configuration
// ("a.b.module.attribute") into hooks, layers and checkers.
//
// Only names registered ahead of time can be resolved: a marker can never
// reach arbitrary code, it can only pick among the attributes a module was
// registered with.
package resolve

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/invowk/testsetup/internal/suite"
)

var (
	// ErrInvalidName is returned for names without a module and attribute part.
	ErrInvalidName = errors.New("invalid dotted name")
	// ErrModuleNotFound is returned when the module part is not registered.
	ErrModuleNotFound = errors.New("module not found")
	// ErrAttributeNotFound is returned when the module lacks the attribute.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrWrongType is returned when the attribute exists but has another type.
	ErrWrongType = errors.New("attribute has wrong type")
)

type (
	// Module maps attribute names to values.
	Module map[string]any

	// Registry stores modules keyed by their dotted name. It is safe for
	// concurrent use.
	Registry struct {
		mu      sync.RWMutex
		modules map[string]Module
	}

	// Error describes a failed resolution.
	Error struct {
		// Name is the full dotted name being resolved.
		Name string
		// Module and Attribute are the two halves of Name (when it splits).
		Module    string
		Attribute string
		// Want names the expected kind ("hook", "layer", "checker") for
		// ErrWrongType failures.
		Want string
		// Err is one of the package sentinels.
		Err error
	}
)

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// RegisterModule stores attrs under name, guarding against duplicates.
func (r *Registry) RegisterModule(name string, attrs Module) error {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("resolve: invalid module name %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.modules == nil {
		r.modules = make(map[string]Module)
	}
	if _, exists := r.modules[name]; exists {
		return fmt.Errorf("resolve: module %q already registered", name)
	}
	r.modules[name] = maps.Clone(attrs)
	return nil
}

// MustRegisterModule is like RegisterModule but panics on error.
func (r *Registry) MustRegisterModule(name string, attrs Module) {
	if err := r.RegisterModule(name, attrs); err != nil {
		panic(err)
	}
}

// Clone returns a shallow copy of the registry.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &Registry{modules: make(map[string]Module, len(r.modules))}
	for name, mod := range r.modules {
		clone.modules[name] = maps.Clone(mod)
	}
	return clone
}

// Modules returns the registered module names sorted alphabetically.
func (r *Registry) Modules() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.modules))
}

// Resolve looks up "module.attribute", splitting at the last dot.
func (r *Registry) Resolve(name string) (any, error) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return nil, &Error{Name: name, Err: ErrInvalidName}
	}
	modName, attr := name[:idx], name[idx+1:]

	if r == nil {
		return nil, &Error{Name: name, Module: modName, Attribute: attr, Err: ErrModuleNotFound}
	}
	r.mu.RLock()
	mod, ok := r.modules[modName]
	r.mu.RUnlock()
	if !ok {
		return nil, &Error{Name: name, Module: modName, Attribute: attr, Err: ErrModuleNotFound}
	}
	v, ok := mod[attr]
	if !ok {
		return nil, &Error{Name: name, Module: modName, Attribute: attr, Err: ErrAttributeNotFound}
	}
	return v, nil
}

// Hook resolves name to a setup/teardown hook.
func (r *Registry) Hook(name string) (suite.Hook, error) {
	v, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	switch h := v.(type) {
	case suite.Hook:
		return h, nil
	case func(*suite.Unit) error:
		return h, nil
	case func():
		return func(*suite.Unit) error { h(); return nil }, nil
	default:
		return nil, wrongType(name, "hook")
	}
}

// Layer resolves name to a layer.
func (r *Registry) Layer(name string) (suite.Layer, error) {
	v, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	l, ok := v.(suite.Layer)
	if !ok {
		return nil, wrongType(name, "layer")
	}
	return l, nil
}

// Checker resolves name to an output checker.
func (r *Registry) Checker(name string) (suite.Checker, error) {
	v, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	c, ok := v.(suite.Checker)
	if !ok {
		return nil, wrongType(name, "checker")
	}
	return c, nil
}

func wrongType(name, want string) *Error {
	idx := strings.LastIndex(name, ".")
	return &Error{Name: name, Module: name[:idx], Attribute: name[idx+1:], Want: want, Err: ErrWrongType}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrInvalidName):
		return fmt.Sprintf("cannot resolve %q: %v (expected module.attribute)", e.Name, e.Err)
	case errors.Is(e.Err, ErrModuleNotFound):
		return fmt.Sprintf("cannot resolve %q: %v: %s", e.Name, e.Err, e.Module)
	case errors.Is(e.Err, ErrWrongType):
		return fmt.Sprintf("cannot resolve %q: %v (want %s)", e.Name, e.Err, e.Want)
	default:
		return fmt.Sprintf("cannot resolve %q: %v: %s has no %s", e.Name, e.Err, e.Module, e.Attribute)
	}
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *Error) Unwrap() error { return e.Err }
