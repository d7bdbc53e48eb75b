// SPDX-License-Identifier: MPL-2.0

package envlayer

import (
	"errors"
	"fmt"
)

const (
	// ModeAuto probes for a container provider.
	ModeAuto Mode = "auto"
	// ModeNone treats the framework as unavailable.
	ModeNone Mode = "none"
	// ModeAlways treats the framework as available without probing.
	ModeAlways Mode = "always"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid framework mode")

type (
	// Mode selects how the environment framework is provided.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	InvalidModeError struct {
		Value Mode
	}
)

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// IsValid returns whether the Mode is one of the defined modes. The zero
// value is valid and means ModeAuto.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case "", ModeAuto, ModeNone, ModeAlways:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// Framework returns the Framework implementation for the mode.
func (m Mode) Framework() (Framework, error) {
	switch m {
	case "", ModeAuto:
		return NewContainers(), nil
	case ModeNone:
		return Static(false), nil
	case ModeAlways:
		return Static(true), nil
	default:
		return nil, &InvalidModeError{Value: m}
	}
}

// Error implements the error interface for InvalidModeError.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid framework mode %q (expected auto, none or always)", e.Value)
}

// Unwrap returns ErrInvalidMode for errors.Is() compatibility.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }
