// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/testsetup/internal/envlayer"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the project configuration.
	Config struct {
		// Framework selects how the environment framework is provided.
		Framework envlayer.Mode `json:"framework" mapstructure:"framework" toml:"framework" yaml:"framework"`
		// Verbose enables debug logging.
		Verbose bool `json:"verbose" mapstructure:"verbose" toml:"verbose" yaml:"verbose"`
		// Collector holds default collector options.
		Collector map[string]any `json:"collector,omitempty" mapstructure:"collector" toml:"collector,omitempty" yaml:"collector,omitempty"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Framework: envlayer.ModeAuto,
		Collector: map[string]any{},
	}
}

// IsValid returns whether every field of the Config is valid.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Framework.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for key := range c.Collector {
		if strings.TrimSpace(key) == "" {
			errs = append(errs, fmt.Errorf("collector: empty option key"))
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
