// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// PackageDir is searched for FileName when ConfigFilePath is empty.
	PackageDir string
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}

// Path returns the config file the options select: ConfigFilePath when set,
// otherwise FileName in PackageDir if it exists. It is empty when only
// defaults apply.
func (o LoadOptions) Path() string {
	if o.ConfigFilePath != "" {
		return o.ConfigFilePath
	}
	if o.PackageDir == "" {
		return ""
	}
	if candidate := filepath.Join(o.PackageDir, FileName); fileExists(candidate) {
		return candidate
	}
	return ""
}
