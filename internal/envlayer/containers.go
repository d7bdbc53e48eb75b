// SPDX-License-Identifier: MPL-2.0

package envlayer

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/testcontainers/testcontainers-go"

	"github.com/invowk/testsetup/internal/suite"
)

// DefaultProbeTimeout bounds the provider health check.
const DefaultProbeTimeout = 5 * time.Second

// Containers is a Framework that is available when a container provider
// (Docker or Podman) answers a health check. The probe runs once; later calls
// reuse its result.
type Containers struct {
	// Provider selects the provider type; the zero value auto-detects.
	Provider testcontainers.ProviderType
	// Timeout bounds the health check; zero means DefaultProbeTimeout.
	Timeout time.Duration
	// Logger receives probe failures at debug level; nil uses log.Default().
	Logger *log.Logger

	once      sync.Once
	available bool
}

// NewContainers returns a container-backed framework with default settings.
func NewContainers() *Containers {
	return &Containers{}
}

// Available implements Framework.
func (c *Containers) Available(ctx context.Context) bool {
	c.once.Do(func() {
		c.available = c.probe(ctx)
	})
	return c.available
}

// NewLayer implements Framework.
func (c *Containers) NewLayer(definitionFile, module, name string, allowTeardown bool) suite.Layer {
	return newDefinitionLayer(definitionFile, module, name, allowTeardown)
}

// probe safely checks whether a provider can be reached. Provider detection
// can panic when no engine socket exists, so panics count as unavailable.
func (c *Containers) probe(ctx context.Context) (available bool) {
	logger := c.Logger
	if logger == nil {
		logger = log.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("container provider detection panicked", "panic", r)
			available = false
		}
	}()

	provider, err := c.Provider.GetProvider()
	if err != nil {
		logger.Debug("no container provider", "err", err)
		return false
	}
	defer func() { _ = provider.Close() }()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := provider.Health(ctx); err != nil {
		logger.Debug("container provider unhealthy", "err", err)
		return false
	}
	return true
}
