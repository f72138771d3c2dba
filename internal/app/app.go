// Package app holds the application context: the one set of shared services
// (settings, config store, logger, command registry, metrics) built at
// startup and passed to every component.
package app

import (
	"sync"

	"aridcore/internal/command"
	"aridcore/internal/config"
	"aridcore/internal/logging"
	"aridcore/internal/metrics"
	"aridcore/internal/shutdown"
)

// Stopper ends the process for a cause. The lifecycle orchestrator is the
// only implementation outside tests.
type Stopper interface {
	Shutdown(status shutdown.Status)
}

type Context struct {
	Settings config.Settings
	Config   *config.Store
	Log      *logging.Logger
	Registry *command.Registry
	Metrics  *metrics.Metrics

	mu      sync.RWMutex
	stopper Stopper
}

// New builds a context with an empty registry. m may be nil.
func New(settings config.Settings, store *config.Store, log *logging.Logger, m *metrics.Metrics) *Context {
	return &Context{
		Settings: settings,
		Config:   store,
		Log:      log,
		Registry: command.NewRegistry(),
		Metrics:  m,
	}
}

func (c *Context) SetStopper(s Stopper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopper = s
}

// Shutdown asks the registered stopper to end the process. It reports false
// when no stopper is registered yet.
func (c *Context) Shutdown(status shutdown.Status) bool {
	c.mu.RLock()
	s := c.stopper
	c.mu.RUnlock()
	if s == nil {
		return false
	}
	s.Shutdown(status)
	return true
}
