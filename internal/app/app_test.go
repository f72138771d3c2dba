package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aridcore/internal/config"
	"aridcore/internal/logging"
	"aridcore/internal/shutdown"
)

type recordingStopper struct{ got []shutdown.Status }

func (r *recordingStopper) Shutdown(s shutdown.Status) { r.got = append(r.got, s) }

func TestShutdownDelegatesToStopper(t *testing.T) {
	c := New(config.Settings{}, nil, logging.Nop(), nil)
	assert.False(t, c.Shutdown(shutdown.Friendly))

	r := &recordingStopper{}
	c.SetStopper(r)
	assert.True(t, c.Shutdown(shutdown.NoConfig))
	assert.Equal(t, []shutdown.Status{shutdown.NoConfig}, r.got)
}

func TestContextsAreIsolated(t *testing.T) {
	a := New(config.Settings{}, nil, nil, nil)
	b := New(config.Settings{}, nil, nil, nil)
	assert.NotSame(t, a.Registry, b.Registry)
}
