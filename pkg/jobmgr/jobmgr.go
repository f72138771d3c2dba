// Package jobmgr runs named background jobs that share one parent context
// and can be stopped one at a time or all together.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(ctx, func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	err := jm.StartAsync("config-watch", func(ctx context.Context) error {
//	    // do work until ctx is cancelled
//	    return nil
//	})
//
//	// later...
//	jm.StopAll()
//
// No retry logic, no persistence. A finished job is forgotten.
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrRunning is returned when a job name is already in use.
	ErrRunning = errors.New("jobmgr: job already running")
	// ErrNotRunning is returned by Stop for an unknown job.
	ErrNotRunning = errors.New("jobmgr: job not running")
	// ErrClosed is returned by StartAsync after StopAll.
	ErrClosed = errors.New("jobmgr: manager stopped")
)

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	running:config-watch
//	error:metrics:listen tcp :9090: bind: address already in use
//	done:config-watch
type StatusReporter func(string)

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	ctx      context.Context
	jobs     map[string]*job
	closed   bool
	wg       sync.WaitGroup
	Reporter StatusReporter
}

// NewManager creates a manager whose jobs are cancelled with parent.
// The reporter callback may be nil.
func NewManager(parent context.Context, reporter StatusReporter) *Manager {
	return &Manager{
		ctx:      parent,
		jobs:     make(map[string]*job),
		Reporter: reporter,
	}
}

// StartSync runs a job in the current goroutine and blocks until completion.
func (m *Manager) StartSync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(m.ctx)
	defer cancel()
	m.report("running:" + name)
	err := runner(ctx)
	m.finish(name, err)
	return err
}

// StartAsync runs a job in its own goroutine and returns immediately.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("%w: %q", ErrRunning, name)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer close(j.done)
		defer cancel()

		m.report("running:" + name)
		err := runner(ctx)
		m.finish(name, err)

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels a running job and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotRunning, name)
	}

	j.cancel()
	<-j.done
	return nil
}

// StopAll cancels every job, waits for all of them and refuses new ones.
func (m *Manager) StopAll() {
	m.mu.Lock()
	m.closed = true
	for _, j := range m.jobs {
		j.cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// List returns the names of active jobs in sorted order.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of active jobs, e.g.
// "Running jobs: config-watch, metrics" or "No jobs are running.".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) finish(name string, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		m.report("error:" + name + ":" + err.Error())
		return
	}
	m.report("done:" + name)
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
