// Package jobmgr tracks named background jobs. Each job runs under its own
// cancellable context and unregisters itself when its runner returns, so a
// name becomes reusable once the previous run finished or was stopped.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// StatusReporter receives job lifecycle messages, one per transition:
// "running:<name>", "done:<name>" or "error:<name>:<message>".
type StatusReporter func(string)

type job struct {
	cancel context.CancelFunc
}

// Manager starts, stops and tracks jobs by name. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	reporter StatusReporter
}

// NewManager returns an empty Manager. The reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		reporter: reporter,
	}
}

// StartAsync launches runner in its own goroutine under a cancellable
// context. It fails when a job with the same name is still running.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	j := &job{cancel: cancel}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("job %q is already running", name)
	}
	m.jobs[name] = j
	m.mu.Unlock()

	go func() {
		m.report("running:" + name)
		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}
		cancel()

		// A stopped job may have been restarted under the same name.
		// Only unregister when the entry is still ours.
		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels the named job and frees its name immediately. Stopping a job
// that is not running is an error.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("job %q is not running", name)
	}
	j.cancel()
	return nil
}

// List returns the names of running jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) report(s string) {
	if m.reporter != nil {
		m.reporter(s)
	}
}
