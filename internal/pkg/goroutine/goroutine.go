// Package goroutine runs background work with a concurrency cap, panic
// recovery and a shutdown barrier.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/mindcarehq/mindcare/internal/pkg/stacktrace"
)

// ErrClosed is returned by Go after Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// Manager bounds the number of concurrently running tasks.
type Manager struct {
	sema chan struct{}
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
	errs   []error
}

// NewManager creates a manager that runs at most limit tasks at once.
// A non-positive limit defaults to 100 per CPU.
func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = runtime.NumCPU() * 100
	}

	return &Manager{sema: make(chan struct{}, limit)}
}

// Go runs f in a new goroutine. It blocks while the manager is at capacity
// and returns ctx.Err() if ctx ends first. Errors returned by f are collected
// and reported by Wait.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.wg.Add(1)
	m.mu.Unlock()

	select {
	case m.sema <- struct{}{}:
	case <-ctx.Done():
		m.wg.Done()
		return ctx.Err()
	}

	go func() {
		defer m.wg.Done()
		defer func() { <-m.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic occurred in goroutine",
					"panic", rvr,
					"stack", stacktrace.InternalPaths(debug.Stack()),
				)
			}
		}()

		if err := f(ctx); err != nil {
			m.mu.Lock()
			m.errs = append(m.errs, err)
			m.mu.Unlock()
		}
	}()

	return nil
}

// Wait stops accepting new tasks, waits for running ones and returns their joined errors.
func (m *Manager) Wait() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}
