package dock

import (
	"context"
	"sync"
)

// LoadState is the lifecycle of a Loader.
type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Ready
)

func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// LoadFunc produces the loaded value.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Loader runs a load at most once at a time and caches the result. Callers
// arriving while a load is running wait for it. A failed load returns the
// loader to Unloaded so the next Get tries again.
type Loader[T any] struct {
	load LoadFunc[T]

	mu       sync.Mutex
	state    LoadState
	value    T
	err      error
	wait     chan struct{}
	attempts int
}

// NewLoader wraps fn.
func NewLoader[T any](fn LoadFunc[T]) *Loader[T] {
	return &Loader[T]{load: fn}
}

// Get returns the loaded value, loading it first if needed.
func (l *Loader[T]) Get(ctx context.Context) (T, error) {
	var zero T

	l.mu.Lock()
	switch l.state {
	case Ready:
		v := l.value
		l.mu.Unlock()
		return v, nil

	case Loading:
		wait := l.wait
		l.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.state == Ready {
			return l.value, nil
		}
		return zero, l.err
	}

	l.state = Loading
	l.attempts++
	wait := make(chan struct{})
	l.wait = wait
	l.mu.Unlock()

	v, err := l.load(ctx)

	l.mu.Lock()
	if err != nil {
		l.state = Unloaded
		l.err = err
	} else {
		l.state = Ready
		l.value = v
		l.err = nil
	}
	close(wait)
	l.mu.Unlock()

	if err != nil {
		return zero, err
	}
	return v, nil
}

// State returns the current state.
func (l *Loader[T]) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Attempts returns how many loads have been started.
func (l *Loader[T]) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}
