package dock

import (
	"context"
	"sync"
)

// ShellTab is the reserved tab name of the terminal.
const ShellTab = "shell"

// TabHandler takes over the output area while its tab is active.
type TabHandler interface {
	Activate(ctx context.Context) error
	Deactivate()
}

// StagedHandler is a TabHandler whose activation has a quick view change and
// slow work after it. Switch runs Show under the switch lock and Load after
// releasing it, so a later switch does not wait for Load.
type StagedHandler interface {
	TabHandler
	Show()
	Load(ctx context.Context) error
}

// FallbackFunc presents a tab no handler is registered for.
type FallbackFunc func(name string)

// Switcher routes tab switches to registered handlers. Tabs without a handler
// go to the fallback, which keeps the plain output-panel behavior.
type Switcher struct {
	fallback FallbackFunc

	switchMu sync.Mutex // serializes Switch

	mu       sync.Mutex
	handlers map[string]TabHandler
	active   string
}

// NewSwitcher returns a switcher with the given fallback (may be nil).
func NewSwitcher(fallback FallbackFunc) *Switcher {
	return &Switcher{
		fallback: fallback,
		handlers: make(map[string]TabHandler),
	}
}

// Register installs h for name, replacing any earlier handler.
func (s *Switcher) Register(name string, h TabHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = h
}

// Switch makes name the active tab. Leaving a handled tab deactivates its
// handler first. Switching to the already active handled tab activates it
// again, which its handler must tolerate.
func (s *Switcher) Switch(ctx context.Context, name string) error {
	s.switchMu.Lock()

	s.mu.Lock()
	prev := s.active
	prevHandler := s.handlers[prev]
	next, handled := s.handlers[name]
	s.active = name
	s.mu.Unlock()

	if prevHandler != nil && prev != name {
		prevHandler.Deactivate()
	}
	if !handled {
		if s.fallback != nil {
			s.fallback(name)
		}
		s.switchMu.Unlock()
		return nil
	}

	staged, ok := next.(StagedHandler)
	if !ok {
		defer s.switchMu.Unlock()
		return next.Activate(ctx)
	}
	staged.Show()
	s.switchMu.Unlock()
	return staged.Load(ctx)
}

// Active returns the current tab name, or "" before the first switch.
func (s *Switcher) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
