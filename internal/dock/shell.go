package dock

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bcomc/bcom/internal/logger"
)

// RefitDelay lets the layout settle before the grid is fitted after
// activation.
const RefitDelay = 100 * time.Millisecond

// ShellView is the part of the UI the shell tab drives.
type ShellView interface {
	// HideOutputPanels hides the output panel of every other tab.
	HideOutputPanels()
	ShowTerminal(visible bool)
	ShowInputRow(visible bool)
	SetActiveTab(name string)
	// TerminalSize is the terminal container size in cells.
	TerminalSize() (width, height int)
}

// ShellOptions configures a Shell. View and Toolkit are required.
type ShellOptions struct {
	View    ShellView
	Dock    *Dock
	Toolkit *Loader[Toolkit]

	APIBase string
	Label   string
	Dialer  *websocket.Dialer

	// NewEmulator builds the emulator once the toolkit is loaded.
	NewEmulator func(Toolkit) Emulator
	// Schedule runs fn after d; time.AfterFunc by default.
	Schedule func(d time.Duration, fn func())
	// OnUpdate is called whenever terminal content or state changes.
	OnUpdate func()
	Logger   logger.Logger
}

// Shell is the handler of the shell tab. The emulator and session are built
// on first activation and reused afterwards.
type Shell struct {
	opts ShellOptions
	log  logger.Logger

	mu      sync.Mutex
	emu     Emulator
	fitter  Fitter
	session *Session
}

// NewShell returns a shell handler with nothing loaded.
func NewShell(opts ShellOptions) *Shell {
	if opts.NewEmulator == nil {
		opts.NewEmulator = DefaultEmulator
	}
	if opts.Schedule == nil {
		opts.Schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	return &Shell{opts: opts, log: log}
}

// DefaultEmulator builds a Screen with the dock theme.
func DefaultEmulator(tk Toolkit) Emulator {
	return NewScreen(ScreenOptions{
		Theme:       DefaultTheme(),
		Profile:     tk.Profile,
		Scrollback:  DefaultScrollback,
		CursorBlink: true,
	})
}

// Activate shows the terminal, then loads, instantiates and connects as
// needed. Each step is skipped when already done.
func (s *Shell) Activate(ctx context.Context) error {
	s.Show()
	return s.Load(ctx)
}

// Show hides the other panels, shows the terminal and expands the dock.
func (s *Shell) Show() {
	v := s.opts.View
	v.HideOutputPanels()
	v.ShowTerminal(true)
	v.ShowInputRow(false)
	v.SetActiveTab(ShellTab)

	if d := s.opts.Dock; d != nil && d.Minimized() {
		if err := d.SetMinimized(false); err != nil {
			s.log.Warn("expanding dock: %v", err)
		}
	}
}

// Load loads the toolkit, builds the emulator and connects the session. It
// may block for the whole dial.
func (s *Shell) Load(ctx context.Context) error {
	tk, err := s.opts.Toolkit.Get(ctx)
	if err != nil {
		s.log.Warn("terminal toolkit: %v", err)
		return err
	}

	session := s.instantiate(tk)
	err = session.Connect(ctx)
	s.opts.Schedule(RefitDelay, s.Refit)
	return err
}

// Deactivate hides the terminal and restores the input row.
func (s *Shell) Deactivate() {
	s.opts.View.ShowTerminal(false)
	s.opts.View.ShowInputRow(true)
}

func (s *Shell) instantiate(tk Toolkit) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return s.session
	}

	emu := s.opts.NewEmulator(tk)
	s.emu = emu
	s.fitter = tk.Fitter
	if s.fitter != nil {
		if w, h := s.opts.View.TerminalSize(); w > 0 && h > 0 {
			emu.Resize(s.fitter.Fit(w, h))
		}
	}

	s.session = NewSession(SessionOptions{
		URL:      TerminalURL(s.opts.APIBase),
		Label:    s.opts.Label,
		Output:   emu,
		Size:     func() (int, int) { return emu.Cols(), emu.Rows() },
		Dialer:   s.opts.Dialer,
		Logger:   s.log,
		OnUpdate: s.opts.OnUpdate,
	})
	session := s.session
	emu.OnData(func(p []byte) {
		if err := session.SendInput(p); err != nil {
			s.log.Warn("terminal input: %v", err)
		}
	})
	s.log.Debug("terminal instantiated (%dx%d)", emu.Cols(), emu.Rows())
	return s.session
}

// Refit fits the grid to the container and sends the new size when open.
// Without a fit helper, or while the dock body is hidden, it does nothing.
func (s *Shell) Refit() {
	s.mu.Lock()
	emu, fitter, session := s.emu, s.fitter, s.session
	s.mu.Unlock()
	if emu == nil || fitter == nil {
		return
	}
	if d := s.opts.Dock; d != nil && d.Minimized() {
		return
	}

	w, h := s.opts.View.TerminalSize()
	if w <= 0 || h <= 0 {
		return
	}
	cols, rows := fitter.Fit(w, h)
	emu.Resize(cols, rows)
	if err := session.SendResize(cols, rows); err != nil {
		s.log.Warn("terminal resize: %v", err)
	}
	if s.opts.OnUpdate != nil {
		s.opts.OnUpdate()
	}
}

// Input forwards typed bytes to the emulator, which sends them when open.
func (s *Shell) Input(p []byte) {
	s.mu.Lock()
	emu := s.emu
	s.mu.Unlock()
	if emu != nil {
		emu.Input(p)
	}
}

// Emulator returns the emulator, or nil before the first activation.
func (s *Shell) Emulator() Emulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emu
}

// Session returns the transport, or nil before the first activation.
func (s *Shell) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Close shuts the transport down.
func (s *Shell) Close() error {
	if session := s.Session(); session != nil {
		return session.Close()
	}
	return nil
}
