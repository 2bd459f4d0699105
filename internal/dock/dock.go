package dock

import (
	"sync"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/logger"
	"github.com/bcomc/bcom/internal/store"
)

// MinimizedKey is the durable slot holding the dock state.
const MinimizedKey = "bcom-term-min"

// Stored values of MinimizedKey.
const (
	minimizedValue = "1"
	expandedValue  = "0"
)

// Minimize button glyphs and the rows reserved for the dock below the
// dashboard.
const (
	GlyphMinimized = "▲"
	GlyphExpanded  = "_"

	MinimizedRows = 2
	ExpandedRows  = 14
)

// Chrome is the presentation derived from the minimized flag.
type Chrome struct {
	Minimized    bool
	BodyVisible  bool
	Glyph        string
	ReservedRows int
}

// ChromeFor returns the chrome for the given state.
func ChromeFor(minimized bool) Chrome {
	if minimized {
		return Chrome{Minimized: true, Glyph: GlyphMinimized, ReservedRows: MinimizedRows}
	}
	return Chrome{BodyVisible: true, Glyph: GlyphExpanded, ReservedRows: ExpandedRows}
}

// DockView draws the dock frame.
type DockView interface {
	ApplyChrome(c Chrome)
}

// Dock owns the minimized flag. Every change is applied to the view and then
// written to the store.
type Dock struct {
	store store.Store
	view  DockView
	log   logger.Logger

	opMu sync.Mutex // serializes Toggle and SetMinimized

	mu        sync.Mutex
	minimized bool
}

// New returns an expanded dock. Call Restore to load the persisted state.
func New(s store.Store, v DockView, log logger.Logger) *Dock {
	if log == nil {
		log = logger.Noop()
	}
	return &Dock{store: s, view: v, log: log}
}

// Restore reads the persisted flag and applies it. An absent or unreadable
// flag means expanded; a read error is still returned after applying.
func (d *Dock) Restore() error {
	minimized := false
	var readErr error

	if d.store != nil {
		v, ok, err := d.store.Get(MinimizedKey)
		switch {
		case err != nil:
			d.log.Warn("reading dock state: %v", err)
			readErr = err
		case ok:
			minimized = v == minimizedValue
		}
	}

	if err := d.SetMinimized(minimized); err != nil {
		return err
	}
	return readErr
}

// Toggle flips the flag.
func (d *Dock) Toggle() error {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	d.mu.Lock()
	minimized := !d.minimized
	d.minimized = minimized
	d.mu.Unlock()
	return d.apply(minimized)
}

// SetMinimized applies the chrome for minimized and persists it.
func (d *Dock) SetMinimized(minimized bool) error {
	d.opMu.Lock()
	defer d.opMu.Unlock()

	d.mu.Lock()
	d.minimized = minimized
	d.mu.Unlock()
	return d.apply(minimized)
}

func (d *Dock) apply(minimized bool) error {
	if d.view != nil {
		d.view.ApplyChrome(ChromeFor(minimized))
	}

	if d.store == nil {
		return nil
	}
	value := expandedValue
	if minimized {
		value = minimizedValue
	}
	if err := d.store.Set(MinimizedKey, value); err != nil {
		return errors.WrapWithCode(err, errors.ErrStore,
			"couldn't save dock state",
			"Check that the state file directory is writable")
	}
	d.log.Debug("dock minimized=%t", minimized)
	return nil
}

// Minimized reports the current flag.
func (d *Dock) Minimized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.minimized
}

// Chrome returns the chrome for the current flag.
func (d *Dock) Chrome() Chrome {
	return ChromeFor(d.Minimized())
}
