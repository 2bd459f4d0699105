package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/bcomc/bcom/internal/clock"
	"github.com/bcomc/bcom/internal/logger"
)

// DefaultInterval is used until Start is given a positive interval.
const DefaultInterval = 5 * time.Second

// Operator log messages.
const (
	ConnectedMessage = "Data source connected. Live telemetry active."
	pollErrorPrefix  = "Poll error: "
)

// RenderFunc receives every successfully fetched snapshot.
type RenderFunc func(*Snapshot)

// Options configures a Poller. Source is required; the rest have defaults.
type Options struct {
	Source   Source
	Render   RenderFunc
	Events   EventLog
	Clock    clock.Clock
	Logger   logger.Logger
	Interval time.Duration
}

// Poller periodically fetches snapshots. It tracks connectivity only to keep
// the event log free of repeated lines.
type Poller struct {
	source Source
	render RenderFunc
	events EventLog
	clock  clock.Clock
	log    logger.Logger

	mu        sync.Mutex
	interval  time.Duration
	ticker    clock.Ticker
	done      chan struct{}
	connected bool
	lastErr   string
}

// NewPoller builds a stopped poller.
func NewPoller(opts Options) *Poller {
	p := &Poller{
		source:   opts.Source,
		render:   opts.Render,
		events:   opts.Events,
		clock:    opts.Clock,
		log:      opts.Logger,
		interval: opts.Interval,
	}
	if p.render == nil {
		p.render = func(*Snapshot) {}
	}
	if p.events == nil {
		p.events = EventLogFunc(func(Event) {})
	}
	if p.clock == nil {
		p.clock = clock.Real()
	}
	if p.log == nil {
		p.log = logger.Noop()
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	return p
}

// Start (re)starts polling. A non-positive interval keeps the previous one.
// Any running ticker is stopped first, so repeated calls never leave two tick
// streams running. One tick runs immediately, then one per interval; ticks of
// a single stream never overlap.
func (p *Poller) Start(interval time.Duration) {
	p.mu.Lock()
	p.stopLocked()
	if interval > 0 {
		p.interval = interval
	}
	t := p.clock.NewTicker(p.interval)
	done := make(chan struct{})
	p.ticker, p.done = t, done
	every := p.interval
	p.mu.Unlock()

	p.log.Debug("polling every %s", every)
	go p.loop(t, done)
}

// Stop cancels the ticker. A fetch already in flight still completes and
// renders. Safe to call when not running.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.done)
	p.ticker, p.done = nil, nil
}

func (p *Poller) loop(t clock.Ticker, done <-chan struct{}) {
	p.Tick(context.Background())
	for {
		select {
		case <-done:
			return
		case <-t.C():
			select {
			case <-done:
				return
			default:
			}
			p.Tick(context.Background())
		}
	}
}

// Tick runs one poll cycle. In standby it does nothing.
func (p *Poller) Tick(ctx context.Context) {
	if p.source == nil || !p.source.Configured() {
		return
	}

	snap, err := p.source.Fetch(ctx)
	if err != nil {
		p.fail(err)
		return
	}

	p.mu.Lock()
	if !p.connected {
		p.connected = true
		p.lastErr = ""
		p.mu.Unlock()
		p.emit(EventInfo, ConnectedMessage)
		p.log.Info("metrics source connected")
	} else {
		p.mu.Unlock()
	}

	p.render(snap)
}

func (p *Poller) fail(err error) {
	msg := pollErrorPrefix + err.Error()

	p.mu.Lock()
	if p.lastErr == msg {
		p.mu.Unlock()
		p.log.Debug("suppressed repeat: %s", msg)
		return
	}
	p.lastErr = msg
	p.connected = false
	p.mu.Unlock()

	p.emit(EventWarn, msg)
	p.log.Warn("%s", msg)
}

func (p *Poller) emit(level EventLevel, msg string) {
	p.events.Log(Event{Time: p.clock.Now(), Level: level, Message: msg})
}

// Running reports whether a ticker is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ticker != nil
}

// Interval returns the current poll interval.
func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Connected reports whether the last fetch succeeded.
func (p *Poller) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// LastError returns the last logged poll error, or "" after a success.
func (p *Poller) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}
