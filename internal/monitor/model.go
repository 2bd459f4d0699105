package monitor

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bcomc/bcom/internal/clock"
	"github.com/bcomc/bcom/internal/dock"
	"github.com/bcomc/bcom/internal/logger"
	"github.com/bcomc/bcom/internal/telemetry"
)

// LogTab is the dock tab showing the operator event log.
const LogTab = "log"

// DefaultActions are offered by the action picker. Triggering one only
// records it in the event log.
var DefaultActions = []string{
	"REFRESH METRICS",
	"RESTART OLLAMA",
	"RESTART DOCKER",
	"RESTART METRICS DAEMON",
}

const (
	clockInterval = time.Second
	maxEvents     = 500
)

// Width breakpoints for layout modes
const (
	BreakpointCompact = 80
	BreakpointWide    = 120
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutStacked is for terminals < 80 columns: device panels stacked, no sparklines
	LayoutStacked LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns: panels side by side, no sparklines
	LayoutCompact
	// LayoutWide is for terminals 120+ columns: panels side by side with sparklines
	LayoutWide
)

// Options wires the dashboard to its services. Every service is optional so
// the model can be driven in isolation.
type Options struct {
	Bridge   *Bridge
	Poller   *telemetry.Poller
	Interval time.Duration
	Layout   telemetry.Layout
	Dock     *dock.Dock
	Switcher *dock.Switcher
	Shell    *dock.Shell
	Clock    clock.Clock
	Logger   logger.Logger

	// Source is the metrics endpoint shown in the header. Empty means standby.
	Source  string
	Actions []string
}

type (
	clockTickMsg  time.Time
	switchDoneMsg struct {
		tab string
		err error
	}
	opErrMsg struct {
		op  string
		err error
	}
)

// Model is the Bubble Tea model of the bcom console.
type Model struct {
	opts   Options
	bridge *Bridge
	clock  clock.Clock
	log    logger.Logger

	board   *Board
	history *History
	events  []telemetry.Event
	logView viewport.Model
	spin    spinner.Model

	chrome          dock.Chrome
	activeTab       string
	panelVisible    bool
	terminalVisible bool
	inputRowVisible bool
	switching       bool

	now           time.Time
	lastUpdate    time.Time
	width, height int

	showHelp   bool
	pickerOpen bool
	pickerIdx  int
	quitting   bool
}

// NewModel builds the console with placeholder values on every gauge.
func NewModel(opts Options) Model {
	if opts.Bridge == nil {
		opts.Bridge = NewBridge()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Layout == (telemetry.Layout{}) {
		opts.Layout = telemetry.DefaultLayout()
	}
	if len(opts.Actions) == 0 {
		opts.Actions = DefaultActions
	}

	board := NewBoard()
	telemetry.ApplyDashboard(board, opts.Layout, nil)

	chrome := dock.ChromeFor(false)
	if opts.Dock != nil {
		chrome = opts.Dock.Chrome()
	}

	return Model{
		opts:            opts,
		bridge:          opts.Bridge,
		clock:           opts.Clock,
		log:             opts.Logger,
		board:           board,
		history:         NewHistory(DefaultHistorySize),
		logView:         viewport.New(0, 0),
		spin:            spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorAccent))),
		chrome:          chrome,
		activeTab:       LogTab,
		panelVisible:    true,
		inputRowVisible: true,
		now:             opts.Clock.Now(),
	}
}

// Init restores the dock, starts polling and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.restoreDockCmd(),
		m.startPollerCmd(),
		m.clockCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, m.refitCmd()

	case clockTickMsg:
		m.now = m.clock.Now()
		if b, ok := m.emulator().(interface{ Blink() }); ok {
			b.Blink()
		}
		return m, m.clockCmd()

	case snapshotMsg:
		telemetry.ApplyDashboard(m.board, m.opts.Layout, msg.snap)
		m.recordHistory()
		m.lastUpdate = m.clock.Now()

	case eventMsg:
		m.appendEvent(msg.event)

	case chromeMsg:
		m.chrome = msg.chrome
		m.resize()
		return m, m.refitCmd()

	case panelMsg:
		m.activeTab = msg.tab
		m.panelVisible = true

	case outputPanelsHiddenMsg:
		m.panelVisible = false

	case terminalVisibleMsg:
		m.terminalVisible = msg.visible

	case inputRowVisibleMsg:
		m.inputRowVisible = msg.visible
		m.resize()

	case activeTabMsg:
		m.activeTab = msg.tab

	case terminalUpdateMsg:
		// Terminal content is read from the emulator on render.

	case switchDoneMsg:
		m.switching = false
		if msg.err != nil {
			m.log.Warn("switching to %s: %v", msg.tab, msg.err)
			m.appendEvent(telemetry.Event{
				Time:    m.clock.Now(),
				Level:   telemetry.EventWarn,
				Message: "Terminal: " + msg.err.Error(),
			})
		}

	case opErrMsg:
		m.log.Warn("%s: %v", msg.op, msg.err)
		m.appendEvent(telemetry.Event{
			Time:    m.clock.Now(),
			Level:   telemetry.EventWarn,
			Message: msg.op + ": " + msg.err.Error(),
		})

	case spinner.TickMsg:
		if m.switching {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the console.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.renderConsole())
	}
	if m.pickerOpen {
		return m.renderActionPicker()
	}
	return m.renderConsole()
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func (m Model) restoreDockCmd() tea.Cmd {
	d := m.opts.Dock
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		if err := d.Restore(); err != nil {
			return opErrMsg{op: "Restoring dock state", err: err}
		}
		return nil
	}
}

func (m Model) toggleDockCmd() tea.Cmd {
	d := m.opts.Dock
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		if err := d.Toggle(); err != nil {
			return opErrMsg{op: "Saving dock state", err: err}
		}
		return nil
	}
}

func (m Model) startPollerCmd() tea.Cmd {
	p := m.opts.Poller
	if p == nil {
		return nil
	}
	interval := m.opts.Interval
	return func() tea.Msg {
		p.Start(interval)
		return nil
	}
}

func (m Model) refreshCmd() tea.Cmd {
	p := m.opts.Poller
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		p.Tick(context.Background())
		return nil
	}
}

// switchCmd activates a dock tab. Handlers post view changes through the
// bridge, so they run off the event loop.
func (m *Model) switchCmd(tab string) tea.Cmd {
	sw := m.opts.Switcher
	if sw == nil {
		m.activeTab = tab
		return nil
	}
	m.switching = true
	return tea.Batch(
		func() tea.Msg {
			return switchDoneMsg{tab: tab, err: sw.Switch(context.Background(), tab)}
		},
		m.spin.Tick,
	)
}

func (m Model) refitCmd() tea.Cmd {
	sh := m.opts.Shell
	if sh == nil || sh.Emulator() == nil {
		return nil
	}
	return func() tea.Msg {
		sh.Refit()
		return nil
	}
}

func (m Model) actionCmd(name string) tea.Cmd {
	e := telemetry.ActionEvent(m.clock.Now(), name)
	return func() tea.Msg { return eventMsg{event: e} }
}

// tabs returns the dock tabs in display order.
func (m Model) tabs() []string {
	if m.opts.Shell == nil {
		return []string{LogTab}
	}
	return []string{LogTab, dock.ShellTab}
}

func (m Model) nextTab() string {
	tabs := m.tabs()
	for i, t := range tabs {
		if t == m.activeTab {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return tabs[0]
}

func (m Model) emulator() dock.Emulator {
	if m.opts.Shell == nil {
		return nil
	}
	return m.opts.Shell.Emulator()
}

// ShellFocused reports whether keystrokes go to the remote shell.
func (m Model) ShellFocused() bool {
	return m.activeTab == dock.ShellTab && m.terminalVisible && m.chrome.BodyVisible && m.opts.Shell != nil
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutStacked
	}
}

// Events returns the operator log, oldest first.
func (m Model) Events() []telemetry.Event {
	return m.events
}

// ActiveTab returns the dock tab on display.
func (m Model) ActiveTab() string {
	return m.activeTab
}

// Chrome returns the dock chrome in effect.
func (m Model) Chrome() dock.Chrome {
	return m.chrome
}

// History returns the per-gauge sample history.
func (m Model) History() *History {
	return m.history
}

func (m *Model) recordHistory() {
	l := m.opts.Layout
	for _, id := range []string{l.Spark.CPU, l.Spark.GPU, l.Spark.VRAM, l.Linux.CPU, l.Linux.GPU} {
		if g, ok := m.board.Gauge(id); ok {
			m.history.Push(id, g.Percent)
		}
	}
}

func (m *Model) appendEvent(e telemetry.Event) {
	m.events = append(m.events, e)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	m.refreshLogView()
}

func (m *Model) refreshLogView() {
	lines := make([]string, 0, len(m.events))
	for _, e := range m.events {
		lines = append(lines, renderEvent(e))
	}
	m.logView.SetContent(strings.Join(lines, "\n"))
	m.logView.GotoBottom()
}

// dockInner returns the usable width of the dock and the rows between its
// top and bottom borders.
func (m Model) dockInner() (cols, rows int) {
	cols = m.width - 4
	if cols < 1 {
		cols = 1
	}
	rows = m.chrome.ReservedRows - 2
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

// resize lays the dock panes out for the current window and chrome.
func (m *Model) resize() {
	cols, rows := m.dockInner()
	m.bridge.setTerminalSize(cols, rows)

	logRows := rows
	if m.inputRowVisible {
		logRows--
	}
	if logRows < 1 {
		logRows = 1
	}
	m.logView.Width = cols
	m.logView.Height = logRows
	m.logView.GotoBottom()
}
