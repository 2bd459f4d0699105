package monitor

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bcomc/bcom/internal/dock"
	"github.com/bcomc/bcom/internal/telemetry"
)

// Messages posted by services running outside the event loop.
type (
	snapshotMsg struct{ snap *telemetry.Snapshot }
	eventMsg    struct{ event telemetry.Event }
	chromeMsg   struct{ chrome dock.Chrome }

	// panelMsg shows the output panel of a tab that has no handler.
	panelMsg struct{ tab string }

	outputPanelsHiddenMsg struct{}
	terminalVisibleMsg    struct{ visible bool }
	inputRowVisibleMsg    struct{ visible bool }
	activeTabMsg          struct{ tab string }
	terminalUpdateMsg     struct{}
)

// Bridge adapts the dashboard services to the Bubble Tea event loop. Every
// callback becomes a message delivered through the attached send function,
// so services must only call it from commands, never from Update.
type Bridge struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	termCols int
	termRows int
}

var (
	_ telemetry.EventLog = (*Bridge)(nil)
	_ dock.DockView      = (*Bridge)(nil)
	_ dock.ShellView     = (*Bridge)(nil)
)

// NewBridge returns a bridge that drops messages until Attach is called.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach sets the delivery function, normally (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) post(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Render delivers a fetched snapshot. It satisfies telemetry.RenderFunc.
func (b *Bridge) Render(snap *telemetry.Snapshot) {
	b.post(snapshotMsg{snap: snap})
}

// Log delivers an operator event.
func (b *Bridge) Log(e telemetry.Event) {
	b.post(eventMsg{event: e})
}

// ApplyChrome delivers the dock chrome.
func (b *Bridge) ApplyChrome(c dock.Chrome) {
	b.post(chromeMsg{chrome: c})
}

// ShowPanel shows the output panel of a tab without a handler. It satisfies
// dock.FallbackFunc.
func (b *Bridge) ShowPanel(tab string) {
	b.post(panelMsg{tab: tab})
}

func (b *Bridge) HideOutputPanels() {
	b.post(outputPanelsHiddenMsg{})
}

func (b *Bridge) ShowTerminal(visible bool) {
	b.post(terminalVisibleMsg{visible: visible})
}

func (b *Bridge) ShowInputRow(visible bool) {
	b.post(inputRowVisibleMsg{visible: visible})
}

func (b *Bridge) SetActiveTab(name string) {
	b.post(activeTabMsg{tab: name})
}

// TerminalUpdated signals new terminal content.
func (b *Bridge) TerminalUpdated() {
	b.post(terminalUpdateMsg{})
}

// TerminalSize returns the size of the terminal pane in cells as of the last
// layout.
func (b *Bridge) TerminalSize() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.termCols, b.termRows
}

func (b *Bridge) setTerminalSize(cols, rows int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.termCols, b.termRows = cols, rows
}
