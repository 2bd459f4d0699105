package monitor

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bcomc/bcom/internal/clock"
	"github.com/bcomc/bcom/internal/telemetry"
)

var testStart = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func stripANSI(s string) string {
	return ansi.Strip(s)
}

// msgRecorder stands in for (*tea.Program).Send.
type msgRecorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *msgRecorder) send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *msgRecorder) drain() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

func newRecordingBridge() (*Bridge, *msgRecorder) {
	rec := &msgRecorder{}
	b := NewBridge()
	b.Attach(rec.send)
	return b, rec
}

func newTestModel(opts Options) (Model, *clock.Fake) {
	clk := clock.NewFake(testStart)
	if opts.Clock == nil {
		opts.Clock = clk
	}
	m := NewModel(opts)
	return apply(m, tea.WindowSizeMsg{Width: 120, Height: 40}), clk
}

// apply feeds msgs through Update, dropping the returned commands.
func apply(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// press feeds a key and returns the model and command.
func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

// runCmd executes cmd and every command of a batch, returning the messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeKey(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func testEvent(msg string) telemetry.Event {
	return telemetry.Event{Time: testStart, Level: telemetry.EventInfo, Message: msg}
}
