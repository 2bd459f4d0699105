package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomc/bcom/internal/dock"
)

// startPTY serves the terminal endpoint and reports every binary frame.
func startPTY(t *testing.T) (*httptest.Server, <-chan []byte) {
	t.Helper()
	input := make(chan []byte, 32)
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc(dock.TerminalPath, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte("bob@spark:~$ "))
		for {
			typ, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if typ == websocket.BinaryMessage {
				input <- data
			}
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, input
}

func nextInput(t *testing.T, input <-chan []byte) string {
	t.Helper()
	select {
	case p := <-input:
		return string(p)
	case <-time.After(2 * time.Second):
		t.Fatal("no input reached the PTY")
		return ""
	}
}

func newShellModel(t *testing.T) (Model, *msgRecorder, *dock.Shell, <-chan []byte) {
	t.Helper()
	srv, input := startPTY(t)
	bridge, rec := newRecordingBridge()

	toolkit := dock.NewLoader(func(context.Context) (dock.Toolkit, error) {
		return dock.Toolkit{Profile: termenv.Ascii, Fitter: dock.CellFitter{}}, nil
	})
	shell := dock.NewShell(dock.ShellOptions{
		View:     bridge,
		Toolkit:  toolkit,
		APIBase:  srv.URL,
		Label:    "DGX Spark",
		Schedule: func(_ time.Duration, fn func()) { fn() },
		OnUpdate: bridge.TerminalUpdated,
	})
	t.Cleanup(func() { _ = shell.Close() })

	sw := dock.NewSwitcher(bridge.ShowPanel)
	sw.Register(dock.ShellTab, shell)

	m, _ := newTestModel(Options{Bridge: bridge, Switcher: sw, Shell: shell})
	return m, rec, shell, input
}

// switchTo presses key, runs the switch and applies what the services posted.
func switchTo(m Model, rec *msgRecorder, key tea.KeyMsg) Model {
	m, cmd := press(m, key)
	msgs := runCmd(cmd)
	m = apply(m, rec.drain()...)
	return apply(m, msgs...)
}

func TestModel_ShellTabRoundTrip(t *testing.T) {
	m, rec, shell, input := newShellModel(t)

	m = switchTo(m, rec, runeKey('2'))

	assert.Equal(t, dock.ShellTab, m.ActiveTab())
	assert.True(t, m.ShellFocused())
	assert.False(t, m.inputRowVisible)
	assert.False(t, m.panelVisible)
	require.NotNil(t, shell.Emulator())

	// Fitted to the dock pane of a 120x40 window
	assert.Equal(t, 116, shell.Emulator().Cols())
	assert.Equal(t, dock.ExpandedRows-2, shell.Emulator().Rows())

	// Keys go to the PTY, including the ones the dashboard binds
	m, _ = press(m, runeKey('q'))
	assert.Equal(t, "q", nextInput(t, input))
	m, _ = press(m, typeKey(tea.KeyCtrlC))
	assert.Equal(t, "\x03", nextInput(t, input))
	assert.False(t, m.quitting)

	m = switchTo(m, rec, typeKey(tea.KeyCtrlCloseBracket))

	assert.Equal(t, LogTab, m.ActiveTab())
	assert.False(t, m.ShellFocused())
	assert.False(t, m.terminalVisible)
	assert.True(t, m.inputRowVisible)
	assert.True(t, m.panelVisible)
}

func TestModel_ShellRendersInDock(t *testing.T) {
	m, rec, _, _ := newShellModel(t)

	m = switchTo(m, rec, runeKey('2'))

	require.Eventually(t, func() bool {
		m = apply(m, rec.drain()...)
		return strings.Contains(stripANSI(m.View()), "bob@spark:~$")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestModel_ShellIgnoredWhenMinimized(t *testing.T) {
	m, rec, _, _ := newShellModel(t)

	m = switchTo(m, rec, runeKey('2'))
	m = apply(m, chromeMsg{chrome: dock.ChromeFor(true)})

	assert.False(t, m.ShellFocused())

	// Dashboard keys work again
	m, cmd := press(m, runeKey('q'))
	assert.True(t, m.quitting)
	assert.NotNil(t, cmd)
}

func TestModel_MinimizeKeepsShellSize(t *testing.T) {
	m, rec, shell, _ := newShellModel(t)

	m = switchTo(m, rec, runeKey('2'))
	require.NotNil(t, shell.Emulator())
	cols, rows := shell.Emulator().Cols(), shell.Emulator().Rows()

	next, cmd := m.Update(chromeMsg{chrome: dock.ChromeFor(true)})
	m = next.(Model)
	runCmd(cmd)

	assert.Equal(t, cols, shell.Emulator().Cols())
	assert.Equal(t, rows, shell.Emulator().Rows(), "the hidden dock body does not shrink the grid")

	_, cmd = m.Update(chromeMsg{chrome: dock.ChromeFor(false)})
	runCmd(cmd)
	assert.Equal(t, dock.ExpandedRows-2, shell.Emulator().Rows())
}
