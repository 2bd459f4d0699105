package monitor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomc/bcom/internal/dock"
	"github.com/bcomc/bcom/internal/store"
	"github.com/bcomc/bcom/internal/telemetry"
)

func TestNewModel(t *testing.T) {
	m, _ := newTestModel(Options{})

	assert.Equal(t, LogTab, m.ActiveTab())
	assert.False(t, m.Chrome().Minimized)
	assert.Equal(t, DefaultActions, m.opts.Actions)
	assert.Equal(t, telemetry.DefaultLayout(), m.opts.Layout)
	assert.Equal(t, testStart, m.now)

	// Every element starts as a placeholder
	g, ok := m.board.Gauge("spark-cpu")
	require.True(t, ok)
	assert.Equal(t, "0%", g.Label)
	assert.Equal(t, telemetry.Placeholder, m.board.Text("uptime-spark"))
	assert.Equal(t, telemetry.Placeholder, m.board.Text("ram-linux-gb"))
}

func TestModel_Init(t *testing.T) {
	m, _ := newTestModel(Options{})
	assert.NotNil(t, m.Init())
}

func TestModel_View_Quitting(t *testing.T) {
	m, _ := newTestModel(Options{})
	m.quitting = true
	assert.Empty(t, m.View())
}

func TestModel_SnapshotUpdatesBoardAndHistory(t *testing.T) {
	m, clk := newTestModel(Options{})

	snap := &telemetry.Snapshot{
		Spark: &telemetry.SparkMetrics{
			CPUPct:  telemetry.Float(37),
			CPUTemp: telemetry.Float(78),
			Uptime:  telemetry.Text("2d 14h"),
		},
	}
	clk.Advance(2 * time.Second)
	m = apply(m, snapshotMsg{snap: snap})

	g, _ := m.board.Gauge("spark-cpu")
	assert.Equal(t, "37%", g.Label)
	bar, ok := m.board.TempBar("spark-cpu-temp")
	require.True(t, ok)
	assert.Equal(t, telemetry.LevelWarm, bar.Level)
	assert.Equal(t, "2d 14h", m.board.Text("uptime-spark"))
	assert.Equal(t, telemetry.Placeholder, m.board.Text("uptime-linux"))
	assert.Equal(t, testStart.Add(2*time.Second), m.lastUpdate)

	m = apply(m, snapshotMsg{snap: &telemetry.Snapshot{Spark: &telemetry.SparkMetrics{CPUPct: telemetry.Float(55)}}})

	assert.Equal(t, []float64{37, 55}, m.History().All("spark-cpu"))
	// Absent values render as zero and are still sampled
	assert.Equal(t, []float64{0, 0}, m.History().All("linux-gpu"))
}

func TestModel_SnapshotReplacesPreviousRender(t *testing.T) {
	m, _ := newTestModel(Options{})

	m = apply(m, snapshotMsg{snap: &telemetry.Snapshot{Linux: &telemetry.LinuxMetrics{RAMGB: telemetry.Text("28.1 GB")}}})
	assert.Equal(t, "28.1 GB", m.board.Text("ram-linux-gb"))

	m = apply(m, snapshotMsg{snap: &telemetry.Snapshot{}})
	assert.Equal(t, telemetry.Placeholder, m.board.Text("ram-linux-gb"))
}

func TestModel_EventsAreBounded(t *testing.T) {
	m, _ := newTestModel(Options{})

	for i := 0; i < maxEvents+5; i++ {
		m = apply(m, eventMsg{event: telemetry.Event{Time: testStart, Level: telemetry.EventInfo, Message: fmt.Sprintf("line %d", i)}})
	}

	events := m.Events()
	require.Len(t, events, maxEvents)
	assert.Equal(t, "line 5", events[0].Message)
	assert.Equal(t, fmt.Sprintf("line %d", maxEvents+4), events[len(events)-1].Message)
	assert.True(t, m.logView.AtBottom())
}

func TestModel_ClockTick(t *testing.T) {
	m, clk := newTestModel(Options{})

	clk.Advance(90 * time.Second)
	next, cmd := m.Update(clockTickMsg(clk.Now()))
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Equal(t, testStart.Add(90*time.Second), m.now)
	assert.Contains(t, stripANSI(m.renderHeader()), "09:31:30")
}

func TestModel_ChromeMsg(t *testing.T) {
	m, _ := newTestModel(Options{})

	m = apply(m, chromeMsg{chrome: dock.ChromeFor(true)})
	assert.True(t, m.Chrome().Minimized)

	cols, rows := m.bridge.TerminalSize()
	assert.Equal(t, 116, cols)
	assert.Equal(t, 0, rows)

	m = apply(m, chromeMsg{chrome: dock.ChromeFor(false)})
	cols, rows = m.bridge.TerminalSize()
	assert.Equal(t, 116, cols)
	assert.Equal(t, dock.ExpandedRows-2, rows)
}

func TestModel_ShellViewMessages(t *testing.T) {
	m, _ := newTestModel(Options{})

	m = apply(m,
		outputPanelsHiddenMsg{},
		terminalVisibleMsg{visible: true},
		inputRowVisibleMsg{visible: false},
		activeTabMsg{tab: dock.ShellTab},
	)

	assert.False(t, m.panelVisible)
	assert.True(t, m.terminalVisible)
	assert.False(t, m.inputRowVisible)
	assert.Equal(t, dock.ShellTab, m.ActiveTab())
	// No shell configured, so keys stay with the dashboard
	assert.False(t, m.ShellFocused())

	m = apply(m, panelMsg{tab: LogTab})
	assert.True(t, m.panelVisible)
	assert.Equal(t, LogTab, m.ActiveTab())
}

func TestModel_SwitchFailureIsLogged(t *testing.T) {
	m, _ := newTestModel(Options{})
	m.switching = true

	m = apply(m, switchDoneMsg{tab: dock.ShellTab, err: errors.New("toolkit unavailable")})

	assert.False(t, m.switching)
	require.Len(t, m.Events(), 1)
	assert.Equal(t, telemetry.EventWarn, m.Events()[0].Level)
	assert.Contains(t, m.Events()[0].Message, "toolkit unavailable")
}

func TestModel_OpErrorIsLogged(t *testing.T) {
	m, _ := newTestModel(Options{})

	m = apply(m, opErrMsg{op: "Saving dock state", err: errors.New("disk full")})

	require.Len(t, m.Events(), 1)
	assert.Equal(t, "Saving dock state: disk full", m.Events()[0].Message)
}

func TestModel_DockRestoreAndToggle(t *testing.T) {
	bridge, rec := newRecordingBridge()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(dock.MinimizedKey, "1"))
	d := dock.New(st, bridge, nil)

	m, _ := newTestModel(Options{Bridge: bridge, Dock: d})

	runCmd(m.restoreDockCmd())
	m = apply(m, rec.drain()...)
	assert.True(t, m.Chrome().Minimized)

	m, cmd := press(m, runeKey('m'))
	runCmd(cmd)
	m = apply(m, rec.drain()...)
	assert.False(t, m.Chrome().Minimized)

	v, ok, err := st.Get(dock.MinimizedKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0", v)
}

func TestModel_SwitchToHandlerlessTab(t *testing.T) {
	bridge, rec := newRecordingBridge()
	sw := dock.NewSwitcher(bridge.ShowPanel)

	m, _ := newTestModel(Options{Bridge: bridge, Switcher: sw})
	m = apply(m, outputPanelsHiddenMsg{})

	m, cmd := press(m, runeKey('1'))
	assert.True(t, m.switching)

	msgs := runCmd(cmd)
	m = apply(m, rec.drain()...)
	m = apply(m, msgs...)

	assert.False(t, m.switching)
	assert.True(t, m.panelVisible)
	assert.Equal(t, LogTab, m.ActiveTab())
	assert.Equal(t, LogTab, sw.Active())
}

func TestModel_RefreshPollsOnce(t *testing.T) {
	src := &countingSource{}
	bridge, rec := newRecordingBridge()
	p := telemetry.NewPoller(telemetry.Options{Source: src, Render: bridge.Render, Events: bridge})

	m, _ := newTestModel(Options{Bridge: bridge, Poller: p, Source: "http://spark:8090"})

	m, cmd := press(m, runeKey('r'))
	runCmd(cmd)
	m = apply(m, rec.drain()...)

	assert.Equal(t, 1, src.calls)
	require.Len(t, m.Events(), 1)
	assert.Equal(t, telemetry.ConnectedMessage, m.Events()[0].Message)
	g, _ := m.board.Gauge("linux-cpu")
	assert.Equal(t, "12%", g.Label)
	assert.Contains(t, stripANSI(m.renderHeader()), "LIVE")
}

func TestModel_ActionPicker(t *testing.T) {
	m, clk := newTestModel(Options{Actions: []string{"REFRESH METRICS", "RESTART OLLAMA"}})
	clk.Advance(time.Minute)

	m, _ = press(m, runeKey('a'))
	assert.True(t, m.pickerOpen)
	assert.Contains(t, stripANSI(m.View()), "Operator Actions")

	m, _ = press(m, runeKey('j'))
	m, _ = press(m, runeKey('j')) // stays on the last entry
	assert.Equal(t, 1, m.pickerIdx)

	m, cmd := press(m, typeKey(tea.KeyEnter))
	assert.False(t, m.pickerOpen)
	m = apply(m, runCmd(cmd)...)

	require.Len(t, m.Events(), 1)
	e := m.Events()[0]
	assert.Equal(t, "CMD: RESTART OLLAMA — initiated by operator", e.Message)
	assert.Equal(t, telemetry.EventWarn, e.Level)
	assert.Equal(t, testStart.Add(time.Minute), e.Time)
}

func TestModel_ActionPickerCancel(t *testing.T) {
	m, _ := newTestModel(Options{})

	m, _ = press(m, runeKey('a'))
	m, cmd := press(m, typeKey(tea.KeyEsc))

	assert.False(t, m.pickerOpen)
	assert.Nil(t, cmd)
	assert.Empty(t, m.Events())
}

func TestModel_LayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutStacked},
		{79, LayoutStacked},
		{80, LayoutCompact},
		{119, LayoutCompact},
		{120, LayoutWide},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		m := Model{width: tt.width}
		assert.Equal(t, tt.want, m.LayoutMode(), "width=%d", tt.width)
	}
}

// countingSource serves a fixed snapshot and counts fetches.
type countingSource struct {
	calls int
}

func (s *countingSource) Configured() bool { return true }

func (s *countingSource) Fetch(_ context.Context) (*telemetry.Snapshot, error) {
	s.calls++
	return &telemetry.Snapshot{Linux: &telemetry.LinuxMetrics{CPUPct: telemetry.Float(12)}}, nil
}
