package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/bcomc/bcom/internal/dock"
	"github.com/bcomc/bcom/internal/telemetry"
)

const (
	defaultViewWidth = 80
	sparklineWidth   = 12
	panelValueWidth  = 10
)

var panelValueStyle = lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

// ClockText formats the header clock.
func ClockText(t time.Time) string { return t.Format("15:04:05") }

// DateText formats the header date stamp.
func DateText(t time.Time) string { return t.Format("2006/01/02") }

// FooterDateText formats the footer date stamp.
func FooterDateText(t time.Time) string { return t.Format("2006-01-02") }

type gaugeRow struct{ label, id string }

type textRow struct{ label, id string }

type panel struct {
	title    string
	uptimeID string
	gauges   []gaugeRow
	tempID   string
	texts    []textRow
}

func (m Model) panels() []panel {
	l := m.opts.Layout
	return []panel{
		{
			title:    "SPARK-BOB",
			uptimeID: l.Spark.Uptime,
			gauges:   []gaugeRow{{"CPU", l.Spark.CPU}, {"GPU", l.Spark.GPU}, {"VRAM", l.Spark.VRAM}},
			tempID:   l.Spark.CPUTemp,
			texts:    []textRow{{"VRAM", l.Spark.VRAMGB}, {"GPU TEMP", l.Spark.GPUTemp}},
		},
		{
			title:    "LINUX-DSKTP",
			uptimeID: l.Linux.Uptime,
			gauges:   []gaugeRow{{"CPU", l.Linux.CPU}, {"GPU", l.Linux.GPU}},
			tempID:   l.Linux.CPUTemp,
			texts:    []textRow{{"RAM", l.Linux.RAMGB}},
		},
	}
}

func (m Model) viewWidth() int {
	if m.width <= 0 {
		return defaultViewWidth
	}
	return m.width
}

// renderConsole renders header, device panels, dock and footer, with the
// dock pinned to the bottom of the window.
func (m Model) renderConsole() string {
	header := m.renderHeader()
	dockView := m.renderDock()
	footer := m.renderFooter()
	board := m.renderPanels()

	if m.height > 0 {
		avail := m.height - lipgloss.Height(header) - lipgloss.Height(dockView) - lipgloss.Height(footer)
		board = strings.Join(fitLines(strings.Split(board, "\n"), m.viewWidth(), avail), "\n")
	}

	parts := []string{header}
	if board != "" {
		parts = append(parts, board)
	}
	parts = append(parts, dockView, footer)
	return strings.Join(parts, "\n")
}

// renderHeader renders the title, clock, date stamp and link state.
func (m Model) renderHeader() string {
	glyph, text, style := m.linkStatus()
	sep := MutedStyle.Render(" │ ")

	parts := []string{
		TitleStyle.Render("BCOM-C"),
		ValueStyle.Render(ClockText(m.now)),
		LabelStyle.Render(DateText(m.now)),
		style.Render(glyph + " " + text),
		MutedStyle.Render(m.updatedText()),
	}

	w := m.viewWidth()
	line := ansi.Truncate(strings.Join(parts, sep), w-2, "…")
	return HeaderStyle.Width(w).Render(line)
}

func (m Model) linkStatus() (glyph, text string, style lipgloss.Style) {
	p := m.opts.Poller
	switch {
	case p == nil || m.opts.Source == "":
		return LinkStandby, "STANDBY", LinkStandbyStyle
	case p.Connected():
		return LinkLive, "LIVE", LinkLiveStyle
	case p.LastError() != "":
		return LinkDown, "OFFLINE", LinkDownStyle
	default:
		return LinkPending, "CONNECTING", LinkPendingStyle
	}
}

func (m Model) updatedText() string {
	if m.lastUpdate.IsZero() {
		return "awaiting data"
	}
	now := m.now
	if now.Before(m.lastUpdate) {
		now = m.lastUpdate
	}
	return "updated " + humanize.RelTime(m.lastUpdate, now, "ago", "from now")
}

// renderPanels renders one panel per device group, side by side when the
// terminal is wide enough.
func (m Model) renderPanels() string {
	panels := m.panels()
	w := m.viewWidth()

	rows := 0
	for _, p := range panels {
		if n := len(p.gauges) + 1 + len(p.texts); n > rows {
			rows = n
		}
	}

	if m.LayoutMode() == LayoutStacked {
		var out []string
		for _, p := range panels {
			out = append(out, m.renderPanel(p, w, rows))
		}
		return strings.Join(out, "\n")
	}

	left := w / 2
	rendered := []string{
		m.renderPanel(panels[0], left, rows),
		m.renderPanel(panels[1], w-left, rows),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderPanel(p panel, width, rows int) string {
	inner := width - 4
	value := panelValueStyle.Render("UP " + m.board.Text(p.uptimeID))

	lines := []string{SectionHeader(TitleStyle.Render(p.title), value, width)}
	content := make([]string, 0, rows)
	for _, g := range p.gauges {
		content = append(content, m.renderGaugeRow(g, inner))
	}
	content = append(content, m.renderTempRow(p.tempID, inner))
	for _, t := range p.texts {
		content = append(content, LabelStyle.Render(fmt.Sprintf("%-*s", panelValueWidth, t.label))+ValueStyle.Render(m.board.Text(t.id)))
	}
	for len(content) < rows {
		content = append(content, "")
	}

	for _, c := range content {
		lines = append(lines, SectionContentLine(ansi.Truncate(c, inner, ""), width))
	}
	lines = append(lines, SectionFooter(width))
	return strings.Join(lines, "\n")
}

// renderGaugeRow renders "CPU  ↗ ━━━━━───  37% ▂▃▅" with the sparkline
// only in the wide layout.
func (m Model) renderGaugeRow(row gaugeRow, inner int) string {
	g, _ := m.board.Gauge(row.id)

	fixed := 5 + 2 + 5
	spark := 0
	if m.LayoutMode() == LayoutWide {
		spark = sparklineWidth
		fixed += spark + 1
	}
	barWidth := inner - fixed
	if barWidth < 4 {
		barWidth = 4
	}

	needle := lipgloss.NewStyle().Foreground(MetricColor(g.Percent)).Render(NeedleGlyph(g.Needle))
	out := LabelStyle.Render(fmt.Sprintf("%-5s", row.label)) +
		needle + " " +
		GaugeBar(barWidth, g) +
		ValueStyle.Render(fmt.Sprintf("%5s", g.Label))
	if spark > 0 {
		out += " " + RenderHistory(m.history.All(row.id), spark)
	}
	return out
}

func (m Model) renderTempRow(id string, inner int) string {
	barWidth := inner - 7 - 6
	if barWidth < 4 {
		barWidth = 4
	}

	label := LabelStyle.Render(fmt.Sprintf("%-7s", "TEMP"))
	bar, ok := m.board.TempBar(id)
	if !ok {
		return label + MutedStyle.Render(strings.Repeat("▱", barWidth)+fmt.Sprintf("%6s", telemetry.Placeholder))
	}
	value := lipgloss.NewStyle().Foreground(bar.Level.Color()).Render(fmt.Sprintf("%6s", bar.Label))
	return label + TempBarView(barWidth, bar) + value
}

// renderDock renders the dock: a tab bar, then the active pane and input row
// when the body is visible.
func (m Model) renderDock() string {
	w := m.viewWidth()
	cols, rows := m.dockInner()

	glyph := TitleStyle.Render(m.chrome.Glyph)
	lines := []string{SectionHeader(m.renderTabs(), glyph, w)}
	if m.chrome.BodyVisible {
		for _, l := range m.dockBody(cols, rows) {
			lines = append(lines, SectionContentLine(l, w))
		}
	}
	lines = append(lines, SectionFooter(w))
	return strings.Join(lines, "\n")
}

func (m Model) renderTabs() string {
	var b strings.Builder
	for _, t := range m.tabs() {
		style := TabStyle
		if t == m.activeTab {
			style = TabActiveStyle
		}
		b.WriteString(style.Render(strings.ToUpper(t)))
	}
	return b.String()
}

func (m Model) dockBody(cols, rows int) []string {
	bodyRows := rows
	if m.inputRowVisible {
		bodyRows--
	}

	var body []string
	switch {
	case m.activeTab == dock.ShellTab && m.terminalVisible:
		body = m.terminalLines()
		if len(body) > bodyRows && bodyRows > 0 {
			body = body[len(body)-bodyRows:]
		}
	case m.panelVisible:
		body = m.panelLines()
	}

	body = fitLines(body, cols, bodyRows)
	if m.inputRowVisible && rows > 0 {
		body = append(body, ansi.Truncate(m.renderInputRow(), cols, ""))
	}
	return body
}

func (m Model) terminalLines() []string {
	emu := m.emulator()
	if emu == nil {
		if m.switching {
			return []string{m.spin.View() + " " + LabelStyle.Render("Loading terminal…")}
		}
		return []string{MutedStyle.Render("Terminal unavailable. Press 2 to retry.")}
	}
	return strings.Split(emu.View(), "\n")
}

func (m Model) panelLines() []string {
	if m.activeTab != LogTab {
		return []string{MutedStyle.Render("No output.")}
	}
	if len(m.events) == 0 {
		return []string{MutedStyle.Render("No events yet.")}
	}
	return strings.Split(m.logView.View(), "\n")
}

func (m Model) renderInputRow() string {
	return TitleStyle.Render("›") + " " +
		MutedStyle.Render("a actions · r refresh · m minimize · tab switch · ? help")
}

// renderFooter renders the date stamp, data source and key hints.
func (m Model) renderFooter() string {
	source := m.opts.Source
	if source == "" {
		source = "standby"
	}

	hint := "q quit · ? help"
	if m.ShellFocused() {
		hint = "ctrl+] leave shell"
	}

	parts := []string{FooterDateText(m.now), "src " + source, hint}
	return FooterStyle.Render(ansi.Truncate(strings.Join(parts, " · "), m.viewWidth()-2, "…"))
}

func renderEvent(e telemetry.Event) string {
	style := LogInfoStyle
	if e.Level == telemetry.EventWarn {
		style = LogWarnStyle
	}
	return LogTimeStyle.Render(ClockText(e.Time)) + "  " + style.Render(e.Message)
}

// fitLines truncates lines to cols and pads or cuts them to exactly rows.
func fitLines(lines []string, cols, rows int) []string {
	if rows <= 0 {
		return nil
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}
	out := make([]string, 0, rows)
	for _, l := range lines {
		out = append(out, ansi.Truncate(l, cols, ""))
	}
	for len(out) < rows {
		out = append(out, "")
	}
	return out
}
