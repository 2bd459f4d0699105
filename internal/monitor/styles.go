package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bcomc/bcom/internal/telemetry"
)

// Console palette, matched to the terminal theme.
const (
	ColorDarkBg    = lipgloss.Color("#080808")
	ColorSurfaceBg = lipgloss.Color("#111111")
	ColorBorder    = lipgloss.Color("#2a2a2a")

	ColorHealthy  = lipgloss.Color("#2ecc71")
	ColorWarning  = lipgloss.Color("#f39c12")
	ColorCritical = lipgloss.Color("#e74c3c")

	ColorTextPrimary   = lipgloss.Color("#e0e0e0")
	ColorTextSecondary = lipgloss.Color("#a0a0a0")
	ColorTextMuted     = lipgloss.Color("#555555")

	ColorAccent    = lipgloss.Color("#e87d2b")
	ColorAccentDim = lipgloss.Color("#8a4a1a")

	ColorGraph = lipgloss.Color("#7fb3cc")
)

// Gauge load thresholds in percent.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	LogTimeStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	LogInfoStyle = lipgloss.NewStyle().
			Foreground(ColorGraph)

	LogWarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	LinkLiveStyle    = lipgloss.NewStyle().Foreground(ColorHealthy).Bold(true)
	LinkDownStyle    = lipgloss.NewStyle().Foreground(ColorCritical).Bold(true)
	LinkStandbyStyle = lipgloss.NewStyle().Foreground(ColorTextMuted).Bold(true)
	LinkPendingStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
)

// Link state glyphs.
const (
	LinkLive    = "●"
	LinkDown    = "✗"
	LinkStandby = "○"
	LinkPending = "◐"
)

// needleGlyphs quantize the needle angle into eight compass arrows, starting
// at -135 degrees in 45 degree steps.
var needleGlyphs = []string{"↙", "←", "↖", "↑", "↗", "→", "↘"}

// NeedleGlyph returns the arrow closest to the needle angle.
func NeedleGlyph(deg float64) string {
	idx := int((deg-telemetry.NeedleMin)/45 + 0.5)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(needleGlyphs) {
		idx = len(needleGlyphs) - 1
	}
	return needleGlyphs[idx]
}

// MetricColor returns the load color of a percentage.
func MetricColor(percent float64) lipgloss.Color {
	return MetricColorWithThresholds(percent, int(WarningThreshold), int(CriticalThreshold))
}

// MetricColorWithThresholds returns the appropriate color for a percentage-based metric
// using the provided warning and critical threshold values.
func MetricColorWithThresholds(percent float64, warning, critical int) lipgloss.Color {
	switch {
	case percent >= float64(critical):
		return ColorCritical
	case percent >= float64(warning):
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// GaugeBar renders a gauge as a thin arc-like bar. The revealed fraction
// comes from the gauge's dash offset.
func GaugeBar(width int, g telemetry.Gauge) string {
	return thinBar(width, g.Fill(), MetricColor(g.Percent))
}

// TempBarView renders a temperature bar in the color of its level.
func TempBarView(width int, b telemetry.TempBar) string {
	if width < 1 {
		width = 1
	}
	filled := int(b.Width / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return lipgloss.NewStyle().Foreground(b.Level.Color()).Render(bar)
}

func thinBar(width int, fill float64, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}
	filled := int(fill * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		lipgloss.NewStyle().Foreground(ColorBorder).Render(strings.Repeat("─", width-filled))
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Both are drawn as given, so callers style them.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	return borderStyle.Render("╭─ ") +
		title +
		borderStyle.Render(" "+middle+" ") +
		value +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, properly padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	innerWidth := width - 4
	padding := innerWidth - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
