package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with the CLI styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.Foreground(ColorPrimary)
	// Nothing is focused, so the selected row looks like any other.
	s.Selected = s.Selected.Foreground(ColorPrimary).Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string for CLI output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(columns, tableRows).View()
}

// MetricStatus colors the value column of a metric row.
type MetricStatus int

const (
	MetricOK MetricStatus = iota
	MetricWarn
	MetricCritical
	MetricMissing
)

// MetricRow is one line of the snapshot table printed by `bcom poll`.
type MetricRow struct {
	Device string
	Metric string
	Value  string
	Status MetricStatus
}

// Column widths of the metric table.
const (
	metricDeviceWidth = 14
	metricNameWidth   = 12
)

// RenderMetricTable renders snapshot rows with a status symbol and a colored
// value. The device name is printed only on the first row of each group.
func RenderMetricTable(rows []MetricRow) string {
	if len(rows) == 0 {
		return "No metrics"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)

	var b strings.Builder
	b.WriteString(headerStyle.Render("  " +
		padRight("DEVICE", metricDeviceWidth) +
		padRight("METRIC", metricNameWidth) +
		"VALUE"))
	b.WriteString("\n")

	lastDevice := ""
	for _, row := range rows {
		device := ""
		if row.Device != lastDevice {
			device = BoldStyle().Render(row.Device)
			lastDevice = row.Device
		}

		symbol, style := metricStatusStyle(row.Status)
		b.WriteString(style.Render(symbol) + " " +
			padRight(device, metricDeviceWidth) +
			padRight(row.Metric, metricNameWidth) +
			style.Render(row.Value) + "\n")
	}

	return b.String()
}

func metricStatusStyle(s MetricStatus) (string, lipgloss.Style) {
	switch s {
	case MetricWarn:
		return SymbolComplete, WarningStyle()
	case MetricCritical:
		return SymbolFail, ErrorStyle()
	case MetricMissing:
		return SymbolPending, MutedStyle()
	default:
		return SymbolComplete, SuccessStyle()
	}
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
