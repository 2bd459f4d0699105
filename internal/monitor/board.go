package monitor

import "github.com/bcomc/bcom/internal/telemetry"

// Board holds the latest rendered value of every dashboard element. It is
// the telemetry.View of the dashboard and is only touched from Update.
type Board struct {
	gauges map[string]telemetry.Gauge
	bars   map[string]telemetry.TempBar
	texts  map[string]string
}

var _ telemetry.View = (*Board)(nil)

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{
		gauges: make(map[string]telemetry.Gauge),
		bars:   make(map[string]telemetry.TempBar),
		texts:  make(map[string]string),
	}
}

func (b *Board) SetGauge(id string, g telemetry.Gauge)     { b.gauges[id] = g }
func (b *Board) SetTempBar(id string, t telemetry.TempBar) { b.bars[id] = t }
func (b *Board) SetText(id, text string)                   { b.texts[id] = text }

// Gauge returns the gauge for id, or a zero gauge when none was rendered.
func (b *Board) Gauge(id string) (telemetry.Gauge, bool) {
	g, ok := b.gauges[id]
	if !ok {
		return telemetry.NewGauge(0), false
	}
	return g, true
}

// TempBar returns the temperature bar for id.
func (b *Board) TempBar(id string) (telemetry.TempBar, bool) {
	t, ok := b.bars[id]
	return t, ok
}

// Text returns the text for id, or the placeholder.
func (b *Board) Text(id string) string {
	if t, ok := b.texts[id]; ok {
		return t
	}
	return telemetry.Placeholder
}
