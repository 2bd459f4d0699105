package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bcomc/bcom/internal/telemetry"
)

func TestBoard(t *testing.T) {
	b := NewBoard()

	g, ok := b.Gauge("spark-cpu")
	assert.False(t, ok)
	assert.Equal(t, "0%", g.Label)

	_, ok = b.TempBar("spark-cpu-temp")
	assert.False(t, ok)
	assert.Equal(t, telemetry.Placeholder, b.Text("uptime-spark"))

	telemetry.ApplyDashboard(b, telemetry.DefaultLayout(), &telemetry.Snapshot{
		Linux: &telemetry.LinuxMetrics{
			CPUPct:  telemetry.Float(88.5),
			CPUTemp: telemetry.Float(86),
			Uptime:  telemetry.Text("5d 3h"),
		},
	})

	g, ok = b.Gauge("linux-cpu")
	assert.True(t, ok)
	assert.Equal(t, "89%", g.Label)

	bar, ok := b.TempBar("linux-cpu-temp")
	assert.True(t, ok)
	assert.Equal(t, telemetry.LevelHot, bar.Level)
	assert.Equal(t, "5d 3h", b.Text("uptime-linux"))
	assert.Equal(t, telemetry.Placeholder, b.Text("uptime-spark"))
}
