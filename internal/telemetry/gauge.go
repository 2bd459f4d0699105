package telemetry

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Gauge geometry. The dial is a circle of radius 50 whose stroke is revealed
// from a dash offset, with a needle sweeping 270 degrees.
const (
	GaugeRadius = 50.0
	NeedleSweep = 270.0
	NeedleMin   = -135.0
	NeedleMax   = NeedleMin + NeedleSweep
)

// Circumference is the stroke length of the gauge dial.
var Circumference = 2 * math.Pi * GaugeRadius

// Placeholder is shown for any absent text field.
const Placeholder = "--"

// Gauge is the rendered state of one circular gauge.
type Gauge struct {
	Percent float64
	Offset  float64 // stroke-dashoffset: Circumference at 0%, 0 at 100%
	Needle  float64 // rotation in degrees: -135 at 0%, +135 at 100%
	Label   string
}

// NewGauge computes gauge geometry for a percentage.
func NewGauge(pct float64) Gauge {
	return Gauge{
		Percent: pct,
		Offset:  Circumference - (pct/100)*Circumference,
		Needle:  (pct/100)*NeedleSweep + NeedleMin,
		Label:   strconv.Itoa(roundHalfUp(pct)) + "%",
	}
}

// Fill returns the revealed fraction of the dial, clamped to [0, 1].
func (g Gauge) Fill() float64 {
	return clamp01((Circumference - g.Offset) / Circumference)
}

// Level is the severity band of a temperature reading.
type Level int

const (
	LevelSafe Level = iota
	LevelWarm
	LevelHot
)

// String returns the color name of the band.
func (l Level) String() string {
	switch l {
	case LevelSafe:
		return "green"
	case LevelWarm:
		return "amber"
	case LevelHot:
		return "red"
	default:
		return "unknown"
	}
}

// Color returns the display color of the band.
func (l Level) Color() lipgloss.Color {
	switch l {
	case LevelWarm:
		return lipgloss.Color("#f39c12")
	case LevelHot:
		return lipgloss.Color("#e74c3c")
	default:
		return lipgloss.Color("#2ecc71")
	}
}

// Thresholds are the per-field temperature constants in °C.
type Thresholds struct {
	SafeMax    float64 // below this is green
	WarnMax    float64 // at or above this is red
	DisplayMax float64 // bar is full at this temperature
}

// Temperature thresholds for each CPU temperature bar.
var (
	SparkCPUTemp = Thresholds{SafeMax: 70, WarnMax: 90, DisplayMax: 110}
	LinuxCPUTemp = Thresholds{SafeMax: 70, WarnMax: 85, DisplayMax: 100}
)

// LevelFor classifies temp against th.
func (th Thresholds) LevelFor(temp float64) Level {
	switch {
	case temp >= th.WarnMax:
		return LevelHot
	case temp >= th.SafeMax:
		return LevelWarm
	default:
		return LevelSafe
	}
}

// TempBar is the rendered state of one temperature bar.
type TempBar struct {
	Temp  float64
	Width float64 // percent of the track, 0..100
	Level Level
	Label string
}

// NewTempBar computes the bar for temp.
func NewTempBar(temp float64, th Thresholds) TempBar {
	width := 0.0
	if th.DisplayMax > 0 {
		width = math.Min(100, temp/th.DisplayMax*100)
	}
	if width < 0 {
		width = 0
	}
	return TempBar{
		Temp:  temp,
		Width: width,
		Level: th.LevelFor(temp),
		Label: strconv.Itoa(roundHalfUp(temp)) + "°C",
	}
}

// roundHalfUp rounds .5 toward +Inf, so -0.5 becomes 0 and 2.5 becomes 3.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
