package telemetry

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errEmptyBody = errors.New("empty body")
	errNotObject = errors.New("body is not a JSON object")
)

// OptFloat is a numeric field that may be absent.
type OptFloat struct {
	Value float64
	Valid bool
}

// Float returns a present OptFloat.
func Float(v float64) OptFloat {
	return OptFloat{Value: v, Valid: true}
}

// Or returns the value, or def when absent.
func (f OptFloat) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// UnmarshalJSON accepts numbers and numeric strings ("42", "42.5%", "78°C").
// Anything else leaves the field absent instead of failing the snapshot.
func (f *OptFloat) UnmarshalJSON(data []byte) error {
	*f = OptFloat{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
		text = strings.TrimSuffix(text, "%")
		text = strings.TrimSuffix(text, "°C")
		text = strings.TrimSpace(text)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// MarshalJSON writes null for absent values.
func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f.Value, 'f', -1, 64)), nil
}

// OptText is a pre-formatted display string that may be absent.
type OptText struct {
	Value string
	Valid bool
}

// Text returns a present OptText.
func Text(s string) OptText {
	return OptText{Value: s, Valid: true}
}

// Or returns the value, or def when absent.
func (t OptText) Or(def string) string {
	if !t.Valid {
		return def
	}
	return t.Value
}

// UnmarshalJSON accepts strings verbatim and scalars by their JSON literal.
// Objects and arrays leave the field absent.
func (t *OptText) UnmarshalJSON(data []byte) error {
	*t = OptText{}

	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		t.Value, t.Valid = s, true
	case '{', '[':
		return nil
	default:
		t.Value, t.Valid = string(raw), true
	}
	return nil
}

// MarshalJSON writes null for absent values.
func (t OptText) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}

// SparkMetrics is the SPARK-BOB device group.
type SparkMetrics struct {
	CPUPct  OptFloat `json:"cpu_pct"`
	GPUPct  OptFloat `json:"gpu_pct"`
	VRAMPct OptFloat `json:"vram_pct"`
	CPUTemp OptFloat `json:"cpu_temp"`
	VRAMGB  OptText  `json:"vram_gb"`
	GPUTemp OptText  `json:"gpu_temp"`
	Uptime  OptText  `json:"uptime"`
}

// LinuxMetrics is the LINUX-DSKTP device group.
type LinuxMetrics struct {
	CPUPct  OptFloat `json:"cpu_pct"`
	GPUPct  OptFloat `json:"gpu_pct"`
	CPUTemp OptFloat `json:"cpu_temp"`
	RAMGB   OptText  `json:"ram_gb"`
	Uptime  OptText  `json:"uptime"`
}

// Snapshot is one /api/metrics payload. Either group may be nil.
type Snapshot struct {
	Spark *SparkMetrics `json:"spark,omitempty"`
	Linux *LinuxMetrics `json:"linux,omitempty"`
}

// UnmarshalJSON requires a JSON object (or null) at the top level. A group
// that is null or not an object is treated as absent.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Snapshot{}
	if b, ok := raw["spark"]; ok && isObject(b) {
		var m SparkMetrics
		if json.Unmarshal(b, &m) == nil {
			s.Spark = &m
		}
	}
	if b, ok := raw["linux"]; ok && isObject(b) {
		var m LinuxMetrics
		if json.Unmarshal(b, &m) == nil {
			s.Linux = &m
		}
	}
	return nil
}

// DecodeSnapshot parses a metrics payload.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyBody
	}
	if !isObject(data) {
		return nil, errNotObject
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}
