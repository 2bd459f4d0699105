package telemetry

// View receives dashboard updates. Implementations map element IDs onto
// whatever they draw; an ID the view does not know is ignored.
type View interface {
	SetGauge(id string, g Gauge)
	SetTempBar(id string, b TempBar)
	SetText(id, text string)
}

// SparkLayout holds the element IDs for the SPARK-BOB group.
// An empty ID skips that element.
type SparkLayout struct {
	CPU     string
	GPU     string
	VRAM    string
	CPUTemp string
	VRAMGB  string
	GPUTemp string
	Uptime  string
}

// LinuxLayout holds the element IDs for the LINUX-DSKTP group.
type LinuxLayout struct {
	CPU     string
	GPU     string
	CPUTemp string
	RAMGB   string
	Uptime  string
}

// Layout maps snapshot fields to view element IDs.
type Layout struct {
	Spark SparkLayout
	Linux LinuxLayout
}

// DefaultLayout returns the IDs used by the built-in dashboard.
func DefaultLayout() Layout {
	return Layout{
		Spark: SparkLayout{
			CPU:     "spark-cpu",
			GPU:     "spark-gpu",
			VRAM:    "spark-vram",
			CPUTemp: "spark-cpu-temp",
			VRAMGB:  "vram-spark-gb",
			GPUTemp: "gpu-temp-spark",
			Uptime:  "uptime-spark",
		},
		Linux: LinuxLayout{
			CPU:     "linux-cpu",
			GPU:     "linux-gpu",
			CPUTemp: "linux-cpu-temp",
			RAMGB:   "ram-linux-gb",
			Uptime:  "uptime-linux",
		},
	}
}

// ApplyDashboard renders snap onto v. Every element in l is written on every
// call, so a snapshot fully replaces the previous render. A nil snapshot or
// group renders placeholders.
func ApplyDashboard(v View, l Layout, snap *Snapshot) {
	if snap == nil {
		snap = &Snapshot{}
	}

	s := snap.Spark
	if s == nil {
		s = &SparkMetrics{}
	}
	setGauge(v, l.Spark.CPU, s.CPUPct)
	setGauge(v, l.Spark.GPU, s.GPUPct)
	setGauge(v, l.Spark.VRAM, s.VRAMPct)
	setTempBar(v, l.Spark.CPUTemp, s.CPUTemp, SparkCPUTemp)
	setText(v, l.Spark.VRAMGB, s.VRAMGB)
	setText(v, l.Spark.GPUTemp, s.GPUTemp)
	setText(v, l.Spark.Uptime, s.Uptime)

	lx := snap.Linux
	if lx == nil {
		lx = &LinuxMetrics{}
	}
	setGauge(v, l.Linux.CPU, lx.CPUPct)
	setGauge(v, l.Linux.GPU, lx.GPUPct)
	setTempBar(v, l.Linux.CPUTemp, lx.CPUTemp, LinuxCPUTemp)
	setText(v, l.Linux.RAMGB, lx.RAMGB)
	setText(v, l.Linux.Uptime, lx.Uptime)
}

func setGauge(v View, id string, pct OptFloat) {
	if id == "" {
		return
	}
	v.SetGauge(id, NewGauge(pct.Or(0)))
}

func setTempBar(v View, id string, temp OptFloat, th Thresholds) {
	if id == "" {
		return
	}
	v.SetTempBar(id, NewTempBar(temp.Or(0), th))
}

func setText(v View, id string, t OptText) {
	if id == "" {
		return
	}
	v.SetText(id, t.Or(Placeholder))
}
