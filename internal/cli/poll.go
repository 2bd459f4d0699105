package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/monitor"
	"github.com/bcomc/bcom/internal/telemetry"
	"github.com/bcomc/bcom/internal/ui"
)

var pollJSONFlag bool

// pollCmd fetches one snapshot and prints it
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Fetch the metrics once and print them",
	Long: `Fetch /api/metrics once and print the readings as a table.

Useful in scripts, over pipes, or to check the metrics daemon is reachable
before opening the console. Exits non-zero when the fetch fails.

Examples:
  bcom poll
  bcom poll --json
  bcom poll --api-base http://192.168.1.50:8090`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interactive := term.IsTerminal(int(os.Stdout.Fd()))
		return pollCommand(cmd.Context(), cmd.OutOrStdout(), globalOverrides(), pollJSONFlag, interactive)
	},
}

func init() {
	pollCmd.Flags().BoolVar(&pollJSONFlag, "json", false, "print the snapshot as JSON")
}

// pollCommand runs a single fetch against the configured metrics daemon.
// interactive shows a spinner while the request is in flight.
func pollCommand(ctx context.Context, w io.Writer, o Overrides, asJSON, interactive bool) error {
	s, _, err := loadSettings(o)
	if err != nil {
		return err
	}
	if s.Standby() {
		return errors.New(errors.ErrConfig,
			"No api-base-url configured",
			"Set one with 'bcom settings set api-base-url http://192.168.1.50:8090' or pass --api-base.")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	source := telemetry.NewHTTPSource(s.APIBaseURL, s.RequestTimeout)

	var spinner *ui.Spinner
	if interactive && !asJSON {
		spinner = ui.NewSpinner(w, "Polling "+source.URL())
		spinner.Start()
	}

	snap, err := source.Fetch(ctx)
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		return errors.WrapWithCode(err, errors.ErrPoll,
			"Failed to fetch "+source.URL(),
			"Check the metrics daemon is running and reachable from this machine.")
	}
	if spinner != nil {
		spinner.Success()
	}

	if asJSON {
		out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(snap, "", "  ")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrPoll, "Cannot encode the snapshot", "")
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	fmt.Fprint(w, ui.RenderMetricTable(SnapshotRows(snap)))
	return nil
}

// metricName labels one dashboard element in the poll table.
type metricName struct {
	device string
	metric string
}

// tableView collects the dashboard render of a snapshot as table rows, in
// the order the elements are rendered.
type tableView struct {
	names map[string]metricName
	rows  []ui.MetricRow
}

var _ telemetry.View = (*tableView)(nil)

func newTableView(l telemetry.Layout) *tableView {
	const spark, linux = "SPARK-BOB", "LINUX-DSKTP"
	return &tableView{names: map[string]metricName{
		l.Spark.CPU:     {spark, "CPU"},
		l.Spark.GPU:     {spark, "GPU"},
		l.Spark.VRAM:    {spark, "VRAM"},
		l.Spark.CPUTemp: {spark, "CPU TEMP"},
		l.Spark.VRAMGB:  {spark, "VRAM USED"},
		l.Spark.GPUTemp: {spark, "GPU TEMP"},
		l.Spark.Uptime:  {spark, "UPTIME"},
		l.Linux.CPU:     {linux, "CPU"},
		l.Linux.GPU:     {linux, "GPU"},
		l.Linux.CPUTemp: {linux, "CPU TEMP"},
		l.Linux.RAMGB:   {linux, "RAM USED"},
		l.Linux.Uptime:  {linux, "UPTIME"},
	}}
}

func (v *tableView) add(id, value string, status ui.MetricStatus) {
	n, ok := v.names[id]
	if !ok {
		return
	}
	v.rows = append(v.rows, ui.MetricRow{Device: n.device, Metric: n.metric, Value: value, Status: status})
}

func (v *tableView) SetGauge(id string, g telemetry.Gauge) {
	status := ui.MetricOK
	switch {
	case g.Percent >= monitor.CriticalThreshold:
		status = ui.MetricCritical
	case g.Percent >= monitor.WarningThreshold:
		status = ui.MetricWarn
	}
	v.add(id, g.Label, status)
}

func (v *tableView) SetTempBar(id string, b telemetry.TempBar) {
	status := ui.MetricOK
	switch b.Level {
	case telemetry.LevelHot:
		status = ui.MetricCritical
	case telemetry.LevelWarm:
		status = ui.MetricWarn
	}
	v.add(id, b.Label, status)
}

func (v *tableView) SetText(id, text string) {
	status := ui.MetricOK
	if text == telemetry.Placeholder {
		status = ui.MetricMissing
	}
	v.add(id, text, status)
}

// SnapshotRows renders snap the way the dashboard does and returns one row
// per element.
func SnapshotRows(snap *telemetry.Snapshot) []ui.MetricRow {
	v := newTableView(telemetry.DefaultLayout())
	telemetry.ApplyDashboard(v, telemetry.DefaultLayout(), snap)
	return v.rows
}
