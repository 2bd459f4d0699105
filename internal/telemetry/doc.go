// Package telemetry keeps the dashboard's metrics fresh.
//
// A Poller fetches a Snapshot from the metrics daemon on a fixed interval and
// hands it to a render function. ApplyDashboard turns a Snapshot into gauge,
// temperature bar, and text updates on a View, addressed by the element IDs
// in a Layout.
//
// # Failure handling
//
// An unconfigured base URL puts the poller in standby: ticks do nothing and
// nothing is logged. Fetch failures are reported to the event log once per
// distinct message; the next success logs a single "connected" line. There is
// no retry or backoff beyond the next scheduled tick.
//
// # Partial snapshots
//
// Every field in a Snapshot is optional. Missing, null, or mistyped values
// render as 0 (gauges and bars) or "--" (text), never as an error.
package telemetry
