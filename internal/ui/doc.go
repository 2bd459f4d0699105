// Package ui provides the plain terminal output used by bcom's
// non-interactive commands: a status spinner, styled tables, colors and
// status symbols. The full-screen console lives in package monitor.
//
// # Color Scheme
//
// Colors are ANSI codes so output stays readable on any palette:
//
//	ColorSuccess   (green)  - Healthy readings, successful operations
//	ColorError     (red)    - Failures and critical readings
//	ColorWarning   (yellow) - Readings over the warning threshold
//	ColorMuted     (gray)   - Missing values, timing info
//
// # Spinner Usage
//
//	s := ui.NewSpinner(os.Stdout, "Polling http://spark:8090/api/metrics")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
//
// The spinner redraws its line in place, so only start it on a terminal.
package ui
