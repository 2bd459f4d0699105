// Package cli implements the bcom command-line interface.
//
// Each cobra command delegates to a plain function taking an io.Writer and
// the parsed flags, so commands can be exercised without a terminal.
//
// # Command Structure
//
//	bcom                      - Open the console (same as bcom dash)
//	bcom poll [--json]        - Fetch the metrics once and print them
//	bcom settings get [key]   - Print settings
//	bcom settings set k v     - Write one setting
//	bcom settings path        - Print the settings file location
//	bcom settings edit        - Edit settings in a form
//	bcom version              - Print version information
//	bcom completion <shell>   - Generate a completion script
//
// # Flag Handling
//
// Global flags (--settings, --api-base, --interval, --log-level) are
// persistent on the root command. They are layered on top of the settings
// file and BCOM_* environment variables by loadSettings, and the result is
// validated before anything starts.
//
// # Console Wiring
//
// newConsole builds one monitor.Bridge and hands it to every service as
// its view: the poller renders and logs through it, the dock applies chrome
// through it, and the shell drives the terminal pane through it. Once the
// Bubble Tea program exists the bridge is attached to (*tea.Program).Send.
package cli
