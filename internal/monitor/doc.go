// Package monitor implements the bcom console: a Bubble Tea dashboard of the
// SPARK-BOB and LINUX-DSKTP gauges with a terminal dock along the bottom.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm Architecture
// (Model-Update-View pattern):
//
//   - Model: Holds console state (board, history, event log, dock chrome)
//   - Update: Processes messages (keystrokes, snapshots, dock and shell changes)
//   - View: Renders the current state to a string for display
//
// # Key Components
//
//	Model    - The Bubble Tea model containing all console state
//	Bridge   - Turns service callbacks into messages for the event loop
//	Board    - The telemetry.View holding the latest value of every element
//	History  - Ring buffers of gauge values for sparklines
//
// # Message Flow
//
// The poller, dock and shell run outside the event loop and report through
// the Bridge, which posts messages with (*tea.Program).Send:
//
//  1. the poller fetches a snapshot and calls Bridge.Render
//  2. snapshotMsg arrives and telemetry.ApplyDashboard rewrites the Board
//  3. View() re-renders the panels from the Board and History
//
// Service calls are made from commands, never from Update, since Send blocks
// until the event loop is free.
//
// # Dock
//
// The dock has a log tab and, when a shell is configured, a shell tab. While
// the shell tab is active and the dock is expanded every key goes to the
// remote PTY except Ctrl+], which returns to the log.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Poll now
//	m           - Minimize / expand the dock
//	Tab, 1, 2   - Switch dock tab
//	a           - Operator actions
//	PgUp/PgDn   - Scroll the log
//	?           - Toggle help overlay
package monitor
