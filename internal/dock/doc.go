// Package dock implements the terminal dock under the dashboard: a
// collapsible panel whose minimized state survives restarts, a tab switcher
// that lets the shell tab take over the output area, and a lazily built
// terminal session streaming over a WebSocket PTY.
//
// Lifecycle of the shell session:
//
//	absent -> loading toolkit -> instantiated -> connecting -> open -> closed
//
// The emulator is built once and reused. Re-activating the shell tab after the
// transport closed opens a new transport into the same emulator.
package dock
