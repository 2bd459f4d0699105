package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation succeeded
	SymbolFail     = "✗" // Operation failed
	SymbolPending  = "○" // Not yet started, or standby
	SymbolProgress = "◐" // In progress
	SymbolComplete = "●" // Done (alternative to success)
)
