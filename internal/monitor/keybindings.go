package monitor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bcomc/bcom/internal/dock"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyMinimize   = "m"
	KeyNextTab    = "tab"
	KeyLogTab     = "1"
	KeyShellTab   = "2"
	KeyActions    = "a"
	KeyLeaveShell = "ctrl+]"
	KeyUp         = "up"
	KeyUpK        = "k"
	KeyDown       = "down"
	KeyDownJ      = "j"
	KeySelect     = "enter"
	KeyClose      = "esc"
	KeyPageUp     = "pgup"
	KeyPageDown   = "pgdown"
	KeyTop        = "home"
	KeyBottom     = "end"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	// The remote shell gets every key except the one that leaves it.
	if m.ShellFocused() {
		if key == KeyLeaveShell {
			return true, m.switchCmd(LogTab)
		}
		if p := dock.EncodeKey(msg); len(p) > 0 {
			m.opts.Shell.Input(p)
		}
		return true, nil
	}

	if m.pickerOpen {
		return m.handlePickerKey(key)
	}

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		return true, m.refreshCmd()

	case KeyMinimize:
		return true, m.toggleDockCmd()

	case KeyNextTab:
		return true, m.switchCmd(m.nextTab())

	case KeyLogTab:
		return true, m.switchCmd(LogTab)

	case KeyShellTab:
		if m.opts.Shell == nil {
			return true, nil
		}
		return true, m.switchCmd(dock.ShellTab)

	case KeyActions:
		m.pickerOpen = true
		m.pickerIdx = 0
		return true, nil

	case KeyPageUp:
		m.logView.PageUp()
		return true, nil

	case KeyPageDown:
		m.logView.PageDown()
		return true, nil

	case KeyUp, KeyUpK:
		m.logView.ScrollUp(1)
		return true, nil

	case KeyDown, KeyDownJ:
		m.logView.ScrollDown(1)
		return true, nil

	case KeyTop:
		m.logView.GotoTop()
		return true, nil

	case KeyBottom:
		m.logView.GotoBottom()
		return true, nil
	}

	return false, nil
}

func (m *Model) handlePickerKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeyClose, KeyActions:
		m.pickerOpen = false
		return true, nil

	case KeyUp, KeyUpK:
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
		return true, nil

	case KeyDown, KeyDownJ:
		if m.pickerIdx < len(m.opts.Actions)-1 {
			m.pickerIdx++
		}
		return true, nil

	case KeySelect:
		m.pickerOpen = false
		return true, m.actionCmd(m.opts.Actions[m.pickerIdx])

	case KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit
	}

	return true, nil
}
