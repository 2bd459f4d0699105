package monitor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestHandleKeyMsg_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{runeKey('q'), typeKey(tea.KeyCtrlC)} {
		m, _ := newTestModel(Options{})
		handled, cmd := m.HandleKeyMsg(key)
		assert.True(t, handled)
		assert.NotNil(t, cmd)
		assert.True(t, m.quitting)
	}
}

func TestHandleKeyMsg_HelpToggle(t *testing.T) {
	m, _ := newTestModel(Options{})

	handled, _ := m.HandleKeyMsg(runeKey('?'))
	assert.True(t, handled)
	assert.True(t, m.showHelp)

	handled, _ = m.HandleKeyMsg(runeKey('?'))
	assert.True(t, handled)
	assert.False(t, m.showHelp)
}

func TestHandleKeyMsg_WithoutServices(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"refresh", runeKey('r')},
		{"minimize", runeKey('m')},
		{"shell tab", runeKey('2')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestModel(Options{})
			handled, cmd := m.HandleKeyMsg(tt.key)
			assert.True(t, handled)
			assert.Nil(t, cmd)
		})
	}
}

func TestHandleKeyMsg_TabWithoutSwitcher(t *testing.T) {
	m, _ := newTestModel(Options{})
	m.activeTab = "other"

	handled, cmd := m.HandleKeyMsg(typeKey(tea.KeyTab))
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, LogTab, m.ActiveTab())
}

func TestHandleKeyMsg_LogScrolling(t *testing.T) {
	m, _ := newTestModel(Options{})
	for i := 0; i < 40; i++ {
		m.appendEvent(testEvent("line"))
	}
	assert.True(t, m.logView.AtBottom())

	handled, _ := m.HandleKeyMsg(typeKey(tea.KeyPgUp))
	assert.True(t, handled)
	assert.False(t, m.logView.AtBottom())

	m.HandleKeyMsg(typeKey(tea.KeyHome))
	assert.True(t, m.logView.AtTop())

	m.HandleKeyMsg(runeKey('j'))
	assert.Equal(t, 1, m.logView.YOffset)

	m.HandleKeyMsg(typeKey(tea.KeyEnd))
	assert.True(t, m.logView.AtBottom())
}

func TestHandleKeyMsg_Unhandled(t *testing.T) {
	m, _ := newTestModel(Options{})
	handled, cmd := m.HandleKeyMsg(runeKey('z'))
	assert.False(t, handled)
	assert.Nil(t, cmd)
}

func TestModel_nextTab(t *testing.T) {
	m, _ := newTestModel(Options{})
	assert.Equal(t, LogTab, m.nextTab())
	assert.Equal(t, []string{LogTab}, m.tabs())
}
