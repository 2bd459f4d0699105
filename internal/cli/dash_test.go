package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomc/bcom/internal/config"
	"github.com/bcomc/bcom/internal/dock"
	"github.com/bcomc/bcom/internal/logger"
	"github.com/bcomc/bcom/internal/store"
)

func TestNewConsole_Standby(t *testing.T) {
	s := config.DefaultSettings()
	c := newConsole(s, false, store.NewMemoryStore(), logger.Noop(), io.Discard)
	defer c.Close()

	assert.False(t, c.source.Configured())
	require.NotNil(t, c.shell)
	assert.Nil(t, c.shell.Emulator(), "toolkit loads on first activation")

	view := ansi.Strip(c.model.View())
	assert.Contains(t, view, "STANDBY")
	assert.Contains(t, view, "src standby")
}

func TestNewConsole_NoShell(t *testing.T) {
	s := config.DefaultSettings()
	c := newConsole(s, true, store.NewMemoryStore(), logger.Noop(), io.Discard)
	defer c.Close()

	assert.Nil(t, c.shell)
	assert.NotContains(t, ansi.Strip(c.model.View()), "SHELL")
}

func TestNewConsole_RestoresMinimizedDock(t *testing.T) {
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(dock.MinimizedKey, "1"))

	c := newConsole(config.DefaultSettings(), true, st, logger.Noop(), io.Discard)
	defer c.Close()

	require.NoError(t, c.dock.Restore())
	assert.True(t, c.dock.Minimized())
}

func TestNewConsole_PollReachesModel(t *testing.T) {
	srv := metricsServer(t, 200, metricsBody)
	s := config.DefaultSettings()
	s.APIBaseURL = srv.URL

	c := newConsole(s, true, store.NewMemoryStore(), logger.Noop(), io.Discard)
	defer c.Close()

	var msgs []tea.Msg
	c.bridge.Attach(func(msg tea.Msg) { msgs = append(msgs, msg) })

	c.poller.Tick(context.Background())
	require.Len(t, msgs, 2, "connected event then snapshot")

	var m tea.Model = c.model
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}

	view := ansi.Strip(m.View())
	assert.Contains(t, view, "LIVE")
	assert.Contains(t, view, "37%")
	assert.Contains(t, view, "2d 14h")
	assert.Contains(t, view, "src "+srv.URL)
}

func TestOpenStore(t *testing.T) {
	s := config.DefaultSettings()
	s.StateFile = filepath.Join(t.TempDir(), "state.yaml")

	st, err := openStore(s)
	require.NoError(t, err)

	fs, ok := st.(*store.FileStore)
	require.True(t, ok)
	assert.Equal(t, s.StateFile, fs.Path())
}

func TestOpenLog(t *testing.T) {
	t.Run("no log file", func(t *testing.T) {
		log, closer, err := openLog(&config.Settings{})
		require.NoError(t, err)
		log.Info("dropped")
		assert.NoError(t, closer.Close())
	})

	t.Run("writes to file", func(t *testing.T) {
		s := config.DefaultSettings()
		s.LogFile = filepath.Join(t.TempDir(), "logs", "bcom.log")

		log, closer, err := openLog(s)
		require.NoError(t, err)
		log.Info("console started")
		require.NoError(t, closer.Close())

		assert.FileExists(t, s.LogFile)
	})
}
