package cli

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bcomc/bcom/internal/config"
	"github.com/bcomc/bcom/internal/dock"
	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/logger"
	"github.com/bcomc/bcom/internal/monitor"
	"github.com/bcomc/bcom/internal/store"
	"github.com/bcomc/bcom/internal/telemetry"
)

// dashCmd is an explicit alias for running bcom without a subcommand.
var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the console (default command)",
	Long: `Open the full-screen BCOM-C console.

Keys:
  r        poll now
  m        minimize or expand the dock
  tab 1 2  switch dock tab
  a        operator actions
  ?        help
  q        quit

While the shell tab has focus every key goes to the remote shell.
Press Ctrl+] to return to the log.

Examples:
  bcom dash
  bcom dash --no-shell`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(globalOverrides())
	},
}

func init() {
	dashCmd.Flags().BoolVar(&noShellFlag, "no-shell", false, "start without the remote shell tab")
}

// console is the wired set of services behind the dashboard model.
type console struct {
	bridge *monitor.Bridge
	source *telemetry.HTTPSource
	poller *telemetry.Poller
	dock   *dock.Dock
	shell  *dock.Shell
	model  monitor.Model
}

// newConsole wires the poller, dock, shell and switcher to a fresh bridge.
// out is the terminal the toolkit reads its color profile from.
func newConsole(s *config.Settings, noShell bool, st store.Store, log logger.Logger, out io.Writer) *console {
	c := &console{bridge: monitor.NewBridge()}

	c.source = telemetry.NewHTTPSource(s.APIBaseURL, s.RequestTimeout)
	c.poller = telemetry.NewPoller(telemetry.Options{
		Source:   c.source,
		Render:   c.bridge.Render,
		Events:   c.bridge,
		Logger:   log,
		Interval: s.PollInterval,
	})

	c.dock = dock.New(st, c.bridge, log)
	sw := dock.NewSwitcher(c.bridge.ShowPanel)

	if !noShell {
		toolkit := dock.NewToolkitLoader(dock.ToolkitOptions{
			Core:   dock.DetectProfile(out),
			Fit:    dock.DefaultFit,
			Logger: log,
		})
		c.shell = dock.NewShell(dock.ShellOptions{
			View:     c.bridge,
			Dock:     c.dock,
			Toolkit:  toolkit,
			APIBase:  s.TerminalBase(),
			Label:    s.ShellLabel,
			OnUpdate: c.bridge.TerminalUpdated,
			Logger:   log,
		})
		sw.Register(dock.ShellTab, c.shell)
	}

	source := ""
	if c.source.Configured() {
		source = c.source.BaseURL
	}

	c.model = monitor.NewModel(monitor.Options{
		Bridge:   c.bridge,
		Poller:   c.poller,
		Interval: s.PollInterval,
		Dock:     c.dock,
		Switcher: sw,
		Shell:    c.shell,
		Logger:   log,
		Source:   source,
	})
	return c
}

// Close stops polling and drops the shell connection.
func (c *console) Close() {
	c.poller.Stop()
	if c.shell != nil {
		if err := c.shell.Close(); err != nil {
			logger.Default().Debug("closing shell: %v", err)
		}
	}
}

// dashCommand runs the full-screen console until the user quits.
func dashCommand(o Overrides) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The console needs an interactive terminal",
			"Run 'bcom poll' for a one-shot reading in scripts and pipes.")
	}

	s, _, err := loadSettings(o)
	if err != nil {
		return err
	}

	log, closer, err := openLog(s)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.SetDefault(log)

	st, err := openStore(s)
	if err != nil {
		return err
	}

	c := newConsole(s, o.NoShell, st, log, os.Stdout)
	log.Info("starting console: source=%q shell=%t interval=%s", c.source.BaseURL, c.shell != nil, s.PollInterval)

	p := tea.NewProgram(c.model, tea.WithAltScreen())
	c.bridge.Attach(p.Send)
	_, err = p.Run()

	// Graceful shutdown: stop the ticker and close the PTY socket
	c.Close()

	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"The console stopped unexpectedly",
			"Check "+s.LogFile+" for details.")
	}
	return nil
}

// openLog opens the diagnostics log. The TUI owns stdout, so without a log
// file diagnostics are dropped.
func openLog(s *config.Settings) (logger.Logger, io.Closer, error) {
	if s.LogFile == "" {
		return logger.Noop(), io.NopCloser(nil), nil
	}
	log, closer, err := logger.OpenFile(s.LogFile, s.LogLevel)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot open log file "+s.LogFile,
			"Set log-file to a writable path with 'bcom settings set log-file <path>'.")
	}
	return log, closer, nil
}

// openStore returns the durable dock state store.
func openStore(s *config.Settings) (store.Store, error) {
	path := s.StateFile
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return store.NewFileStore(path), nil
}
