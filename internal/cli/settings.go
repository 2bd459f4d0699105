package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bcomc/bcom/internal/config"
	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/logger"
	"github.com/bcomc/bcom/internal/ui"
)

// settingsCmd manages ~/.config/bcom/settings.json
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change bcom settings",
	Long: `Show or change the settings in ~/.config/bcom/settings.json.

Values set in BCOM_* environment variables (BCOM_API_BASE_URL,
BCOM_POLL_INTERVAL, ...) take precedence over the file.

Examples:
  bcom settings get
  bcom settings get api-base-url
  bcom settings set api-base-url http://192.168.1.50:8090
  bcom settings edit`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		return settingsGet(cmd.OutOrStdout(), settingsFlag, key)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one setting to the settings file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsSet(cmd.OutOrStdout(), settingsFlag, args[0], args[1])
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(settingsFlag)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the settings in an interactive form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return settingsEdit(cmd.OutOrStdout(), settingsFlag)
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsEditCmd)
}

// settingsGet prints the effective value of key, or a table of every key.
func settingsGet(w io.Writer, explicit, key string) error {
	s, _, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	if key != "" {
		v, ok := config.Get(s, key)
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown setting '%s'", key),
				"Known settings: "+strings.Join(config.KnownKeys, ", "))
		}
		fmt.Fprintln(w, v)
		return nil
	}

	rows := make([][]string, 0, len(config.KnownKeys))
	for _, k := range config.KnownKeys {
		v, _ := config.Get(s, k)
		if v == "" {
			v = "(unset)"
		}
		rows = append(rows, []string{k, v})
	}
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "KEY", Width: 18},
		{Title: "VALUE", Width: 48},
	}, rows))
	return nil
}

// settingsSet validates and writes one key.
func settingsSet(w io.Writer, explicit, key, value string) error {
	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if err := config.Set(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), key, value)
	return nil
}

// settingsForm holds the editable settings as form text.
type settingsForm struct {
	APIBase  string
	Interval string
	Timeout  string
	Label    string
	LogLevel string
}

func newSettingsForm(s *config.Settings) settingsForm {
	return settingsForm{
		APIBase:  s.APIBaseURL,
		Interval: s.PollInterval.String(),
		Timeout:  s.RequestTimeout.String(),
		Label:    s.ShellLabel,
		LogLevel: s.LogLevel,
	}
}

// values maps the form onto setting keys.
func (f settingsForm) values() map[string]string {
	return map[string]string{
		config.KeyAPIBaseURL:     strings.TrimSpace(f.APIBase),
		config.KeyPollInterval:   strings.TrimSpace(f.Interval),
		config.KeyRequestTimeout: strings.TrimSpace(f.Timeout),
		config.KeyShellLabel:     strings.TrimSpace(f.Label),
		config.KeyLogLevel:       f.LogLevel,
	}
}

// settingsChange is one key the user edited.
type settingsChange struct {
	Key, Value string
}

// formChanges lists the keys whose value differs between before and after,
// in KnownKeys order.
func formChanges(before, after settingsForm) []settingsChange {
	b, a := before.values(), after.values()
	var out []settingsChange
	for _, k := range config.KnownKeys {
		nv, ok := a[k]
		if !ok || nv == b[k] {
			continue
		}
		out = append(out, settingsChange{Key: k, Value: nv})
	}
	return out
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("use a duration like 5s or 500ms")
	}
	if d <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func validateOptionalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if err := config.ValidateBaseURL(s); err != nil {
		return fmt.Errorf("use something like http://192.168.1.50:8090")
	}
	return nil
}

// settingsEdit shows the settings form and writes back what changed.
func settingsEdit(w io.Writer, explicit string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New(errors.ErrConfig,
			"settings edit needs an interactive terminal",
			"Use 'bcom settings set <key> <value>' instead.")
	}

	s, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	before := newSettingsForm(s)
	edited := before

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metrics API base URL").
				Description("Leave empty to keep the dashboard in standby").
				Placeholder("http://192.168.1.50:8090").
				Value(&edited.APIBase).
				Validate(validateOptionalURL),
			huh.NewInput().
				Title("Poll interval").
				Description(fmt.Sprintf("At least %s", config.MinPollInterval)).
				Value(&edited.Interval).
				Validate(validateDuration),
			huh.NewInput().
				Title("Request timeout").
				Value(&edited.Timeout).
				Validate(validateDuration),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Shell label").
				Description("Machine name shown when the shell connects").
				Value(&edited.Label),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions(logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel)...).
				Value(&edited.LogLevel),
		),
	)

	if err := form.Run(); err != nil {
		if stderrors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use 'bcom settings set <key> <value>' instead.")
	}

	changes := formChanges(before, edited)
	if len(changes) == 0 {
		fmt.Fprintln(w, ui.MutedStyle().Render("No changes."))
		return nil
	}
	for _, c := range changes {
		if err := config.Set(path, c.Key, c.Value); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %s = %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), c.Key, c.Value)
	}
	return nil
}
