package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bcomc/bcom/internal/errors"
)

// Global flags shared by every command.
var (
	settingsFlag string
	apiBaseFlag  string
	intervalFlag string
	logLevelFlag string
	noShellFlag  bool
)

// rootCmd starts the console when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "bcom",
	Short: "BCOM-C console for the SPARK-BOB and LINUX-DSKTP machines",
	Long: `bcom is a terminal console for the BCOM-C command & control dashboard.

It polls the metrics daemon for SPARK-BOB and LINUX-DSKTP, draws gauges,
temperature bars and sparklines, and docks a remote shell along the bottom
of the screen.

Settings live in ~/.config/bcom/settings.json and can be overridden with
BCOM_* environment variables or the flags below.

Examples:
  bcom
  bcom --api-base http://192.168.1.50:8090
  bcom --interval 2s --no-shell
  bcom poll`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashCommand(globalOverrides())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFlag, "settings", "", "settings file (default ~/.config/bcom/settings.json)")
	pf.StringVar(&apiBaseFlag, "api-base", "", "metrics daemon base URL, e.g. http://192.168.1.50:8090")
	pf.StringVar(&intervalFlag, "interval", "", "poll interval (e.g., 5s, 500ms)")
	pf.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&noShellFlag, "no-shell", false, "start without the remote shell tab")
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if isUnknownCommandError(err) {
			hint := "Run 'bcom --help' to see available commands."
			if name := extractUnknownCommand(err); name != "" {
				hint = fmt.Sprintf("'%s' is not a bcom command. %s", name, hint)
			}
			err = errors.WrapWithCode(err, errors.ErrConfig, "Unknown command or flag", hint)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// isUnknownCommandError reports whether cobra rejected the command line.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the rejected name out of cobra's
// `unknown command "foo" for "bcom"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
