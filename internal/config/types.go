package config

import "time"

// Setting keys as they appear in settings.json. The same keys are accepted as
// BCOM_* environment variables with dashes replaced by underscores
// (api-base-url -> BCOM_API_BASE_URL).
const (
	KeyAPIBaseURL     = "api-base-url"
	KeyPollInterval   = "poll-interval"
	KeyRequestTimeout = "request-timeout"
	KeyShellLabel     = "shell-label"
	KeyLogFile        = "log-file"
	KeyLogLevel       = "log-level"
	KeyStateFile      = "state-file"
)

// Defaults applied when a key is absent from every source.
const (
	// DefaultAPIBase is the endpoint the terminal dock uses when no
	// api-base-url is configured. The poller never falls back to it.
	DefaultAPIBase        = "http://10.0.0.69:9010"
	DefaultPollInterval   = 5 * time.Second
	DefaultRequestTimeout = 4 * time.Second
	DefaultShellLabel     = "DGX Spark"
	DefaultLogLevel       = "info"

	// MinPollInterval keeps the dashboard from hammering the metrics daemon.
	MinPollInterval = 500 * time.Millisecond
)

// Settings is the decoded settings.json blob merged with environment and
// flag overrides.
type Settings struct {
	// APIBaseURL is the metrics daemon root, e.g. http://192.168.1.50:8090.
	// Empty puts the poller in standby.
	APIBaseURL string `json:"api-base-url" mapstructure:"api-base-url"`

	// PollInterval is the fixed delay between metrics fetches.
	PollInterval time.Duration `json:"poll-interval" mapstructure:"poll-interval"`

	// RequestTimeout bounds a single metrics fetch.
	RequestTimeout time.Duration `json:"request-timeout" mapstructure:"request-timeout"`

	// ShellLabel names the remote machine in the shell connect banner.
	ShellLabel string `json:"shell-label" mapstructure:"shell-label"`

	// LogFile is where diagnostics go while the TUI owns the terminal.
	// Empty means ~/.config/bcom/bcom.log.
	LogFile string `json:"log-file" mapstructure:"log-file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log-level" mapstructure:"log-level"`

	// StateFile overrides the location of the durable dock state.
	StateFile string `json:"state-file" mapstructure:"state-file"`
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	return &Settings{
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
		ShellLabel:     DefaultShellLabel,
		LogLevel:       DefaultLogLevel,
	}
}

// TerminalBase returns the API base the shell connects to: the configured
// api-base-url, or DefaultAPIBase when none is set.
func (s *Settings) TerminalBase() string {
	if s.APIBaseURL != "" {
		return s.APIBaseURL
	}
	return DefaultAPIBase
}

// Standby reports whether the poller has no endpoint to talk to.
func (s *Settings) Standby() bool {
	return s.APIBaseURL == ""
}
