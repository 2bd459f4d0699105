package cli

import (
	"fmt"
	"time"

	"github.com/bcomc/bcom/internal/config"
	"github.com/bcomc/bcom/internal/errors"
)

// Overrides holds the global flag values. Set flags win over the settings
// file and BCOM_* environment variables.
type Overrides struct {
	SettingsPath string
	APIBase      string
	Interval     string
	LogLevel     string
	NoShell      bool
}

// globalOverrides collects the parsed global flags.
func globalOverrides() Overrides {
	return Overrides{
		SettingsPath: settingsFlag,
		APIBase:      apiBaseFlag,
		Interval:     intervalFlag,
		LogLevel:     logLevelFlag,
		NoShell:      noShellFlag,
	}
}

// ParseInterval parses a poll interval flag into a duration.
// Returns zero duration if the flag is empty.
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	duration, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 5s, 2m, or 500ms.")
	}
	return duration, nil
}

// loadSettings reads the settings file, applies flag overrides and validates
// the result. It returns the settings file path alongside the settings.
func loadSettings(o Overrides) (*config.Settings, string, error) {
	s, path, err := config.LoadOrDefault(o.SettingsPath)
	if err != nil {
		return nil, "", err
	}

	if err := applyOverrides(s, o); err != nil {
		return nil, "", err
	}

	if err := config.Validate(s); err != nil {
		return nil, "", err
	}
	return s, path, nil
}

func applyOverrides(s *config.Settings, o Overrides) error {
	if o.APIBase != "" {
		s.APIBaseURL = o.APIBase
	}
	if o.LogLevel != "" {
		s.LogLevel = o.LogLevel
	}

	interval, err := ParseInterval(o.Interval)
	if err != nil {
		return err
	}
	if interval > 0 {
		s.PollInterval = interval
	}
	return nil
}
