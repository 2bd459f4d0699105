package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/spf13/viper"
)

// KnownKeys lists every setting accepted by Set, in display order.
var KnownKeys = []string{
	KeyAPIBaseURL,
	KeyPollInterval,
	KeyRequestTimeout,
	KeyShellLabel,
	KeyLogFile,
	KeyLogLevel,
	KeyStateFile,
}

// IsKnownKey reports whether key is a recognized setting.
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a single key into the settings file at path, keeping every other
// key the file already holds. Defaults and environment values are not written.
func Set(path, key, value string) error {
	if !IsKnownKey(key) {
		known := append([]string(nil), KnownKeys...)
		sort.Strings(known)
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown setting '%s'", key),
			fmt.Sprintf("Known settings: %v", known))
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read settings file "+path,
			"Fix or delete the file, then try again")
	}

	v.Set(key, value)

	// Validate the merged result before touching disk.
	probe := DefaultSettings()
	if err := v.Unmarshal(probe); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' is not a valid value for %s", value, key),
			"Durations look like 5s or 500ms")
	}
	if err := Validate(probe); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot create settings directory",
			"Check directory permissions")
	}
	if err := v.WriteConfigAs(path); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write settings file "+path,
			"Check file permissions")
	}
	return nil
}

// Get returns the effective value for key, after defaults and env overrides.
func Get(s *Settings, key string) (string, bool) {
	switch key {
	case KeyAPIBaseURL:
		return s.APIBaseURL, true
	case KeyPollInterval:
		return s.PollInterval.String(), true
	case KeyRequestTimeout:
		return s.RequestTimeout.String(), true
	case KeyShellLabel:
		return s.ShellLabel, true
	case KeyLogFile:
		return s.LogFile, true
	case KeyLogLevel:
		return s.LogLevel, true
	case KeyStateFile:
		return s.StateFile, true
	}
	return "", false
}
