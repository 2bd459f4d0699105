package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the directory for bcom settings and state.
	GlobalConfigDir = ".config/bcom"
	// SettingsFileName is the settings blob name.
	SettingsFileName = "settings.json"
	// LogFileName is the default diagnostics log name.
	LogFileName = "bcom.log"
	// EnvPrefix namespaces environment overrides.
	EnvPrefix = "BCOM"
)

// Dir returns ~/.config/bcom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set HOME or pass --settings explicitly")
	}
	return filepath.Join(home, GlobalConfigDir), nil
}

// Find resolves the settings file path. An explicit path wins; otherwise
// ~/.config/bcom/settings.json is used whether or not it exists.
func Find(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// Load reads settings from path, layering defaults < file < environment.
// A missing file is not an error: every key falls back to its default.
func Load(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read settings file "+path,
				"Check the file is valid JSON, or delete it to use defaults")
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid settings format",
			"Durations look like 5s or 500ms; check the values in "+path)
	}

	if s.LogFile == "" {
		if dir, err := Dir(); err == nil {
			s.LogFile = filepath.Join(dir, LogFileName)
		}
	}

	return s, nil
}

// LoadOrDefault finds and loads the settings file.
func LoadOrDefault(explicit string) (*Settings, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	s, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

// newViper builds a viper instance with defaults and BCOM_* env binding.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so that env overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault(KeyAPIBaseURL, d.APIBaseURL)
	v.SetDefault(KeyPollInterval, d.PollInterval.String())
	v.SetDefault(KeyRequestTimeout, d.RequestTimeout.String())
	v.SetDefault(KeyShellLabel, d.ShellLabel)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyStateFile, d.StateFile)
}

func isNotExist(err error) bool {
	if stderrors.Is(err, fs.ErrNotExist) {
		return true
	}
	var nf viper.ConfigFileNotFoundError
	return stderrors.As(err, &nf)
}
