package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomc/bcom/internal/config"
	"github.com/bcomc/bcom/internal/errors"
)

// isolateSettings points HOME at a temp dir, clears BCOM_* overrides and
// returns a settings path inside it.
func isolateSettings(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range config.KnownKeys {
		t.Setenv("BCOM_"+envName(k), "")
	}
	return filepath.Join(home, "settings.json")
}

func envName(key string) string {
	out := []byte(key)
	for i, c := range out {
		switch {
		case c == '-':
			out[i] = '_'
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		want    time.Duration
		wantErr bool
	}{
		{
			name: "empty string returns zero",
			flag: "",
			want: 0,
		},
		{
			name: "valid seconds",
			flag: "5s",
			want: 5 * time.Second,
		},
		{
			name: "valid milliseconds",
			flag: "500ms",
			want: 500 * time.Millisecond,
		},
		{
			name: "valid complex duration",
			flag: "1m30s",
			want: 90 * time.Second,
		},
		{
			name:    "bare number returns error",
			flag:    "5",
			wantErr: true,
		},
		{
			name:    "invalid string returns error",
			flag:    "fast",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.flag)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	path := isolateSettings(t)

	s, got, err := loadSettings(Overrides{SettingsPath: path})
	require.NoError(t, err)

	assert.Equal(t, path, got)
	assert.True(t, s.Standby())
	assert.Equal(t, config.DefaultPollInterval, s.PollInterval)
	assert.Equal(t, config.DefaultAPIBase, s.TerminalBase())
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	path := isolateSettings(t)
	require.NoError(t, config.Set(path, config.KeyAPIBaseURL, "http://file:8090"))
	require.NoError(t, config.Set(path, config.KeyPollInterval, "10s"))

	s, _, err := loadSettings(Overrides{SettingsPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://file:8090", s.APIBaseURL)
	assert.Equal(t, 10*time.Second, s.PollInterval)

	s, _, err = loadSettings(Overrides{
		SettingsPath: path,
		APIBase:      "http://flag:8090",
		Interval:     "2s",
		LogLevel:     "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:8090", s.APIBaseURL)
	assert.Equal(t, 2*time.Second, s.PollInterval)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettings_Rejects(t *testing.T) {
	tests := []struct {
		name string
		o    Overrides
	}{
		{"bad interval", Overrides{Interval: "soon"}},
		{"interval under the minimum", Overrides{Interval: "100ms"}},
		{"non-http base", Overrides{APIBase: "ftp://spark"}},
		{"unknown log level", Overrides{LogLevel: "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.o.SettingsPath = isolateSettings(t)
			_, _, err := loadSettings(tt.o)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestGlobalOverrides(t *testing.T) {
	defer func() {
		settingsFlag, apiBaseFlag, intervalFlag, logLevelFlag, noShellFlag = "", "", "", "", false
	}()

	require.NoError(t, rootCmd.PersistentFlags().Parse([]string{
		"--settings", "/tmp/s.json",
		"--api-base", "http://spark:8090",
		"--interval", "3s",
		"--log-level", "warn",
	}))

	o := globalOverrides()
	assert.Equal(t, "/tmp/s.json", o.SettingsPath)
	assert.Equal(t, "http://spark:8090", o.APIBase)
	assert.Equal(t, "3s", o.Interval)
	assert.Equal(t, "warn", o.LogLevel)
	assert.False(t, o.NoShell)
}
