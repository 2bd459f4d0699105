package config

import (
	"fmt"
	"net/url"

	"github.com/bcomc/bcom/internal/errors"
	"github.com/bcomc/bcom/internal/logger"
)

// Validate checks settings for errors and returns structured error messages.
func Validate(s *Settings) error {
	if s.APIBaseURL != "" {
		if err := ValidateBaseURL(s.APIBaseURL); err != nil {
			return err
		}
	}

	if s.PollInterval < MinPollInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Poll interval %s is too short", s.PollInterval),
			fmt.Sprintf("Minimum interval is %s to avoid overwhelming the metrics daemon", MinPollInterval))
	}

	if s.RequestTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"Request timeout must be positive",
			"Use a duration like 4s")
	}

	switch s.LogLevel {
	case "", logger.DebugLevel, logger.InfoLevel, logger.WarnLevel, logger.ErrorLevel:
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown log level '%s'", s.LogLevel),
			"Use one of: debug, info, warn, error")
	}

	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL with a host.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' is not a valid URL", raw),
			"Use something like http://192.168.1.50:8090")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api-base-url must use http or https, got '%s'", raw),
			"Use something like http://192.168.1.50:8090")
	}
	if u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("api-base-url '%s' has no host", raw),
			"Use something like http://192.168.1.50:8090")
	}
	return nil
}
