package config

import (
	"montage/internal/services"
)

var validLogFormats = map[string]struct{}{"console": {}, "json": {}}
var validLogLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}

// Validate rejects configuration values the pipeline cannot run with.
func (c *Config) Validate() error {
	fail := func(message string) error {
		return services.Wrap(services.ErrConfiguration, "config", "validate", message, nil)
	}

	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fail("logging.format must be console or json, got " + c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fail("logging.level must be debug, info, warn, or error, got " + c.Logging.Level)
	}
	return nil
}
