package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePipeline() error {
	if col := c.Pipeline.NormalizeColumn; col != "" && !strings.Contains(col, "magnitude") {
		return fmt.Errorf("pipeline.normalize_column %q must name a magnitude column", col)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.DebounceSeconds < 0 {
		return errors.New("watch.debounce_seconds must not be negative")
	}
	if c.Watch.HistorySize < 1 {
		return errors.New("watch.history_size must be at least 1")
	}
	if strings.TrimSpace(c.Watch.APIBind) == "" {
		return errors.New("watch.api_bind must be set")
	}
	for _, glob := range c.Watch.Globs {
		if strings.TrimSpace(glob) == "" {
			return errors.New("watch.globs must not contain empty patterns")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
