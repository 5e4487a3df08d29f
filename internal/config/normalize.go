package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWatch(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir); c.Paths.OutputDir != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	if c.Paths.ReferenceDir = strings.TrimSpace(c.Paths.ReferenceDir); c.Paths.ReferenceDir != "" {
		if c.Paths.ReferenceDir, err = expandPath(c.Paths.ReferenceDir); err != nil {
			return fmt.Errorf("paths.reference_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWatch() error {
	var err error
	if strings.TrimSpace(c.Watch.Dir) == "" {
		c.Watch.Dir = defaultWatchDir
	}
	if c.Watch.Dir, err = expandPath(c.Watch.Dir); err != nil {
		return fmt.Errorf("watch.dir: %w", err)
	}
	if len(c.Watch.Globs) == 0 {
		c.Watch.Globs = defaultWatchGlobs()
	}
	if c.Watch.DebounceSeconds == 0 {
		c.Watch.DebounceSeconds = defaultWatchDebounce
	}
	if strings.TrimSpace(c.Watch.APIBind) == "" {
		c.Watch.APIBind = defaultWatchAPIBind
	}
	if c.Watch.HistorySize == 0 {
		c.Watch.HistorySize = defaultWatchHistory
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.NormalizeColumn = strings.TrimSpace(c.Pipeline.NormalizeColumn)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
