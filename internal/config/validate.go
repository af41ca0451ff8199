package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Credentials are checked
// separately by RequireCredentials so commands that only read the local
// dataset work without them.
func (c *Config) Validate() error {
	if err := c.validateDiscogs(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDiscogs() error {
	if c.Discogs.FolderID < 0 {
		return errors.New("discogs.folder_id must be 0 or greater")
	}
	if c.Discogs.PerPage > maxPerPage {
		return fmt.Errorf("discogs.per_page must be at most %d", maxPerPage)
	}
	if c.Discogs.RequestIntervalMS < minRequestIntervalMS {
		return fmt.Errorf("discogs.request_interval_ms must be at least %d", minRequestIntervalMS)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.CutoffDays < 0 {
		return errors.New("sync.cutoff_days must be 0 or greater")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
