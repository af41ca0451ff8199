package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeDiscogs()
	if err := c.normalizeDataset(); err != nil {
		return err
	}
	c.normalizeDatabase()
	c.normalizeWeb()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeDiscogs() {
	if value, ok := os.LookupEnv("DISCOGS_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.Discogs.Token = value
	}
	if value, ok := os.LookupEnv("DISCOGS_USERNAME"); ok && strings.TrimSpace(value) != "" {
		c.Discogs.Username = value
	}
	c.Discogs.Token = strings.TrimSpace(c.Discogs.Token)
	c.Discogs.Username = strings.TrimSpace(c.Discogs.Username)

	c.Discogs.BaseURL = strings.TrimRight(strings.TrimSpace(c.Discogs.BaseURL), "/")
	if c.Discogs.BaseURL == "" {
		c.Discogs.BaseURL = defaultBaseURL
	}
	c.Discogs.UserAgent = strings.TrimSpace(c.Discogs.UserAgent)
	if c.Discogs.UserAgent == "" {
		c.Discogs.UserAgent = defaultUserAgent
	}
	if c.Discogs.PerPage <= 0 {
		c.Discogs.PerPage = defaultPerPage
	}
	if c.Discogs.RequestIntervalMS == 0 {
		c.Discogs.RequestIntervalMS = defaultRequestIntervalMS
	}
}

func (c *Config) normalizeDataset() error {
	c.Dataset.Path = strings.TrimSpace(c.Dataset.Path)
	if c.Dataset.Path == "" {
		c.Dataset.Path = defaultDatasetPath
	}
	var err error
	if c.Dataset.Path, err = expandPath(c.Dataset.Path); err != nil {
		return fmt.Errorf("dataset.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() {
	if value, ok := os.LookupEnv("DATABASE_URL"); ok && strings.TrimSpace(value) != "" {
		c.Database.URL = value
	}
	c.Database.URL = strings.TrimSpace(c.Database.URL)
}

func (c *Config) normalizeWeb() {
	c.Web.Addr = strings.TrimSpace(c.Web.Addr)
	if c.Web.Addr == "" {
		c.Web.Addr = defaultWebAddr
	}
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
