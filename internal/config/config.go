package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/justestif/go-vinyl-collection/internal/discogs"
)

//go:embed sample_config.toml
var sampleConfig string

// Discogs contains the catalog API account and request settings.
type Discogs struct {
	Username          string `toml:"username"`
	Token             string `toml:"token"`
	FolderID          int    `toml:"folder_id"`
	PerPage           int    `toml:"per_page"`
	BaseURL           string `toml:"base_url"`
	UserAgent         string `toml:"user_agent"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
}

// Dataset contains the location of the CSV dataset.
type Dataset struct {
	Path string `toml:"path"`
}

// Sync contains incremental sync behavior.
type Sync struct {
	// CutoffDays stops paging once a page holds an item added more than this
	// many days ago. Zero pages through the whole folder.
	CutoffDays        int  `toml:"cutoff_days"`
	SkipKnownReleases bool `toml:"skip_known_releases"`
}

// Database contains the optional PostgreSQL mirror connection.
type Database struct {
	URL string `toml:"url"`
}

// Web contains the browsing UI listen address.
type Web struct {
	Addr string `toml:"addr"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values.
type Config struct {
	Discogs  Discogs  `toml:"discogs"`
	Dataset  Dataset  `toml:"dataset"`
	Sync     Sync     `toml:"sync"`
	Database Database `toml:"database"`
	Web      Web      `toml:"web"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vinyl-collection/config.toml")
}

// Load locates, parses, and validates a configuration file. An empty path
// searches the default location and then ./vinyl-collection.toml. A missing
// file is not an error; defaults and environment values are used instead.
// It returns the config, the resolved file path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vinyl-collection.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// RequireCredentials reports whether the Discogs account settings needed for
// a sync are present.
func (c *Config) RequireCredentials() error {
	var missing []string
	if c.Discogs.Token == "" {
		missing = append(missing, "discogs.token (DISCOGS_TOKEN)")
	}
	if c.Discogs.Username == "" {
		missing = append(missing, "discogs.username (DISCOGS_USERNAME)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", discogs.ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// DiscogsConfig returns the Fetch Client settings.
func (c *Config) DiscogsConfig() *discogs.Config {
	return &discogs.Config{
		Token:           c.Discogs.Token,
		Username:        c.Discogs.Username,
		BaseURL:         c.Discogs.BaseURL,
		UserAgent:       c.Discogs.UserAgent,
		RequestInterval: time.Duration(c.Discogs.RequestIntervalMS) * time.Millisecond,
	}
}

// Cutoff returns the early-stop time for a sync starting at now, and false
// when no cutoff is configured.
func (c *Config) Cutoff(now time.Time) (time.Time, bool) {
	if c.Sync.CutoffDays <= 0 {
		return time.Time{}, false
	}
	return now.AddDate(0, 0, -c.Sync.CutoffDays), true
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
