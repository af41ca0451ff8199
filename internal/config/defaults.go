package config

const (
	defaultBaseURL           = "https://api.discogs.com"
	defaultUserAgent         = "VinylCollectionUpdater/1.0"
	defaultPerPage           = 100
	defaultRequestIntervalMS = 1000
	minRequestIntervalMS     = 1000
	maxPerPage               = 100
	defaultDatasetPath       = "~/.local/share/vinyl-collection/collection.csv"
	defaultWebAddr           = "127.0.0.1:8080"
	defaultLogFormat         = "text"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Discogs: Discogs{
			BaseURL:           defaultBaseURL,
			UserAgent:         defaultUserAgent,
			PerPage:           defaultPerPage,
			RequestIntervalMS: defaultRequestIntervalMS,
		},
		Dataset: Dataset{
			Path: defaultDatasetPath,
		},
		Web: Web{
			Addr: defaultWebAddr,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
