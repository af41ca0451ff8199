// Package discogs provides a paced client for the Discogs collection and release APIs.
package discogs

import (
	"errors"
	"time"
)

// Default client settings.
const (
	DefaultBaseURL         = "https://api.discogs.com"
	DefaultUserAgent       = "VinylCollectionUpdater/1.0"
	DefaultRequestInterval = 1 * time.Second
)

// ErrMissingCredentials is returned when the API token or username is not configured.
var ErrMissingCredentials = errors.New("missing Discogs credentials")

// Config holds Discogs API configuration.
type Config struct {
	Token           string
	Username        string
	BaseURL         string
	UserAgent       string
	RequestInterval time.Duration
}
