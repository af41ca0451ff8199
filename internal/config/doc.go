// Package config loads, normalizes, and validates the vinyl-collection
// configuration file.
//
// Values come from three places, later ones winning: built-in defaults, the
// TOML file, and the DISCOGS_TOKEN, DISCOGS_USERNAME, and DATABASE_URL
// environment variables.
package config
