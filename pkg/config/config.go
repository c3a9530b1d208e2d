// Package config centralises the environment variables consumed by the
// application. All ambient state is read once at startup via FromEnv and the
// resulting struct is passed explicitly to the components that need it, which
// keeps the rest of the codebase free of os.Getenv calls and testable without
// touching the process environment.
package config

import "os"

// Config holds the settings shared by the web server and the CLI.
type Config struct {
	// ClientID and ClientSecret are the Spotify application credentials
	// used both for the token exchange endpoint and the playlist client.
	// They are secret-adjacent and must never be logged.
	ClientID     string
	ClientSecret string
	// Addr is the listen address of the web server.
	Addr string
	// DatabasePath locates the SQLite file caching release-year lookups.
	DatabasePath string
	// Contact identifies the operator in the MusicBrainz User-Agent, as
	// required by their API policy.
	Contact string
}

// FromEnv builds a Config from the process environment. Optional values fall
// back to development defaults; the credentials are taken as-is, including
// when empty, since the token exchange itself performs no validation.
func FromEnv() Config {
	cfg := Config{
		ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		Addr:         os.Getenv("ADDR"),
		DatabasePath: os.Getenv("DATABASE_PATH"),
		Contact:      os.Getenv("MUSICBRAINZ_CONTACT"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":4000"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "hitster.db"
	}
	if cfg.Contact == "" {
		cfg.Contact = "hitster@example.com"
	}
	return cfg
}
