// Package config holds runtime settings for the Echoline CLI.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - ServerEndpointAddr: base URL of the Echo REST backend.
//   - RequestTimeout: per-request HTTP timeout.
//   - StorageDSN: sqlite DSN for the local storage database.
//   - FeedPageLimit: page size for feed fetches.
//   - SuggestionsLimit: how many suggested users to load.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	StorageDSN         string
	FeedPageLimit      int
	SuggestionsLimit   int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.StorageDSN = "echoline.db"
	c.FeedPageLimit = 20
	c.SuggestionsLimit = 5
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
