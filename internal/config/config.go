// Package config assembles the immutable runtime settings of the client.
// Sources are layered: defaults, then a .env file / environment variables,
// then an optional JSON file, then command-line flags. Later sources win.
package config

import "time"

// Config holds runtime settings for the Lunar Journal CLI.
//
// Fields:
//   - BackendURL: base URL of the backend REST API.
//   - AppID: application/tenant identifier sent with every request.
//   - TokenFile: where the gateway persists the session token.
//   - OnlineCheckInterval: how often the client probes backend reachability.
//   - LogLevel: minimum level for structured logs ("debug".."error").
type Config struct {
	BackendURL          string
	AppID               string
	TokenFile           string
	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://localhost:1111"
	c.AppID = "lunar-journal"
	c.TokenFile = ".lunar_session"
	c.OnlineCheckInterval = 10 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
