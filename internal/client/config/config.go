package config

import "time"

// Config holds runtime settings for the ccat CLI.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - SessionDBPath: SQLite file keeping the signed-in session between runs.
//   - DownloadDir: where "get" writes downloaded files.
//   - LogLevel: level of the diagnostic log written to stderr.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	SessionDBPath       string
	DownloadDir         string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.SessionDBPath = "ccat-session.db"
	c.DownloadDir = "."
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays JSON,
// environment and flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
