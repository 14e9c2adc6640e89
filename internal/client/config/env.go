package config

import (
	"github.com/rolandocepedadev/ccat/internal/envx"
	"github.com/rolandocepedadev/ccat/internal/flagx"
)

// parseEnv overlays cfg with CCAT_* variables after loading the dotenv
// file. Malformed values panic.
func parseEnv(cfg *Config) {
	if err := envx.Load(flagx.EnvFileFlags()); err != nil {
		panic(err)
	}

	env := envx.NewSource("CCAT_")
	env.String("SERVER_URL", &cfg.ServerURL)
	env.String("SESSION_DB", &cfg.SessionDBPath)
	env.String("DOWNLOAD_DIR", &cfg.DownloadDir)
	env.String("LOG_LEVEL", &cfg.LogLevel)
	if err := env.Duration("ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval); err != nil {
		panic(err)
	}
}
