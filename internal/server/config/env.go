package config

import (
	"time"

	"github.com/rolandocepedadev/ccat/internal/envx"
	"github.com/rolandocepedadev/ccat/internal/flagx"
)

const envPrefix = "CCAT_"

// parseEnv overlays config with CCAT_* variables. The dotenv file named by
// -env (default ".env") is loaded first when it exists. Malformed values
// panic, like the other config layers.
func parseEnv(config *Config) {
	if err := envx.Load(flagx.EnvFileFlags()); err != nil {
		panic(err)
	}

	env := envx.NewSource(envPrefix)

	env.String("HTTP_ADDR", &config.EndpointAddrHTTP)
	env.String("HEALTH_ADDR", &config.EndpointAddrHealth)
	env.String("DATABASE_DSN", &config.DatabaseDSN)
	env.String("SECRET_KEY", &config.SecretKey)
	env.String("S3_USER", &config.S3RootUser)
	env.String("S3_PASSWORD", &config.S3RootPassword)
	env.String("S3_BUCKET", &config.S3Bucket)
	env.String("S3_REGION", &config.S3Region)
	env.String("S3_ENDPOINT", &config.S3BaseEndpoint)
	env.String("BODY_LIMIT", &config.BodyLimit)
	env.String("LOG_LEVEL", &config.LogLevel)
	env.String("ENV", &config.Environment)

	for key, dst := range map[string]*time.Duration{
		"ACCESS_TOKEN_TTL":  &config.AccessTokenValidityDuration,
		"REFRESH_TOKEN_TTL": &config.RefreshTokenValidityDuration,
		"SIGNED_URL_TTL":    &config.SignedURLExpiry,
		"RECONCILE_EVERY":   &config.ReconcileInterval,
		"RECONCILE_GRACE":   &config.ReconcileGracePeriod,
		"HEALTH_EVERY":      &config.HealthCheckInterval,
	} {
		if err := env.Duration(key, dst); err != nil {
			panic(err)
		}
	}
}
