package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rolandocepedadev/ccat/internal/flagx"
	"github.com/rolandocepedadev/ccat/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "90s" style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	EndpointAddrHealth           string         `json:"endpoint_addr_health"`
	DatabaseDSN                  string         `json:"database_dsn"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Bucket                     string         `json:"s3_bucket"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
	SignedURLExpiry              timex.Duration `json:"signed_url_expiry"`
	BodyLimit                    string         `json:"body_limit"`
	ReconcileInterval            timex.Duration `json:"reconcile_interval"`
	ReconcileGracePeriod         timex.Duration `json:"reconcile_grace_period"`
	HealthCheckInterval          timex.Duration `json:"health_check_interval"`
	LogLevel                     string         `json:"log_level"`
	Environment                  string         `json:"environment"`
}

// parseJson overlays config with the file passed via -c/-config. Keys absent
// from the file keep their previous value. Read and decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrHealth, c.EndpointAddrHealth)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.RefreshTokenValidityDuration, c.RefreshTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setDuration(&config.SignedURLExpiry, c.SignedURLExpiry)
	setString(&config.BodyLimit, c.BodyLimit)
	setDuration(&config.ReconcileInterval, c.ReconcileInterval)
	setDuration(&config.ReconcileGracePeriod, c.ReconcileGracePeriod)
	setDuration(&config.HealthCheckInterval, c.HealthCheckInterval)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.Environment, c.Environment)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
