package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		initial     *Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", ":9090", "-m", ":9091", "-d", "db", "-s", "secret",
			"-t", "1", "-r", "3", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-i", "5", "-l", "debug",
		},
			initial: &Config{},
			expected: &Config{
				EndpointAddrHTTP:             ":9090",
				EndpointAddrHealth:           ":9091",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				ReconcileInterval:            5 * time.Minute,
				LogLevel:                     "debug",
			}},
		{name: "unset minute flags keep sub-minute values", args: []string{"cmd", "-b", "b"},
			initial:  &Config{AccessTokenValidityDuration: 30 * time.Second},
			expected: &Config{AccessTokenValidityDuration: 30 * time.Second, S3Bucket: "b"}},
		{name: "bad minutes", args: []string{"cmd", "-t", "abc"}, initial: &Config{}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := tt.initial

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
