// Package config loads runtime configuration for the ccat CLI.
//
// # Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables prefixed CCAT_, optionally seeded from the
//     dotenv file named by -env (default ".env").
//  4. Command-line flags, which override earlier values.
//
// # Supported flags
//
//	-a string   base URL of the ccat API, e.g. "http://127.0.0.1:8080"
//	-i int      online status check interval (seconds)
//	-s string   path of the local session database
//	-o string   directory downloads are written to
//	-l string   log level: debug, info, warn or error
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "online_check_interval": "3s",
//	  "session_db_path": "ccat-session.db",
//	  "download_dir": ".",
//	  "log_level": "warn"
//	}
//
// # Environment
//
//	CCAT_SERVER_URL, CCAT_ONLINE_CHECK_INTERVAL, CCAT_SESSION_DB, CCAT_DOWNLOAD_DIR,
//	CCAT_LOG_LEVEL
package config
