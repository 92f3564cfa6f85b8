// Package config loads the application configuration.
//
// Sources are applied in order, later ones winning:
//
//	1. Default() values
//	2. YAML file (--config, FARS_CONFIG_FILE, fars.yaml or configs/fars.yaml)
//	3. .env file (never overrides variables already set in the process)
//	4. FARS_* environment variables
//
// Environment variable names follow the struct nesting:
//
//	FARS_DATA_BASE_DIR=/srv/fars
//	FARS_DATA_CONCURRENCY=8
//	FARS_SERVER_PORT=9000
//	FARS_LOGGING_LEVEL=debug
//	FARS_TELEMETRY_ENABLE_TRACING=true
//
// The merged result is checked with validator tags and any failure is
// reported as a CONFIG AppError.
package config
