package config

import "time"

// Application constants
const (
	AppName     = "FARS Report"
	ServiceName = "fars-report"

	// Environment
	EnvPrefix      = "FARS"
	EnvConfigFile  = "FARS_CONFIG_FILE"
	DefaultEnvFile = ".env"

	// Data
	DefaultDataDir     = "data"
	DefaultConcurrency = 4

	// HTTP
	DefaultPort           = 8080
	DefaultRequestTimeout = 60 * time.Second
	DefaultRateLimit      = 20 // requests per second
	DefaultBurstSize      = 40

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

var configLocations = []string{
	"fars.yaml",
	"configs/fars.yaml",
}
