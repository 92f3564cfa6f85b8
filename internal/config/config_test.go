package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farsreport/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fars.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultDataDir, cfg.Data.BaseDir)
	assert.Equal(t, 4, cfg.Data.Concurrency)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		env      map[string]string
		wantErr  bool
		validate func(*testing.T, *Config)
	}{
		{
			name: "defaults only",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "data", cfg.Data.BaseDir)
			},
		},
		{
			name: "file overlays defaults",
			yaml: "server:\n  port: 9090\n  read_timeout: 5s\ndata:\n  base_dir: /srv/fars\n",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "/srv/fars", cfg.Data.BaseDir)
				// untouched keys keep their defaults
				assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
				assert.Equal(t, DefaultConcurrency, cfg.Data.Concurrency)
			},
		},
		{
			name: "env overrides file",
			yaml: "data:\n  base_dir: /from/file\n  concurrency: 2\n",
			env: map[string]string{
				"FARS_DATA_BASE_DIR":         "/from/env",
				"FARS_LOGGING_LEVEL":         "DEBUG",
				"FARS_SERVER_RATE_LIMIT_RPS": "5.5",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/from/env", cfg.Data.BaseDir)
				assert.Equal(t, 2, cfg.Data.Concurrency)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 5.5, cfg.Server.RateLimit.RPS)
			},
		},
		{
			name:    "invalid concurrency",
			env:     map[string]string{"FARS_DATA_CONCURRENCY": "0"},
			wantErr: true,
		},
		{
			name:    "invalid log output",
			yaml:    "logging:\n  output: syslog\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			yaml:    "server: [unclosed\n",
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"FARS_SERVER_PORT": "eighty"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			opts := Options{EnvFile: noEnvFile(t)}
			if tt.yaml != "" {
				opts.File = writeConfig(t, tt.yaml)
			}

			cfg, err := Load(opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestLoadConfigFileFromEnv(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 7070\n")
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load(Options{EnvFile: noEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml"), EnvFile: noEnvFile(t)})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}

func TestLoadDotEnv(t *testing.T) {
	const key = "FARS_DATA_CONCURRENCY"
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=9\n"), 0o644))

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Data.Concurrency)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty base dir", func(c *Config) { c.Data.BaseDir = "" }, true},
		{"file output without path", func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" }, true},
		{"console output without path", func(c *Config) { c.Logging.FilePath = "" }, false},
		{"unknown trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "otlp" }, true},
		{"sample ratio above one", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }, true},
		{"mixed case level", func(c *Config) { c.Logging.Level = "WARN" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Address())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Address())
}
