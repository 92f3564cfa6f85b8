// Package cli implements the fars command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"farsreport/internal/config"
	"farsreport/internal/infrastructure"
	"farsreport/internal/services"
	"farsreport/pkg/contracts"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	envFile    string
	dataDir    string
	logLevel   string

	stdout io.Writer
	stderr io.Writer
}

// Execute runs the root command and exits non-zero on failure. cobra prints
// the error to stderr.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree writing results to stdout and logs to
// stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "fars",
		Short:         "Summarize FARS yearly accident files",
		Long:          "fars reads accident_<YEAR>.csv.bz2 files, builds month by year incident summaries and plots state incident maps.",
		Version:       contracts.Version,
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML config file (default: $FARS_CONFIG_FILE, fars.yaml, configs/fars.yaml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Path to a .env file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding accident_<YEAR>.csv.bz2 files")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug|info|warn|error")

	cmd.AddCommand(
		summarizeCmd(opts),
		mapCmd(opts),
		yearsCmd(opts),
		serveCmd(opts),
		versionCmd(opts),
	)
	return cmd
}

// loadConfig applies the persistent flags on top of the layered config.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{File: o.configFile, EnvFile: o.envFile})
	if err != nil {
		return nil, err
	}
	if o.dataDir != "" {
		cfg.Data.BaseDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger builds the command logger. Console output goes to stderr so stdout
// carries only results. The returned func closes any log file.
func (o *globalOptions) logger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, file, err := infrastructure.NewLogger(cfg.Logging, o.stderr)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if file != nil {
			file.Close()
		}
	}
	return logger, cleanup, nil
}

// reportService loads config and wires the report service for a command.
func (o *globalOptions) reportService(buildOpts ...services.BuildOption) (*services.ReportService, *slog.Logger, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	logger, cleanup, err := o.logger(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, err := services.BuildReportService(cfg.Data, nil, logger, buildOpts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return svc, logger, cleanup, nil
}
