package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"farsreport/internal/app"
	"farsreport/internal/infrastructure"
	"farsreport/pkg/contracts"
)

func yearsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the years with an accident file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, _, cleanup, err := opts.reportService()
			if err != nil {
				return err
			}
			defer cleanup()

			years, err := svc.Years(infrastructure.EnsureTraceID(cmd.Context()))
			if err != nil {
				return err
			}
			for _, y := range years {
				fmt.Fprintln(opts.stdout, y)
			}
			return nil
		},
	}
}

func serveCmd(opts *globalOptions) *cobra.Command {
	var port int

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			// the server owns the process-wide logger
			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()

			application, err := app.NewApplication(cfg, logger)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}

	c.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config)")
	return c
}

func versionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(opts.stdout, contracts.GetFullVersionString())
		},
	}
}
