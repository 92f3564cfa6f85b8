package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"farsreport/internal/exporter"
	"farsreport/internal/infrastructure"
	"farsreport/internal/services"
	"farsreport/internal/validation"
)

func summarizeCmd(opts *globalOptions) *cobra.Command {
	var years []string
	var format string
	var out string
	var bom bool

	c := &cobra.Command{
		Use:   "summarize",
		Short: "Count incidents by month and year",
		Example: `  fars summarize --years 2013,2014,2015
  fars summarize --years 2013 --years 2014 --format csv
  fars summarize --years 2013,2014 --out summary.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, logger, cleanup, err := opts.reportService(
				services.WithWriterOptions(exporter.WithBOM(bom)))
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := infrastructure.EnsureTraceID(cmd.Context())

			if out != "" {
				if _, err := exporter.FormatFromPath(out); err != nil {
					return err
				}
				if err := validation.NewFileValidator(infrastructure.LoggerWithContext(ctx, logger)).ValidateOutputPath(out); err != nil {
					return err
				}
				summary, err := svc.ExportSummary(ctx, out, years)
				if err != nil {
					return err
				}
				fmt.Fprintf(opts.stdout, "wrote %s (%d months x %d years)\n", out, summary.Table.NumRows(), summary.Table.NumCols())
				reportFailed(opts, summary.FailedYears())
				return nil
			}

			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == exporter.FormatXLSX {
				return fmt.Errorf("xlsx output needs --out")
			}

			summary, err := svc.WriteSummary(ctx, opts.stdout, years, f)
			if err != nil {
				return err
			}
			reportFailed(opts, summary.FailedYears())
			return nil
		},
	}

	c.Flags().StringSliceVarP(&years, "years", "y", nil, "Years to summarize, comma separated or repeated (required)")
	c.Flags().StringVarP(&format, "format", "f", string(exporter.FormatTable), "Output format: table|csv|json")
	c.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout; .csv, .json or .xlsx")
	c.Flags().BoolVar(&bom, "bom", false, "Prefix CSV output with a UTF-8 byte order mark")

	_ = c.MarkFlagRequired("years")
	return c
}

func reportFailed(opts *globalOptions, failed []string) {
	if len(failed) > 0 {
		fmt.Fprintf(opts.stderr, "skipped years: %s\n", strings.Join(failed, ", "))
	}
}
