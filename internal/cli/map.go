package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"farsreport/internal/files"
	"farsreport/internal/infrastructure"
	"farsreport/internal/validation"
)

func mapCmd(opts *globalOptions) *cobra.Command {
	var state int
	var year string
	var out string

	c := &cobra.Command{
		Use:     "map",
		Short:   "Plot the incidents of one state in one year as SVG",
		Example: "  fars map --state 1 --year 2013 --out alabama_2013.svg",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := strconv.Atoi(year); err != nil {
				return fmt.Errorf("invalid --year %q", year)
			}

			svc, logger, cleanup, err := opts.reportService()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := infrastructure.EnsureTraceID(cmd.Context())
			logger = infrastructure.LoggerWithContext(ctx, logger)

			if out == "" {
				out = fmt.Sprintf("state_%d_%s.svg", state, year)
			}
			if err := validation.NewFileValidator(logger).ValidateOutputPath(out); err != nil {
				return err
			}

			svg, result, err := svc.StateMap(ctx, state, year)
			if err != nil {
				return err
			}
			if !result.Rendered {
				fmt.Fprintf(opts.stdout, "no accidents to plot for state %d in %s\n", state, year)
				return nil
			}

			err = files.NewManager("", logger).WriteFile(out, func(w io.Writer) error {
				_, err := w.Write(svg)
				return err
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(opts.stdout, "wrote %s (%d of %d incidents plotted)\n", out, result.Points, result.Incidents)
			return nil
		},
	}

	c.Flags().IntVarP(&state, "state", "s", 0, "State code (required)")
	c.Flags().StringVarP(&year, "year", "y", "", "Year (required)")
	c.Flags().StringVarP(&out, "out", "o", "", "Output SVG path (default state_<STATE>_<YEAR>.svg)")

	_ = c.MarkFlagRequired("state")
	_ = c.MarkFlagRequired("year")
	return c
}
