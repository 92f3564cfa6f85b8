// Package dataprocessing loads yearly FARS accident files and aggregates them.
//
// The pipeline is:
//
//	FilenameResolver  year -> accident_<YEAR>.csv.bz2
//	FileLoader        filename -> Table (decompressed, parsed CSV)
//	MultiYearLoader   years -> one YearResult per year, failures isolated
//	YearSummarizer    years -> month × year SummaryTable
//
// StateMapper sits beside the pipeline and plots the incident locations of
// one state in one year through a MapRenderer.
//
// Usage:
//
//	loader := dataprocessing.NewFileLoader(cfg.Data.BaseDir, logger)
//	years := dataprocessing.NewMultiYearLoader(loader, logger,
//	    dataprocessing.WithConcurrency(cfg.Data.Concurrency))
//	table, err := dataprocessing.NewYearSummarizer(years, logger).
//	    Summarize(ctx, []any{2013, "2014", 2015})
//
// A year whose file is missing or malformed is logged at WARN and left out;
// Summarize fails only when no incidents were loaded at all.
package dataprocessing
