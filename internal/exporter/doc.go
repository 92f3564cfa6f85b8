// Package exporter writes summaries and incident maps.
//
// SummaryWriter renders a domain.SummaryTable as CSV, JSON, XLSX or a
// terminal table. Missing cells are left empty in CSV and XLSX, null in
// JSON and NA in the terminal table; they are never written as zero.
//
//	w := exporter.NewSummaryWriter(logger)
//	err := w.WriteFile(ctx, "out/summary.xlsx", table, nil)
//
// SVGMapRenderer draws incident locations as an SVG scatter plot and is the
// dataprocessing.MapRenderer used by the service layer.
package exporter
