package exporter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"farsreport/internal/errors"
	"farsreport/pkg/contracts/domain"
)

// Format is an output format for summaries.
type Format string

// Supported summary formats.
const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// MissingText is how the terminal table shows a month with no incidents.
const MissingText = "NA"

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", errors.NewAppValidationError(fmt.Sprintf("unsupported format %q", s)).
			WithContext("format", s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", errors.NewAppValidationError(fmt.Sprintf("cannot infer format from %q", path)).
			WithContext("path", path)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// formatCell renders a count, or missing when the cell has no data.
func formatCell(c domain.Cell, missing string) string {
	if !c.Valid {
		return missing
	}
	return strconv.Itoa(c.Count)
}

// headerRow returns MONTH followed by the year columns.
func headerRow(table *domain.SummaryTable) []string {
	years := table.Years()
	header := make([]string, 0, len(years)+1)
	header = append(header, "MONTH")
	for _, y := range years {
		header = append(header, strconv.Itoa(y))
	}
	return header
}
