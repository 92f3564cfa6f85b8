package api

import (
	"strconv"

	"farsreport/pkg/contracts/domain"
)

// SummaryResponse is the JSON form of a month × year summary. Each row maps
// a year to its count, or null when the month has no incidents that year.
type SummaryResponse struct {
	Months      []int        `json:"months"`
	Years       []int        `json:"years"`
	Rows        []SummaryRow `json:"rows"`
	FailedYears []string     `json:"failed_years"`
}

// SummaryRow is one month of a SummaryResponse.
type SummaryRow struct {
	Month  int                    `json:"month"`
	Counts map[string]domain.Cell `json:"counts"`
}

// NewSummaryResponse converts a summary table into its JSON form.
func NewSummaryResponse(table *domain.SummaryTable, failedYears []string) SummaryResponse {
	if failedYears == nil {
		failedYears = []string{}
	}
	resp := SummaryResponse{
		Months:      table.Months(),
		Years:       table.Years(),
		Rows:        make([]SummaryRow, 0, table.NumRows()),
		FailedYears: failedYears,
	}
	for _, row := range table.Rows() {
		counts := make(map[string]domain.Cell, len(resp.Years))
		for i, year := range resp.Years {
			counts[strconv.Itoa(year)] = row.Cells[i]
		}
		resp.Rows = append(resp.Rows, SummaryRow{Month: row.Month, Counts: counts})
	}
	return resp
}

// YearsResponse lists the years with an accident file.
type YearsResponse struct {
	Years []int `json:"years"`
	Count int   `json:"count"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	DataDir        string `json:"data_dir"`
	DataDirOK      bool   `json:"data_dir_ok"`
	AvailableYears int    `json:"available_years"`
}
