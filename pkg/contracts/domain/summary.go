package domain

import (
	"encoding/json"
	"sort"
	"strconv"
)

// MonthYear is the grouping key of the summary pivot.
type MonthYear struct {
	Month int
	Year  int
}

// Cell is one pivot value. A cell with Valid=false means no incidents were
// recorded for the (month, year) pair; it is distinct from a zero count.
type Cell struct {
	Count int
	Valid bool
}

// String renders the count, or an empty string for a missing cell.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return strconv.Itoa(c.Count)
}

// MarshalJSON encodes a missing cell as null.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Count)
}

// UnmarshalJSON decodes null as a missing cell.
func (c *Cell) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Cell{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Cell{Count: n, Valid: true}
	return nil
}

// SummaryRow is one month of the pivot with a cell per year column.
type SummaryRow struct {
	Month int    `json:"month"`
	Cells []Cell `json:"cells"`
}

// SummaryTable is the month × year incident-count pivot.
// Rows are months and columns are years, both ascending. It is not
// modified after construction.
type SummaryTable struct {
	months []int
	years  []int
	counts map[MonthYear]int
}

// NewSummaryTable builds the pivot from grouped counts. The axes are the
// distinct months and years present in counts.
func NewSummaryTable(counts map[MonthYear]int) *SummaryTable {
	monthSet := make(map[int]struct{})
	yearSet := make(map[int]struct{})
	owned := make(map[MonthYear]int, len(counts))
	for key, n := range counts {
		monthSet[key.Month] = struct{}{}
		yearSet[key.Year] = struct{}{}
		owned[key] = n
	}

	return &SummaryTable{
		months: sortedKeys(monthSet),
		years:  sortedKeys(yearSet),
		counts: owned,
	}
}

// Months returns the row axis.
func (t *SummaryTable) Months() []int {
	return append([]int(nil), t.months...)
}

// Years returns the column axis.
func (t *SummaryTable) Years() []int {
	return append([]int(nil), t.years...)
}

// Cell returns the count for a month and year.
func (t *SummaryTable) Cell(month, year int) Cell {
	n, ok := t.counts[MonthYear{Month: month, Year: year}]
	return Cell{Count: n, Valid: ok}
}

// Rows returns the pivot in row order, each row holding one cell per year.
func (t *SummaryTable) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(t.months))
	for _, month := range t.months {
		cells := make([]Cell, len(t.years))
		for i, year := range t.years {
			cells[i] = t.Cell(month, year)
		}
		rows = append(rows, SummaryRow{Month: month, Cells: cells})
	}
	return rows
}

// ColumnTotal sums the counts of one year column.
func (t *SummaryTable) ColumnTotal(year int) int {
	total := 0
	for key, n := range t.counts {
		if key.Year == year {
			total += n
		}
	}
	return total
}

// NumRows returns the number of months in the pivot.
func (t *SummaryTable) NumRows() int {
	return len(t.months)
}

// NumCols returns the number of year columns in the pivot.
func (t *SummaryTable) NumCols() int {
	return len(t.years)
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
