package domain

// IncidentRecord is the (month, year) projection of one row of a yearly
// accident file. Year is the year the file was requested under, not a
// value read from the file.
type IncidentRecord struct {
	Month int `json:"month" validate:"min=1,max=12"`
	Year  int `json:"year"`
}

// YearTable holds the projected incidents of one requested year.
type YearTable struct {
	Year    Year             `json:"year"`
	Source  string           `json:"source"`
	Records []IncidentRecord `json:"records"`
}

// Len returns the number of incidents in the table.
func (t *YearTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// MapPoint is a plottable incident location in decimal degrees.
type MapPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Sentinel thresholds used by the source data to encode unknown coordinates.
const (
	MaxKnownLongitude = 900.0
	MaxKnownLatitude  = 90.0
)
