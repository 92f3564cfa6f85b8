// Package api contains the HTTP contracts of the FARS report API.
// Version v1 represents the current stable API version.
package api

// SummaryRequest selects the years of a month × year summary.
type SummaryRequest struct {
	Years  []string `json:"years" query:"years" validate:"required,min=1,max=50,dive,number,max=4"`
	Format string   `json:"format" query:"format" validate:"omitempty,oneof=json csv xlsx"`
}

// StateMapRequest selects the state and year of an incident map.
type StateMapRequest struct {
	State int    `json:"state" param:"state" validate:"min=1,max=99"`
	Year  string `json:"year" query:"year" validate:"required,number,max=4"`
}
