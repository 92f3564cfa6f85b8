package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"farsreport/internal/errors"
	"farsreport/pkg/contracts/domain"
)

// Columns read by the state map.
const (
	StateColumn     = "STATE"
	LongitudeColumn = "LONGITUD"
	LatitudeColumn  = "LATITUDE"
)

// MapRenderer draws incident points.
type MapRenderer interface {
	Render(w io.Writer, title string, points []domain.MapPoint) error
}

// MapResult describes a state map request.
type MapResult struct {
	State    int         `json:"state"`
	Year     domain.Year `json:"year"`
	Filename string      `json:"filename"`
	// Incidents is the number of rows for the state, Points those with
	// known coordinates.
	Incidents int  `json:"incidents"`
	Points    int  `json:"points"`
	Rendered  bool `json:"rendered"`
}

// StateMapper plots the incidents of one state in one year.
type StateMapper struct {
	resolver *FilenameResolver
	loader   TableLoader
	renderer MapRenderer
	logger   *slog.Logger
}

// NewStateMapper creates a mapper reading files through loader.
func NewStateMapper(loader TableLoader, renderer MapRenderer, logger *slog.Logger) *StateMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateMapper{
		resolver: NewFilenameResolver(logger),
		loader:   loader,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "state_mapper")),
	}
}

// StatePoints returns the plottable incident locations of state in year.
// Longitudes above 900 and latitudes above 90 encode unknown positions and
// are dropped, as are unparsable values. A state with no rows at all is an
// INVALID_STATE AppError. Load errors are returned unchanged.
func (m *StateMapper) StatePoints(ctx context.Context, state int, year any) ([]domain.MapPoint, MapResult, error) {
	y := m.resolver.Coerce(ctx, year)
	result := MapResult{State: state, Year: y, Filename: m.resolver.ResolveYear(y)}

	table, err := m.loader.Load(ctx, result.Filename)
	if err != nil {
		return nil, result, err
	}

	states, err := table.Ints(StateColumn)
	if err != nil {
		return nil, result, err
	}
	lons, err := table.Floats(LongitudeColumn)
	if err != nil {
		return nil, result, err
	}
	lats, err := table.Floats(LatitudeColumn)
	if err != nil {
		return nil, result, err
	}

	var points []domain.MapPoint
	for i, s := range states {
		if s != state {
			continue
		}
		result.Incidents++

		lon, lat := lons[i], lats[i]
		if math.IsNaN(lon) || math.IsNaN(lat) || lon > domain.MaxKnownLongitude || lat > domain.MaxKnownLatitude {
			continue
		}
		points = append(points, domain.MapPoint{Longitude: lon, Latitude: lat})
	}

	if result.Incidents == 0 {
		return nil, result, errors.NewInvalidStateError(state)
	}

	result.Points = len(points)
	return points, result, nil
}

// MapState renders the incidents of state in year to w. When no incident
// has known coordinates it logs "no accidents to plot" at INFO, writes
// nothing and returns a result with zero points.
func (m *StateMapper) MapState(ctx context.Context, w io.Writer, state int, year any) (MapResult, error) {
	points, result, err := m.StatePoints(ctx, state, year)
	if err != nil {
		return result, err
	}

	if len(points) == 0 {
		m.logger.InfoContext(ctx, "no accidents to plot",
			slog.Int("state", state),
			slog.String("year", result.Year.String()))
		return result, nil
	}

	title := fmt.Sprintf("State %d accidents, %s", state, result.Year)
	if err := m.renderer.Render(w, title, points); err != nil {
		return result, errors.NewStorageError("failed to render state map", err).
			WithContext("state", state)
	}
	result.Rendered = true
	return result, nil
}
