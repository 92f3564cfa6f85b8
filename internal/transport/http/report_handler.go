package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "farsreport/internal/errors"
	"farsreport/internal/exporter"
	mw "farsreport/internal/middleware"
	"farsreport/internal/services"
	api "farsreport/pkg/contracts/api/v1"
)

// FailedYearsHeader lists the requested years that could not be loaded on
// non-JSON summary responses.
const FailedYearsHeader = "X-Failed-Years"

// ReportHandler serves summaries, state maps and the year listing.
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *mw.RequestValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		validator:    mw.NewRequestValidator(),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", h.GetSummary)
	r.Get("/years", h.GetYears)
	r.Get("/states/{state}/map", h.GetStateMap)

	return r
}

// GetSummary handles GET /api/v1/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	req := api.SummaryRequest{
		Years:  summaryYears(r),
		Format: strings.ToLower(r.URL.Query().Get("format")),
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format := exporter.FormatJSON
	if req.Format != "" {
		format = exporter.Format(req.Format)
	}

	h.logger.DebugContext(r.Context(), "building summary",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Any("years", req.Years),
		slog.String("format", string(format)),
	)

	if format == exporter.FormatJSON {
		summary, err := h.service.Summary(r.Context(), req.Years)
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		render.JSON(w, r, api.NewSummaryResponse(summary.Table, summary.FailedYears()))
		return
	}

	var buf bytes.Buffer
	summary, err := h.service.WriteSummary(r.Context(), &buf, req.Years, format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="fars_summary.%s"`, format))
	if failed := summary.FailedYears(); len(failed) > 0 {
		w.Header().Set(FailedYearsHeader, strings.Join(failed, ","))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GetStateMap handles GET /api/v1/states/{state}/map
func (h *ReportHandler) GetStateMap(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.Atoi(chi.URLParam(r, "state"))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("state", "state must be an integer"))
		return
	}

	req := api.StateMapRequest{State: state, Year: r.URL.Query().Get("year")}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	svg, result, err := h.service.StateMap(r.Context(), req.State, req.Year)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("X-Incident-Count", strconv.Itoa(result.Incidents))
	if !result.Rendered {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(svg)
}

// GetYears handles GET /api/v1/years
func (h *ReportHandler) GetYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.Years(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewStorageError("failed to list accident files", err))
		return
	}
	if years == nil {
		years = []int{}
	}
	render.JSON(w, r, api.YearsResponse{Years: years, Count: len(years)})
}

// summaryYears accepts both ?years=2013,2014 and repeated ?years= values.
func summaryYears(r *http.Request) []string {
	var years []string
	for _, v := range r.URL.Query()["years"] {
		years = append(years, services.ParseYears(v)...)
	}
	return years
}
