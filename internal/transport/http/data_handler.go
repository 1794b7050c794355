package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "nwcli/internal/errors"
	"nwcli/internal/middleware"
	"nwcli/internal/projection"
	"nwcli/internal/services"
)

// DataHandler handles dataset HTTP requests with RFC 7807 compliance
type DataHandler struct {
	service      DataServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler
func NewDataHandler(service DataServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes with proper Chi patterns
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/participants", h.GetParticipants)
	r.Get("/professions", h.GetProfessions)
	r.Get("/timeline", h.GetTimeline)
	r.Get("/summaries", h.GetSummaries)

	r.Route("/participant/{name}", func(r chi.Router) {
		r.Use(h.ParticipantCtx)
		r.Get("/series", h.GetParticipantSeries)
	})

	r.Post("/scenario", h.PostScenario)

	return r
}

// ParticipantCtx middleware validates the name parameter
func (h *DataHandler) ParticipantCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Participant name is required"))
			return
		}
		if len(name) > 128 {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "Participant name too long"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetParticipants handles GET /api/data/participants
func (h *DataHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := h.service.Participants(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get participants")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   participants,
		"count":  len(participants),
	})
}

// GetProfessions handles GET /api/data/professions
func (h *DataHandler) GetProfessions(w http.ResponseWriter, r *http.Request) {
	professions, err := h.service.Professions(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get professions")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   professions,
		"count":  len(professions),
	})
}

// GetTimeline handles GET /api/data/timeline
func (h *DataHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	timeline, err := h.service.Timeline(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get timeline")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   timeline,
		"count":  len(timeline),
	})
}

// GetSummaries handles GET /api/data/summaries
func (h *DataHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.Summaries(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "failed to get summaries")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summaries,
		"count":  len(summaries),
	})
}

// GetParticipantSeries handles GET /api/data/participant/{name}/series.
// Scenario parameters come from the query string: growth, contribution,
// school_savings, school_years. Missing parameters keep the participant's
// baseline values.
func (h *DataHandler) GetParticipantSeries(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	scenario, err := scenarioFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	series, err := h.service.ParticipantSeries(r.Context(), name, scenario)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.errorHandler.HandleError(w, r, apierrors.ParticipantNotFoundError(name))
			return
		}
		h.handleServiceError(w, r, err, "failed to compute participant series")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":   "success",
		"data":     series,
		"scenario": scenario,
	})
}

// scenarioRequest is the POST /api/data/scenario body.
type scenarioRequest struct {
	Scenario projection.Scenario `json:"scenario"`
}

// PostScenario handles POST /api/data/scenario: it recomputes the full
// timeline under the submitted scenario and returns it without persisting
// anything.
func (h *DataHandler) PostScenario(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := req.Scenario.Validate(); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("scenario", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "recomputing scenario",
		slog.String("request_id", reqID),
		slog.Float64("growth", req.Scenario.AnnualGrowthRate))

	dataset, err := h.service.ScenarioDataset(r.Context(), req.Scenario)
	if err != nil {
		h.handleServiceError(w, r, err, "failed to recompute scenario")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":    "success",
		"scenario":  req.Scenario,
		"timeline":  dataset.Timeline,
		"series":    dataset.Series,
		"summaries": dataset.Summaries,
	})
}

func (h *DataHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	if errors.Is(err, services.ErrDatasetNotLoaded) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
		return
	}
	h.errorHandler.HandleError(w, r, err)
}

// scenarioFromQuery builds a Scenario from slider query parameters.
func scenarioFromQuery(r *http.Request) (projection.Scenario, error) {
	scenario := projection.DefaultScenario()
	q := r.URL.Query()

	if raw := q.Get("growth"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return scenario, fmt.Errorf("invalid growth parameter: %w", err)
		}
		scenario.AnnualGrowthRate = v
	}
	if raw := q.Get("contribution"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return scenario, fmt.Errorf("invalid contribution parameter: %w", err)
		}
		scenario.MonthlyContribution = &v
	}
	if raw := q.Get("school_savings"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return scenario, fmt.Errorf("invalid school_savings parameter: %w", err)
		}
		scenario.SavingsDuringSchool = &v
	}
	if raw := q.Get("school_years"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return scenario, fmt.Errorf("invalid school_years parameter: %w", err)
		}
		scenario.YearsInSchool = &v
	}

	return scenario, nil
}
