package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nwcli/internal/dataprocessing"
	apierrors "nwcli/internal/errors"
	"nwcli/internal/projection"
	"nwcli/internal/services"
	"nwcli/pkg/contracts/domain"
)

// stubDataService implements DataServiceInterface for handler tests.
type stubDataService struct {
	loaded bool
}

func (s *stubDataService) Participants(ctx context.Context) ([]domain.MergedParticipant, error) {
	if !s.loaded {
		return nil, services.ErrDatasetNotLoaded
	}
	return []domain.MergedParticipant{
		{Participant: domain.Participant{Name: "Alice", Profession: "Electrician"}},
	}, nil
}

func (s *stubDataService) Professions(ctx context.Context) ([]domain.Profession, error) {
	if !s.loaded {
		return nil, services.ErrDatasetNotLoaded
	}
	return []domain.Profession{{Name: "Electrician", AverageSalary: 61000}}, nil
}

func (s *stubDataService) Timeline(ctx context.Context) ([]domain.TimelinePoint, error) {
	if !s.loaded {
		return nil, services.ErrDatasetNotLoaded
	}
	return []domain.TimelinePoint{
		{Name: "Alice", Profession: "Electrician", Month: 1, NetWorth: 100, Label: "$100.00"},
	}, nil
}

func (s *stubDataService) Series(ctx context.Context) ([]domain.NetWorthSeries, error) {
	if !s.loaded {
		return nil, services.ErrDatasetNotLoaded
	}
	return []domain.NetWorthSeries{{Name: "Alice"}}, nil
}

func (s *stubDataService) Summaries(ctx context.Context) ([]domain.ParticipantSummary, error) {
	if !s.loaded {
		return nil, services.ErrDatasetNotLoaded
	}
	return []domain.ParticipantSummary{{Name: "Alice", FinalNetWorth: 500}}, nil
}

func (s *stubDataService) ParticipantSeries(ctx context.Context, name string, scenario projection.Scenario) (domain.NetWorthSeries, error) {
	if !s.loaded {
		return domain.NetWorthSeries{}, services.ErrDatasetNotLoaded
	}
	if name != "Alice" {
		return domain.NetWorthSeries{}, fmt.Errorf("participant %q %w", name, services.ErrNotFound)
	}
	return domain.NetWorthSeries{Name: "Alice", Points: []domain.NetWorthPoint{{Year: 1, NetWorth: 10500}}}, nil
}

func (s *stubDataService) ScenarioDataset(ctx context.Context, scenario projection.Scenario) (*dataprocessing.Dataset, error) {
	if !s.loaded {
		return nil, services.ErrDatasetNotLoaded
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &dataprocessing.Dataset{
		Timeline: []domain.TimelinePoint{{Name: "Alice", Month: 1, NetWorth: 100}},
	}, nil
}

func newTestHandler(loaded bool) *DataHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eh := apierrors.NewErrorHandler(logger, false)
	return NewDataHandler(&stubDataService{loaded: loaded}, logger, eh)
}

func TestGetTimeline(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/timeline")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(1), body["count"])
}

func TestGetTimeline_DatasetNotLoaded(t *testing.T) {
	h := newTestHandler(false)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/timeline")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var problem map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "DATASET_NOT_FOUND", problem["error_code"])
}

func TestGetParticipantSeries(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/participant/Alice/series?growth=0.07&contribution=250")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body["status"])

	scenario, ok := body["scenario"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.07, scenario["annual_growth_rate"])
	assert.Equal(t, float64(250), scenario["monthly_contribution"])
}

func TestGetParticipantSeries_NotFound(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/participant/Nobody/series")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetParticipantSeries_BadQuery(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/participant/Alice/series?growth=lots")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostScenario(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	body := `{"scenario":{"annual_growth_rate":0.03}}`
	resp, err := http.Post(srv.URL+"/scenario", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "success", out["status"])
	assert.NotNil(t, out["timeline"])
}

func TestPostScenario_InvalidGrowth(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	body := `{"scenario":{"annual_growth_rate":-0.5}}`
	resp, err := http.Post(srv.URL+"/scenario", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostScenario_MalformedBody(t *testing.T) {
	h := newTestHandler(true)
	srv := httptest.NewServer(h.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/scenario", "application/json", strings.NewReader("{nope"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
