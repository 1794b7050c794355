package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"nwcli/internal/config"
	"nwcli/internal/dataprocessing"
	"nwcli/internal/infrastructure"
	"nwcli/internal/projection"
	"nwcli/pkg/contracts/domain"
)

// DataService owns the in-memory dataset served by the web layer. It loads
// the input worksheets, runs the merge and the default-scenario projection,
// and recomputes per-request scenarios on demand.
type DataService struct {
	config  *config.Config
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics

	mu           sync.RWMutex
	merged       []domain.MergedParticipant
	professions  []domain.Profession
	dataset      *dataprocessing.Dataset
	loadedAt     time.Time
	lastLoadErr  error
	reloadsTotal int64
}

// NewDataService creates a new data service
func NewDataService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized with paths",
		slog.String("input_dir", paths.InputDir),
		slog.String("processed_dir", paths.ProcessedDir))

	return &DataService{
		config: cfg,
		paths:  paths,
		logger: logger,
	}
}

// SetMetrics attaches business metrics. Optional; nil metrics are skipped.
func (ds *DataService) SetMetrics(metrics *infrastructure.BusinessMetrics) {
	ds.metrics = metrics
}

// Load parses the input worksheets, merges them, and runs the projection
// with the default scenario. The result replaces the served dataset
// atomically; a failed load keeps the previous dataset.
func (ds *DataService) Load(ctx context.Context) error {
	start := time.Now()

	participants, err := dataprocessing.ParseParticipants(ds.paths.ParticipantsPath(), ds.logger)
	if err != nil {
		ds.recordLoadError(err)
		return fmt.Errorf("failed to load participants: %w", err)
	}

	professions, err := dataprocessing.ParseProfessions(ds.paths.ProfessionsPath(), ds.logger)
	if err != nil {
		ds.recordLoadError(err)
		return fmt.Errorf("failed to load professions: %w", err)
	}

	// The tax worksheet is optional: without it the merge simply skips the
	// income enrichment.
	var taxes *projection.TaxTable
	if table, err := dataprocessing.ParseTaxTable(ds.paths.TaxTablePath(), ds.logger); err != nil {
		ds.logger.WarnContext(ctx, "tax table unavailable, skipping tax enrichment",
			slog.String("path", ds.paths.TaxTablePath()),
			slog.String("error", err.Error()))
	} else {
		taxes = table
	}

	merged := dataprocessing.Merge(participants, professions, taxes, ds.logger)

	processor := dataprocessing.NewProcessor(ds.logger, projection.DefaultScenario())
	dataset, err := processor.Process(ctx, merged)
	if err != nil {
		ds.recordLoadError(err)
		infrastructure.RecordProjectionRun(ctx, ds.metrics, len(merged), 0, time.Since(start), err)
		return fmt.Errorf("failed to process dataset: %w", err)
	}

	ds.mu.Lock()
	ds.merged = merged
	ds.professions = professions
	ds.dataset = dataset
	ds.loadedAt = time.Now()
	ds.lastLoadErr = nil
	ds.reloadsTotal++
	ds.mu.Unlock()

	if ds.metrics != nil {
		ds.metrics.DatasetReloadsTotal.Add(ctx, 1)
	}
	infrastructure.RecordProjectionRun(ctx, ds.metrics, len(merged), len(dataset.Timeline), time.Since(start), nil)

	ds.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("participants", len(merged)),
		slog.Int("professions", len(professions)),
		slog.Int("timeline_points", len(dataset.Timeline)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

func (ds *DataService) recordLoadError(err error) {
	ds.mu.Lock()
	ds.lastLoadErr = err
	ds.mu.Unlock()
}

// Participants returns the merged participant rows.
func (ds *DataService) Participants(ctx context.Context) ([]domain.MergedParticipant, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.merged, nil
}

// Professions returns the profession lookup rows.
func (ds *DataService) Professions(ctx context.Context) ([]domain.Profession, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.professions, nil
}

// Timeline returns the long-format monthly timeline under the default
// scenario.
func (ds *DataService) Timeline(ctx context.Context) ([]domain.TimelinePoint, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.dataset.Timeline, nil
}

// Series returns the annual net worth series under the default scenario.
func (ds *DataService) Series(ctx context.Context) ([]domain.NetWorthSeries, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.dataset.Series, nil
}

// Summaries returns the per-participant projection summaries.
func (ds *DataService) Summaries(ctx context.Context) ([]domain.ParticipantSummary, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return ds.dataset.Summaries, nil
}

// ParticipantSeries recomputes one participant's annual series under the
// given scenario. Name matching is case and whitespace insensitive.
func (ds *DataService) ParticipantSeries(ctx context.Context, name string, scenario projection.Scenario) (domain.NetWorthSeries, error) {
	ds.mu.RLock()
	merged := ds.merged
	loaded := ds.dataset != nil
	ds.mu.RUnlock()

	if !loaded {
		return domain.NetWorthSeries{}, ErrDatasetNotLoaded
	}

	participant, ok := findParticipant(merged, name)
	if !ok {
		return domain.NetWorthSeries{}, fmt.Errorf("participant %q %w", name, ErrNotFound)
	}

	if ds.metrics != nil {
		ds.metrics.ScenarioRequestsTotal.Add(ctx, 1)
	}

	return projection.Project(participant, scenario)
}

// ScenarioDataset recomputes the full dataset under the given scenario
// without touching the served default-scenario dataset.
func (ds *DataService) ScenarioDataset(ctx context.Context, scenario projection.Scenario) (*dataprocessing.Dataset, error) {
	ds.mu.RLock()
	merged := ds.merged
	loaded := ds.dataset != nil
	ds.mu.RUnlock()

	if !loaded {
		return nil, ErrDatasetNotLoaded
	}

	if ds.metrics != nil {
		ds.metrics.ScenarioRequestsTotal.Add(ctx, 1)
	}

	start := time.Now()
	processor := dataprocessing.NewProcessor(ds.logger, scenario)
	dataset, err := processor.Process(ctx, merged)
	infrastructure.RecordProjectionRun(ctx, ds.metrics, len(merged), timelineLen(dataset), time.Since(start), err)
	return dataset, err
}

func timelineLen(ds *dataprocessing.Dataset) int {
	if ds == nil {
		return 0
	}
	return len(ds.Timeline)
}

// Status reports dataset freshness for the health endpoint.
func (ds *DataService) Status() (loaded bool, loadedAt time.Time, participants int, lastErr error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.dataset != nil, ds.loadedAt, len(ds.merged), ds.lastLoadErr
}

func findParticipant(merged []domain.MergedParticipant, name string) (domain.MergedParticipant, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, m := range merged {
		if strings.ToLower(strings.TrimSpace(m.Name)) == want {
			return m, true
		}
	}
	return domain.MergedParticipant{}, false
}
