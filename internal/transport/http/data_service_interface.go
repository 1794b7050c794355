package http

import (
	"context"

	"nwcli/internal/dataprocessing"
	"nwcli/internal/projection"
	"nwcli/pkg/contracts/domain"
)

// DataServiceInterface defines the data operations the handlers depend on
type DataServiceInterface interface {
	Participants(ctx context.Context) ([]domain.MergedParticipant, error)
	Professions(ctx context.Context) ([]domain.Profession, error)
	Timeline(ctx context.Context) ([]domain.TimelinePoint, error)
	Series(ctx context.Context) ([]domain.NetWorthSeries, error)
	Summaries(ctx context.Context) ([]domain.ParticipantSummary, error)
	ParticipantSeries(ctx context.Context, name string, scenario projection.Scenario) (domain.NetWorthSeries, error)
	ScenarioDataset(ctx context.Context, scenario projection.Scenario) (*dataprocessing.Dataset, error)
}
