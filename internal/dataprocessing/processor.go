package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"nwcli/internal/projection"
	"nwcli/pkg/contracts/domain"
)

// Dataset is the fully processed output of one batch run: merged rows, the
// long-format monthly timeline, the published annual series, and the
// per-participant summaries.
type Dataset struct {
	Merged    []domain.MergedParticipant
	Timeline  []domain.TimelinePoint
	Series    []domain.NetWorthSeries
	Summaries []domain.ParticipantSummary
}

// Processor runs the single-pass batch transform from merged participants to
// the processed dataset.
type Processor struct {
	logger   *slog.Logger
	scenario projection.Scenario
}

// NewProcessor creates a processor for the given scenario.
func NewProcessor(logger *slog.Logger, scenario projection.Scenario) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, scenario: scenario}
}

// Process projects every merged participant and expands the results to the
// long-format timeline. It is deterministic and touches no shared state.
func (pr *Processor) Process(ctx context.Context, merged []domain.MergedParticipant) (*Dataset, error) {
	if err := pr.scenario.Validate(); err != nil {
		return nil, err
	}

	ds := &Dataset{
		Merged:    merged,
		Timeline:  make([]domain.TimelinePoint, 0, len(merged)*domain.HorizonMonths),
		Series:    make([]domain.NetWorthSeries, 0, len(merged)),
		Summaries: make([]domain.ParticipantSummary, 0, len(merged)),
	}

	for _, m := range merged {
		monthly, err := projection.ProjectMonthly(m, pr.scenario)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", m.Name, err)
		}

		for i, netWorth := range monthly {
			ds.Timeline = append(ds.Timeline, domain.TimelinePoint{
				Name:       m.Name,
				Profession: m.Profession,
				Month:      i + 1,
				NetWorth:   netWorth,
				Label:      domain.FormatAccounting(netWorth),
			})
		}

		ds.Series = append(ds.Series, annualSeries(m, monthly))
		ds.Summaries = append(ds.Summaries, summarize(m, monthly))
	}

	pr.logger.InfoContext(ctx, "batch transform complete",
		slog.Int("participants", len(merged)),
		slog.Int("timeline_points", len(ds.Timeline)))

	return ds, nil
}

func annualSeries(m domain.MergedParticipant, monthly []float64) domain.NetWorthSeries {
	points := make([]domain.NetWorthPoint, 0, domain.HorizonYears)
	for year := 1; year <= domain.HorizonYears; year++ {
		points = append(points, domain.NetWorthPoint{
			Year:     year,
			NetWorth: monthly[year*domain.MonthsPerYear-1],
		})
	}
	return domain.NetWorthSeries{Name: m.Name, Profession: m.Profession, Points: points}
}

func summarize(m domain.MergedParticipant, monthly []float64) domain.ParticipantSummary {
	summary := domain.ParticipantSummary{
		Name:               m.Name,
		Profession:         m.Profession,
		FinalNetWorth:      monthly[len(monthly)-1],
		MinNetWorth:        monthly[0],
		MaxNetWorth:        monthly[0],
		FirstPositiveMonth: -1,
	}
	for i, v := range monthly {
		if v < summary.MinNetWorth {
			summary.MinNetWorth = v
		}
		if v > summary.MaxNetWorth {
			summary.MaxNetWorth = v
		}
		if summary.FirstPositiveMonth == -1 && v > 0 {
			summary.FirstPositiveMonth = i + 1
		}
	}
	return summary
}
