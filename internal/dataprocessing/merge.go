package dataprocessing

import (
	"log/slog"
	"strings"

	"nwcli/internal/projection"
	"nwcli/pkg/contracts/domain"
)

// Merge left-joins participants with profession lookup data on the trimmed
// profession name. The join is total: every participant appears exactly once
// in the output, with a nil ProfessionInfo when the key has no match.
// When a tax table is supplied, matched rows are enriched with the tax
// breakdown for the profession's income and the participant's filing status.
func Merge(participants []domain.Participant, professions []domain.Profession, taxes *projection.TaxTable, logger *slog.Logger) []domain.MergedParticipant {
	if logger == nil {
		logger = slog.Default()
	}

	byName := make(map[string]domain.Profession, len(professions))
	for _, prof := range professions {
		byName[normalizeKey(prof.Name)] = prof
	}

	merged := make([]domain.MergedParticipant, 0, len(participants))
	unmatched := 0
	for _, p := range participants {
		m := domain.MergedParticipant{Participant: p}

		if prof, ok := byName[normalizeKey(p.Profession)]; ok {
			m.ProfessionInfo = &prof
			m.Tax = computeTax(prof, p, taxes, logger)
		} else {
			unmatched++
			logger.Warn("no profession match, keeping row with empty lookup fields",
				slog.String("name", p.Name),
				slog.String("profession", p.Profession))
		}

		merged = append(merged, m)
	}

	logger.Info("merged participants with professions",
		slog.Int("participants", len(participants)),
		slog.Int("professions", len(professions)),
		slog.Int("unmatched", unmatched))

	return merged
}

func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func computeTax(prof domain.Profession, p domain.Participant, taxes *projection.TaxTable, logger *slog.Logger) *domain.TaxBreakdown {
	if taxes == nil {
		return nil
	}

	status := p.MaritalStatus
	if status == "" {
		status = "Single"
	}

	breakdown, err := taxes.Compute(prof.AnnualIncome(), status)
	if err != nil {
		logger.Warn("tax computation failed, leaving tax fields empty",
			slog.String("name", p.Name),
			slog.String("error", err.Error()))
		return nil
	}
	return &breakdown
}
