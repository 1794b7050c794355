package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nwcli/pkg/contracts/domain"
)

func TestExportTimeline(t *testing.T) {
	paths := testPaths(t)
	e := NewTimelineExporter(paths)

	points := []domain.TimelinePoint{
		{Name: "Alice", Profession: "Nurse - RN", Month: 1, NetWorth: -19800, Label: "($19,800.00)"},
		{Name: "Alice", Profession: "Nurse - RN", Month: 2, NetWorth: -19550.5, Label: "($19,550.50)"},
	}

	require.NoError(t, e.ExportTimeline(points, "timeline.csv"))

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "timeline.csv"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Name,Profession,Month,Net Worth,Net Worth Label\n")
	assert.Contains(t, content, `Alice,Nurse - RN,1,-19800.00,"($19,800.00)"`)
	assert.Contains(t, content, `Alice,Nurse - RN,2,-19550.50,"($19,550.50)"`)
}

func TestExportAnnual(t *testing.T) {
	paths := testPaths(t)
	e := NewTimelineExporter(paths)

	series := []domain.NetWorthSeries{
		{
			Name:       "Alice",
			Profession: "Nurse - RN",
			Points: []domain.NetWorthPoint{
				{Year: 1, NetWorth: 10500},
				{Year: 2, NetWorth: 11025},
			},
		},
	}

	require.NoError(t, e.ExportAnnual(series, "annual.csv"))

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "annual.csv"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Name,Profession,Year,Net Worth\n")
	assert.Contains(t, content, "Alice,Nurse - RN,1,10500.00\n")
	assert.Contains(t, content, "Alice,Nurse - RN,2,11025.00\n")
}

func TestExportMerged(t *testing.T) {
	paths := testPaths(t)
	e := NewTimelineExporter(paths)

	merged := []domain.MergedParticipant{
		{
			Participant: domain.Participant{Name: "Alice", Profession: "Nurse - RN", MaritalStatus: "Single"},
			ProfessionInfo: &domain.Profession{
				Name:               "Nurse - RN",
				Description:        "Registered nurse",
				MilitaryEquivalent: "68C",
				RequiresSchool:     true,
				AverageSalary:      77600,
			},
			Tax: &domain.TaxBreakdown{FederalTax: 8000, StateTax: 2000, MonthlyIncomeAfterTax: 5633.33},
		},
		{
			Participant: domain.Participant{Name: "Bob", Profession: "Astronaut"},
		},
	}

	require.NoError(t, e.ExportMerged(merged, "merged.csv"))

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "merged.csv"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Alice,Nurse - RN,Single")
	assert.Contains(t, content, "Registered nurse")
	assert.Contains(t, content, "8000.00,2000.00,5633.33")

	// Unmatched rows keep their participant fields with empty lookup columns.
	assert.Contains(t, content, "Bob,Astronaut")
	assert.Contains(t, content, "false,,,,,,,,\n")
}
