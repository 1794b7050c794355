package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nwcli/pkg/contracts/domain"
)

func TestExportSummaryCSV(t *testing.T) {
	paths := testPaths(t)
	e := NewSummaryExporter(paths)

	summaries := []domain.ParticipantSummary{
		{Name: "Alice", Profession: "Nurse - RN", FinalNetWorth: 250000, MinNetWorth: -20000, MaxNetWorth: 250000, FirstPositiveMonth: 61},
		{Name: "Bob", Profession: "Astronaut", FinalNetWorth: -5000, MinNetWorth: -5000, MaxNetWorth: -100, FirstPositiveMonth: -1},
	}

	require.NoError(t, e.ExportCSV(summaries, "summary.csv"))

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "summary.csv"))
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "Alice,Nurse - RN,250000.00,-20000.00,250000.00,61\n")
	assert.Contains(t, content, "Bob,Astronaut,-5000.00,-5000.00,-100.00,\n", "never-positive renders an empty month")
}

func TestExportSummaryJSON(t *testing.T) {
	paths := testPaths(t)
	e := NewSummaryExporter(paths)

	summaries := []domain.ParticipantSummary{
		{Name: "Alice", Profession: "Nurse - RN", FinalNetWorth: 250000},
	}

	require.NoError(t, e.ExportJSON(summaries, "summary.json"))

	data, err := os.ReadFile(filepath.Join(paths.ProcessedDir, "summary.json"))
	require.NoError(t, err)

	var doc summaryDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Equal(t, domain.HorizonYears, doc.HorizonYears)
	require.Len(t, doc.Participants, 1)
	assert.Equal(t, "Alice", doc.Participants[0].Name)
}
