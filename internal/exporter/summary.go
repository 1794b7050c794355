package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nwcli/internal/config"
	"nwcli/pkg/contracts/domain"
)

// SummaryExporter writes per-participant projection summaries as CSV for
// spreadsheet users and JSON for the web layer.
type SummaryExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewSummaryExporter creates a new summary exporter
func NewSummaryExporter(paths *config.Paths) *SummaryExporter {
	return &SummaryExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// ExportCSV writes the summary table to a CSV file.
func (e *SummaryExporter) ExportCSV(summaries []domain.ParticipantSummary, outputPath string) error {
	var records [][]string
	for _, s := range summaries {
		firstPositive := ""
		if s.FirstPositiveMonth >= 0 {
			firstPositive = formatInt(s.FirstPositiveMonth)
		}
		records = append(records, []string{
			s.Name,
			s.Profession,
			formatFloat(s.FinalNetWorth),
			formatFloat(s.MinNetWorth),
			formatFloat(s.MaxNetWorth),
			firstPositive,
		})
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, []string{
		"Name", "Profession", "Final Net Worth", "Min Net Worth", "Max Net Worth", "First Positive Month",
	}, records)
}

// summaryDocument is the JSON envelope written next to the CSV outputs.
type summaryDocument struct {
	GeneratedAt  time.Time                   `json:"generated_at"`
	HorizonYears int                         `json:"horizon_years"`
	Participants []domain.ParticipantSummary `json:"participants"`
}

// ExportJSON writes the summary document as indented JSON.
func (e *SummaryExporter) ExportJSON(summaries []domain.ParticipantSummary, outputPath string) error {
	fullPath := outputPath
	if !filepath.IsAbs(fullPath) && e.paths != nil {
		fullPath = filepath.Join(e.paths.ProcessedDir, fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	doc := summaryDocument{
		GeneratedAt:  time.Now().UTC(),
		HorizonYears: domain.HorizonYears,
		Participants: summaries,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write summary JSON: %w", err)
	}
	return nil
}
