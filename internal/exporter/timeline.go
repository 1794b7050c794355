package exporter

import (
	"fmt"

	"nwcli/internal/config"
	"nwcli/pkg/contracts/domain"
)

// TimelineExporter writes the projection outputs consumed by the dashboard:
// the long-format monthly timeline, the annual series, and the merged
// participant table.
type TimelineExporter struct {
	csvWriter *CSVWriter
}

// NewTimelineExporter creates a new timeline exporter
func NewTimelineExporter(paths *config.Paths) *TimelineExporter {
	return &TimelineExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportTimeline streams the long-format timeline to a CSV file. One row per
// participant per month, ordered as produced by the processor.
func (e *TimelineExporter) ExportTimeline(points []domain.TimelinePoint, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, []string{
		"Name", "Profession", "Month", "Net Worth", "Net Worth Label",
	})
	if err != nil {
		return fmt.Errorf("failed to create timeline stream: %w", err)
	}

	for _, point := range points {
		record := []string{
			point.Name,
			point.Profession,
			formatInt(point.Month),
			formatFloat(point.NetWorth),
			point.Label,
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write timeline record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close timeline stream: %w", err)
	}
	return nil
}

// ExportAnnual writes the year-end sampled series, one row per participant
// per year.
func (e *TimelineExporter) ExportAnnual(series []domain.NetWorthSeries, outputPath string) error {
	var records [][]string
	for _, s := range series {
		for _, point := range s.Points {
			records = append(records, []string{
				s.Name,
				s.Profession,
				formatInt(point.Year),
				formatFloat(point.NetWorth),
			})
		}
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, []string{
		"Name", "Profession", "Year", "Net Worth",
	}, records)
}

// ExportMerged writes the merged participant table with profession lookup
// fields and the tax enrichment flattened into columns.
func (e *TimelineExporter) ExportMerged(merged []domain.MergedParticipant, outputPath string) error {
	var records [][]string
	for _, m := range merged {
		records = append(records, mergedToCSVRow(m))
	}

	return e.csvWriter.WriteSimpleCSV(outputPath, mergedHeaders(), records)
}

func mergedHeaders() []string {
	return []string{
		"Name", "Profession", "Marital Status", "Military Service",
		"Starting Savings", "Monthly Savings", "Savings During School", "Years in School",
		"Profession Matched", "Description", "Military Equivalent", "Requires School",
		"Average Salary", "Annual Income", "Federal Tax", "State Tax", "Monthly Income After Tax",
	}
}

func mergedToCSVRow(m domain.MergedParticipant) []string {
	row := []string{
		m.Name,
		m.Profession,
		m.MaritalStatus,
		m.MilitaryService,
		formatFloat(m.StartingSavings),
		formatFloat(m.MonthlySavings),
		formatFloat(m.EffectiveSavingsDuringSchool()),
		formatFloat(m.EffectiveYearsInSchool()),
	}

	if m.ProfessionInfo == nil {
		return append(row, formatBool(false), "", "", "", "", "", "", "", "")
	}

	info := m.ProfessionInfo
	row = append(row,
		formatBool(true),
		info.Description,
		info.MilitaryEquivalent,
		formatBool(info.RequiresSchool),
		formatFloat(info.AverageSalary),
		formatFloat(info.AnnualIncome()),
	)

	if m.Tax == nil {
		return append(row, "", "", "")
	}
	return append(row,
		formatFloat(m.Tax.FederalTax),
		formatFloat(m.Tax.StateTax),
		formatFloat(m.Tax.MonthlyIncomeAfterTax),
	)
}
