package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"nwcli/internal/config"
	"nwcli/pkg/contracts/domain"
)

// WorkbookExporter writes the Excel report workbook with the merged
// participant table, the annual series, and the summary on separate sheets.
type WorkbookExporter struct {
	paths *config.Paths
}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter(paths *config.Paths) *WorkbookExporter {
	return &WorkbookExporter{paths: paths}
}

// Export writes the full report workbook to outputPath.
func (e *WorkbookExporter) Export(merged []domain.MergedParticipant, series []domain.NetWorthSeries, summaries []domain.ParticipantSummary, outputPath string) error {
	fullPath := outputPath
	if !filepath.IsAbs(fullPath) && e.paths != nil {
		fullPath = filepath.Join(e.paths.ProcessedDir, fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeParticipantsSheet(f, merged); err != nil {
		return err
	}
	if err := e.writeAnnualSheet(f, series); err != nil {
		return err
	}
	if err := e.writeSummarySheet(f, summaries); err != nil {
		return err
	}

	// Drop the default sheet created by excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (e *WorkbookExporter) writeParticipantsSheet(f *excelize.File, merged []domain.MergedParticipant) error {
	const sheet = "Participants"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, toCells(mergedHeaders())); err != nil {
		return err
	}
	for i, m := range merged {
		if err := writeRow(f, sheet, i+2, toCells(mergedToCSVRow(m))); err != nil {
			return err
		}
	}
	return nil
}

func (e *WorkbookExporter) writeAnnualSheet(f *excelize.File, series []domain.NetWorthSeries) error {
	const sheet = "Annual"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, []interface{}{"Name", "Profession", "Year", "Net Worth"}); err != nil {
		return err
	}

	row := 2
	for _, s := range series {
		for _, point := range s.Points {
			cells := []interface{}{s.Name, s.Profession, point.Year, point.NetWorth}
			if err := writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (e *WorkbookExporter) writeSummarySheet(f *excelize.File, summaries []domain.ParticipantSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []interface{}{"Name", "Profession", "Final Net Worth", "Min Net Worth", "Max Net Worth", "First Positive Month"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, s := range summaries {
		var firstPositive interface{}
		if s.FirstPositiveMonth >= 0 {
			firstPositive = s.FirstPositiveMonth
		} else {
			firstPositive = ""
		}
		cells := []interface{}{s.Name, s.Profession, s.FinalNetWorth, s.MinNetWorth, s.MaxNetWorth, firstPositive}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for colIdx, val := range cells {
		col, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return fmt.Errorf("failed to resolve column %d: %w", colIdx+1, err)
		}
		cell := fmt.Sprintf("%s%d", col, row)
		if err := f.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("failed to set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(record []string) []interface{} {
	cells := make([]interface{}, len(record))
	for i, v := range record {
		cells[i] = v
	}
	return cells
}
