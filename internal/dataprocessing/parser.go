package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"nwcli/internal/projection"
	"nwcli/pkg/contracts/domain"
)

// headerIndex maps normalized header names to column positions. Input sheets
// arrive with inconsistent spacing and capitalization, so headers are trimmed
// and lower-cased before matching.
type headerIndex map[string]int

func buildHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff") // exported sheets carry a BOM
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func (h headerIndex) str(row []string, name string) string {
	if i, ok := h[name]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func (h headerIndex) float(row []string, name string) (float64, error) {
	raw := h.str(row, name)
	if raw == "" {
		return 0, nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimPrefix(raw, "$")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return v, nil
}

func (h headerIndex) has(name string) bool {
	_, ok := h[name]
	return ok
}

func readAllRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // per-row validation happens downstream
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return rows, nil
}

// ParseParticipants reads the participant survey CSV. Unreadable files fail
// fast; individual malformed rows are skipped with a warning so one bad
// survey response cannot sink the whole batch.
func ParseParticipants(path string, logger *slog.Logger) ([]domain.Participant, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := readAllRows(path)
	if err != nil {
		return nil, err
	}

	idx := buildHeaderIndex(rows[0])
	if !idx.has("name") {
		return nil, fmt.Errorf("%s: missing required column %q", path, "Name")
	}

	// Loan balance columns are "month 1".."month 180"; find how many the
	// sheet actually carries.
	loanMonths := 0
	for m := 1; m <= domain.LoanScheduleMonths; m++ {
		if idx.has(fmt.Sprintf("month %d", m)) {
			loanMonths = m
		}
	}

	var participants []domain.Participant
	for i, row := range rows[1:] {
		p, err := parseParticipantRow(idx, row, loanMonths)
		if err != nil {
			logger.Warn("skipping malformed participant row",
				slog.Int("row", i+2),
				slog.String("error", err.Error()))
			continue
		}
		participants = append(participants, p)
	}

	logger.Info("parsed participants",
		slog.String("path", path),
		slog.Int("count", len(participants)),
		slog.Int("skipped", len(rows)-1-len(participants)))

	return participants, nil
}

func parseParticipantRow(idx headerIndex, row []string, loanMonths int) (domain.Participant, error) {
	name := idx.str(row, "name")
	if name == "" {
		return domain.Participant{}, fmt.Errorf("empty name")
	}

	starting, err := idx.float(row, "starting savings")
	if err != nil {
		return domain.Participant{}, err
	}
	savings, err := idx.float(row, "savings")
	if err != nil {
		return domain.Participant{}, err
	}
	duringSchool, err := idx.float(row, "savings during school")
	if err != nil {
		return domain.Participant{}, err
	}
	yearsInSchool, err := idx.float(row, "years in school")
	if err != nil {
		return domain.Participant{}, err
	}
	if starting < 0 || savings < 0 || duringSchool < 0 || yearsInSchool < 0 {
		return domain.Participant{}, fmt.Errorf("negative baseline attribute")
	}

	var loans []float64
	if loanMonths > 0 {
		loans = make([]float64, loanMonths)
		for m := 1; m <= loanMonths; m++ {
			// Missing loan cells count as zero.
			v, err := idx.float(row, fmt.Sprintf("month %d", m))
			if err != nil {
				return domain.Participant{}, err
			}
			loans[m-1] = v
		}
	}

	return domain.Participant{
		Name:                name,
		Profession:          idx.str(row, "profession"),
		MaritalStatus:       idx.str(row, "marital status"),
		MilitaryService:     idx.str(row, "military service"),
		StartingSavings:     starting,
		MonthlySavings:      savings,
		SavingsDuringSchool: duringSchool,
		YearsInSchool:       yearsInSchool,
		LoanSchedule:        loans,
	}, nil
}

// ParseProfessions reads the skillset cost worksheet.
func ParseProfessions(path string, logger *slog.Logger) ([]domain.Profession, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := readAllRows(path)
	if err != nil {
		return nil, err
	}

	idx := buildHeaderIndex(rows[0])
	if !idx.has("profession") {
		return nil, fmt.Errorf("%s: missing required column %q", path, "Profession")
	}

	var professions []domain.Profession
	for i, row := range rows[1:] {
		name := idx.str(row, "profession")
		if name == "" {
			logger.Warn("skipping profession row with empty name", slog.Int("row", i+2))
			continue
		}

		p, err := parseProfessionRow(idx, row, name)
		if err != nil {
			logger.Warn("skipping malformed profession row",
				slog.Int("row", i+2),
				slog.String("error", err.Error()))
			continue
		}
		professions = append(professions, p)
	}

	logger.Info("parsed professions",
		slog.String("path", path),
		slog.Int("count", len(professions)))

	return professions, nil
}

func parseProfessionRow(idx headerIndex, row []string, name string) (domain.Profession, error) {
	salary, err := idx.float(row, "average salary")
	if err != nil {
		return domain.Profession{}, err
	}
	duringSchool, err := idx.float(row, "savings during school")
	if err != nil {
		return domain.Profession{}, err
	}
	years, err := idx.float(row, "years in school")
	if err != nil {
		return domain.Profession{}, err
	}

	return domain.Profession{
		Name:                name,
		Description:         idx.str(row, "description"),
		MilitaryEquivalent:  idx.str(row, "military equivalent"),
		RequiresSchool:      strings.EqualFold(idx.str(row, "requires school"), "yes"),
		AverageSalary:       salary,
		SavingsDuringSchool: duringSchool,
		YearsInSchool:       years,
	}, nil
}

// ParseTaxTable reads the tax worksheet into a projection.TaxTable.
func ParseTaxTable(path string, logger *slog.Logger) (*projection.TaxTable, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rows, err := readAllRows(path)
	if err != nil {
		return nil, err
	}

	idx := buildHeaderIndex(rows[0])
	for _, required := range []string{"status", "type", "lower bound", "rate"} {
		if !idx.has(required) {
			return nil, fmt.Errorf("%s: missing required column %q", path, required)
		}
	}

	var brackets []projection.TaxBracket
	for i, row := range rows[1:] {
		lower, lerr := idx.float(row, "lower bound")
		upper, uerr := idx.float(row, "upper bound") // blank means open-ended
		rate, rerr := idx.float(row, "rate")
		deduction, derr := idx.float(row, "standard deduction")
		if lerr != nil || uerr != nil || rerr != nil || derr != nil {
			logger.Warn("skipping malformed tax bracket row", slog.Int("row", i+2))
			continue
		}

		brackets = append(brackets, projection.TaxBracket{
			Status:            idx.str(row, "status"),
			Jurisdiction:      idx.str(row, "type"),
			LowerBound:        lower,
			UpperBound:        upper,
			Rate:              rate,
			StandardDeduction: deduction,
		})
	}

	if len(brackets) == 0 {
		return nil, fmt.Errorf("%s: no usable tax brackets", path)
	}

	return projection.NewTaxTable(brackets), nil
}
