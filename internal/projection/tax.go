package projection

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"nwcli/pkg/contracts/domain"
)

// TaxBracket is one row of the tax worksheet: a progressive bracket for a
// filing status and jurisdiction. UpperBound of +Inf marks the top bracket.
type TaxBracket struct {
	Status            string  // "Single" or "Married"
	Jurisdiction      string  // "Federal" or "State"
	LowerBound        float64
	UpperBound        float64
	Rate              float64
	StandardDeduction float64
}

// TaxTable holds all brackets loaded from the tax worksheet, grouped by
// (status, jurisdiction) with brackets sorted by lower bound.
type TaxTable struct {
	brackets map[string][]TaxBracket
}

func taxKey(status, jurisdiction string) string {
	return strings.ToLower(strings.TrimSpace(status)) + "/" + strings.ToLower(strings.TrimSpace(jurisdiction))
}

// NewTaxTable builds a table from parsed brackets.
func NewTaxTable(brackets []TaxBracket) *TaxTable {
	grouped := make(map[string][]TaxBracket)
	for _, b := range brackets {
		key := taxKey(b.Status, b.Jurisdiction)
		grouped[key] = append(grouped[key], b)
	}
	for key := range grouped {
		sort.Slice(grouped[key], func(i, j int) bool {
			return grouped[key][i].LowerBound < grouped[key][j].LowerBound
		})
	}
	return &TaxTable{brackets: grouped}
}

// progressiveTax sums rate times the income slice falling inside each bracket.
func progressiveTax(income float64, brackets []TaxBracket) float64 {
	tax := 0.0
	for _, b := range brackets {
		if income <= b.LowerBound {
			break
		}
		upper := b.UpperBound
		if upper == 0 {
			upper = math.Inf(1)
		}
		taxable := math.Min(income, upper) - b.LowerBound
		tax += taxable * b.Rate
	}
	return tax
}

// Compute calculates federal plus state tax for an annual income and filing
// status, returning the full breakdown including monthly after-tax income.
func (t *TaxTable) Compute(income float64, status string) (domain.TaxBreakdown, error) {
	if income < 0 {
		return domain.TaxBreakdown{}, fmt.Errorf("income must not be negative, got %.2f", income)
	}

	federal, ok := t.brackets[taxKey(status, "Federal")]
	if !ok || len(federal) == 0 {
		return domain.TaxBreakdown{}, fmt.Errorf("no federal tax brackets for status %q", status)
	}
	state, ok := t.brackets[taxKey(status, "State")]
	if !ok || len(state) == 0 {
		return domain.TaxBreakdown{}, fmt.Errorf("no state tax brackets for status %q", status)
	}

	taxable := math.Max(0, income-federal[0].StandardDeduction)
	federalTax := progressiveTax(taxable, federal)
	stateTax := progressiveTax(taxable, state)

	return domain.TaxBreakdown{
		TaxableIncome:         taxable,
		FederalTax:            federalTax,
		StateTax:              stateTax,
		TotalTax:              federalTax + stateTax,
		MonthlyIncomeAfterTax: (income - federalTax - stateTax) / domain.MonthsPerYear,
	}, nil
}
