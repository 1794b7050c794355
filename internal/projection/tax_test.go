package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxTable() *TaxTable {
	return NewTaxTable([]TaxBracket{
		{Status: "Single", Jurisdiction: "Federal", LowerBound: 0, UpperBound: 10000, Rate: 0.10, StandardDeduction: 14600},
		{Status: "Single", Jurisdiction: "Federal", LowerBound: 10000, UpperBound: 40000, Rate: 0.20, StandardDeduction: 14600},
		{Status: "Single", Jurisdiction: "Federal", LowerBound: 40000, UpperBound: 0, Rate: 0.30, StandardDeduction: 14600},
		{Status: "Single", Jurisdiction: "State", LowerBound: 0, UpperBound: 0, Rate: 0.05, StandardDeduction: 14600},
	})
}

func TestTaxTable_Compute(t *testing.T) {
	table := testTaxTable()

	tests := []struct {
		name        string
		income      float64
		wantTaxable float64
		wantFederal float64
		wantState   float64
	}{
		{
			name:        "income below standard deduction owes nothing",
			income:      12000,
			wantTaxable: 0,
			wantFederal: 0,
			wantState:   0,
		},
		{
			name:        "income inside first bracket",
			income:      20000,
			wantTaxable: 5400,
			wantFederal: 540,
			wantState:   270,
		},
		{
			name:        "income spanning all brackets",
			income:      64600, // taxable 50000
			wantTaxable: 50000,
			wantFederal: 10000*0.10 + 30000*0.20 + 10000*0.30,
			wantState:   50000 * 0.05,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Compute(tt.income, "Single")
			require.NoError(t, err)

			assert.InDelta(t, tt.wantTaxable, got.TaxableIncome, 0.001)
			assert.InDelta(t, tt.wantFederal, got.FederalTax, 0.001)
			assert.InDelta(t, tt.wantState, got.StateTax, 0.001)
			assert.InDelta(t, tt.wantFederal+tt.wantState, got.TotalTax, 0.001)
			assert.InDelta(t, (tt.income-got.TotalTax)/12, got.MonthlyIncomeAfterTax, 0.001)
		})
	}
}

func TestTaxTable_Compute_Errors(t *testing.T) {
	table := testTaxTable()

	_, err := table.Compute(-1, "Single")
	assert.Error(t, err)

	_, err = table.Compute(50000, "Married")
	assert.Error(t, err, "missing brackets for status")
}
