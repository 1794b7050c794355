package domain

// Participant represents one survey respondent's baseline financial
// attributes. Records are immutable once loaded from the input data.
type Participant struct {
	Name                string  `json:"name" csv:"Name" validate:"required"`
	Profession          string  `json:"profession" csv:"Profession"`
	MaritalStatus       string  `json:"marital_status,omitempty" csv:"MaritalStatus"`
	MilitaryService     string  `json:"military_service,omitempty" csv:"MilitaryService"`
	StartingSavings     float64 `json:"starting_savings" csv:"StartingSavings" validate:"gte=0"`
	MonthlySavings      float64 `json:"monthly_savings" csv:"Savings" validate:"gte=0"`
	SavingsDuringSchool float64 `json:"savings_during_school" csv:"SavingsDuringSchool" validate:"gte=0"`
	YearsInSchool       float64 `json:"years_in_school" csv:"YearsInSchool" validate:"gte=0,lte=25"`

	// LoanSchedule holds the remaining monthly loan balance for months
	// 1..180 (negative values are outstanding debt). A short or nil slice
	// means no loan beyond the covered months.
	LoanSchedule []float64 `json:"loan_schedule,omitempty"`
}

// LoanBalance returns the loan balance for a 1-based month, or zero when the
// schedule does not cover it. Loans only span the first LoanScheduleMonths.
func (p Participant) LoanBalance(month int) float64 {
	if month < 1 || month > LoanScheduleMonths {
		return 0
	}
	if month > len(p.LoanSchedule) {
		return 0
	}
	return p.LoanSchedule[month-1]
}

// TaxBreakdown holds the derived tax fields for a merged participant.
type TaxBreakdown struct {
	TaxableIncome        float64 `json:"taxable_income"`
	FederalTax           float64 `json:"federal_tax"`
	StateTax             float64 `json:"state_tax"`
	TotalTax             float64 `json:"total_tax"`
	MonthlyIncomeAfterTax float64 `json:"monthly_income_after_tax"`
}

// MergedParticipant is a participant joined with profession lookup data.
// Profession is nil when the merge key had no match; such rows are retained
// in every output rather than dropped.
type MergedParticipant struct {
	Participant
	ProfessionInfo *Profession   `json:"profession_info,omitempty"`
	Tax            *TaxBreakdown `json:"tax,omitempty"`
}

// EffectiveYearsInSchool prefers the participant's own value and falls back
// to the profession default.
func (m MergedParticipant) EffectiveYearsInSchool() float64 {
	if m.YearsInSchool > 0 {
		return m.YearsInSchool
	}
	if m.ProfessionInfo != nil {
		return m.ProfessionInfo.YearsInSchool
	}
	return 0
}

// EffectiveSavingsDuringSchool prefers the participant's own value and falls
// back to the profession default.
func (m MergedParticipant) EffectiveSavingsDuringSchool() float64 {
	if m.SavingsDuringSchool > 0 {
		return m.SavingsDuringSchool
	}
	if m.ProfessionInfo != nil {
		return m.ProfessionInfo.SavingsDuringSchool
	}
	return 0
}
