package domain

// Profession represents one row of the skillset cost worksheet. It is lookup
// data attached to participants during the merge step.
type Profession struct {
	Name                string  `json:"name" csv:"Profession" validate:"required"`
	Description         string  `json:"description" csv:"Description"`
	MilitaryEquivalent  string  `json:"military_equivalent" csv:"MilitaryEquivalent"`
	RequiresSchool      bool    `json:"requires_school" csv:"RequiresSchool"`
	AverageSalary       float64 `json:"average_salary" csv:"AverageSalary" validate:"gte=0"`
	SavingsDuringSchool float64 `json:"savings_during_school" csv:"SavingsDuringSchool" validate:"gte=0"`
	YearsInSchool       float64 `json:"years_in_school" csv:"YearsInSchool" validate:"gte=0,lte=25"`
}

// AnnualIncome returns the income used for tax purposes: students live on
// their during-school stipend, everyone else on the average salary.
func (p Profession) AnnualIncome() float64 {
	if p.RequiresSchool {
		return p.SavingsDuringSchool * 12
	}
	return p.AverageSalary
}
