package projection

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"nwcli/pkg/contracts/domain"
)

// DefaultAnnualGrowthRate matches the survey model's assumed savings growth.
const DefaultAnnualGrowthRate = 0.05

var validate = validator.New(validator.WithRequiredStructEnabled())

// Scenario holds the user-adjustable parameters bound to the dashboard
// sliders. Pointer fields are overrides; nil means "use the participant's
// baseline attribute".
type Scenario struct {
	AnnualGrowthRate    float64  `json:"annual_growth_rate" validate:"gte=0,lte=1"`
	MonthlyContribution *float64 `json:"monthly_contribution,omitempty" validate:"omitempty,gte=0"`
	SavingsDuringSchool *float64 `json:"savings_during_school,omitempty" validate:"omitempty,gte=0"`
	YearsInSchool       *float64 `json:"years_in_school,omitempty" validate:"omitempty,gte=0,lte=25"`
}

// DefaultScenario returns the baseline scenario: 5% annual growth, no
// overrides.
func DefaultScenario() Scenario {
	return Scenario{AnnualGrowthRate: DefaultAnnualGrowthRate}
}

// Validate rejects invalid scenario parameters before any computation runs.
func (s Scenario) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if math.IsNaN(s.AnnualGrowthRate) || math.IsInf(s.AnnualGrowthRate, 0) {
		return fmt.Errorf("invalid scenario: annual growth rate is not a number")
	}
	return nil
}

// MonthlyRate converts the annual growth rate to its monthly equivalent so
// that a lump sum grows by exactly the annual rate over twelve months.
func (s Scenario) MonthlyRate() float64 {
	return math.Pow(1+s.AnnualGrowthRate, 1.0/domain.MonthsPerYear) - 1
}

// ProjectMonthly computes the month-by-month net worth over the full horizon.
// It is a pure function of the participant baseline and the scenario: the
// savings balance compounds monthly, the applicable deposit is added (the
// during-school amount while in school, the regular contribution after), and
// any outstanding loan balance for the month is included in net worth.
func ProjectMonthly(p domain.MergedParticipant, s Scenario) ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if p.StartingSavings < 0 || p.MonthlySavings < 0 {
		return nil, fmt.Errorf("invalid baseline for %q: negative savings", p.Name)
	}

	rate := s.MonthlyRate()

	yearsInSchool := p.EffectiveYearsInSchool()
	if s.YearsInSchool != nil {
		yearsInSchool = *s.YearsInSchool
	}
	monthsInSchool := int(yearsInSchool * domain.MonthsPerYear)

	duringSchool := p.EffectiveSavingsDuringSchool()
	if s.SavingsDuringSchool != nil {
		duringSchool = *s.SavingsDuringSchool
	}

	afterSchool := p.MonthlySavings
	if s.MonthlyContribution != nil {
		afterSchool = *s.MonthlyContribution
	}

	balance := p.StartingSavings
	series := make([]float64, 0, domain.HorizonMonths)
	for m := 1; m <= domain.HorizonMonths; m++ {
		balance *= 1 + rate
		if m <= monthsInSchool {
			balance += duringSchool
		} else {
			balance += afterSchool
		}
		series = append(series, balance+p.LoanBalance(m))
	}
	return series, nil
}

// Project returns the published 25-entry annual series: the monthly model
// sampled at the end of each year.
func Project(p domain.MergedParticipant, s Scenario) (domain.NetWorthSeries, error) {
	monthly, err := ProjectMonthly(p, s)
	if err != nil {
		return domain.NetWorthSeries{}, err
	}

	points := make([]domain.NetWorthPoint, 0, domain.HorizonYears)
	for year := 1; year <= domain.HorizonYears; year++ {
		points = append(points, domain.NetWorthPoint{
			Year:     year,
			NetWorth: monthly[year*domain.MonthsPerYear-1],
		})
	}

	return domain.NetWorthSeries{
		Name:       p.Name,
		Profession: p.Profession,
		Points:     points,
	}, nil
}
