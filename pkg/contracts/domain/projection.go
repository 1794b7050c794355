package domain

// Projection horizon constants. The model steps month-by-month over the full
// horizon and publishes one sample per year.
const (
	HorizonYears       = 25
	MonthsPerYear      = 12
	HorizonMonths      = HorizonYears * MonthsPerYear
	LoanScheduleMonths = 180
)

// NetWorthPoint is one sampled value of a participant's projected net worth.
type NetWorthPoint struct {
	Year     int     `json:"year"`
	NetWorth float64 `json:"net_worth"`
}

// NetWorthSeries is the ordered 25-year projection for one participant.
// Invariant: exactly HorizonYears points, years 1..HorizonYears ascending.
type NetWorthSeries struct {
	Name       string          `json:"name"`
	Profession string          `json:"profession"`
	Points     []NetWorthPoint `json:"points"`
}

// TimelinePoint is one long-format row of the processed dataset: a single
// (participant, month) net-worth observation with its display label.
type TimelinePoint struct {
	Name       string  `json:"name" csv:"Name"`
	Profession string  `json:"profession" csv:"Profession"`
	Month      int     `json:"month" csv:"Month"`
	NetWorth   float64 `json:"net_worth" csv:"NetWorth"`
	Label      string  `json:"label" csv:"NetWorthLabel"`
}

// ParticipantSummary condenses one participant's projection for the summary
// report.
type ParticipantSummary struct {
	Name               string  `json:"name" csv:"Name"`
	Profession         string  `json:"profession" csv:"Profession"`
	FinalNetWorth      float64 `json:"final_net_worth" csv:"FinalNetWorth"`
	MinNetWorth        float64 `json:"min_net_worth" csv:"MinNetWorth"`
	MaxNetWorth        float64 `json:"max_net_worth" csv:"MaxNetWorth"`
	FirstPositiveMonth int     `json:"first_positive_month" csv:"FirstPositiveMonth"`
}
