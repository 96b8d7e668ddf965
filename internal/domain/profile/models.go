package profile

// Profile carries the worker's defaults and targets. The shift core reads
// it for fallbacks (default rate, deduction estimate, week start) and never
// writes it; profile edits belong to the hosted backend.
type Profile struct {
	UserID                     string  `json:"userId"`
	Name                       string  `json:"name,omitempty"`
	DefaultHourlyRate          float64 `json:"defaultHourlyRate"`
	AverageDeductionPercentage float64 `json:"averageDeductionPercentage"`
	WeekStart                  int     `json:"weekStart"` // 0=Sunday, 1=Monday
	DefaultEmployerID          *string `json:"defaultEmployerId,omitempty"`
	UseMultipleEmployers       bool    `json:"useMultipleEmployers"`
	HasVariableSchedule        bool    `json:"hasVariableSchedule"`
	Targets                    Targets `json:"targets"`
}

type Targets struct {
	TipDaily     float64 `json:"tipDaily"`
	TipWeekly    float64 `json:"tipWeekly"`
	TipMonthly   float64 `json:"tipMonthly"`
	SalesDaily   float64 `json:"salesDaily"`
	SalesWeekly  float64 `json:"salesWeekly"`
	SalesMonthly float64 `json:"salesMonthly"`
	HoursDaily   float64 `json:"hoursDaily"`
	HoursWeekly  float64 `json:"hoursWeekly"`
	HoursMonthly float64 `json:"hoursMonthly"`
}
