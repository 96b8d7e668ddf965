package stats

import "time"

// PeriodTotals aggregates recorded entries inside one reporting window.
type PeriodTotals struct {
	Shifts      int     `json:"shifts"`
	Hours       float64 `json:"hours"`
	Sales       float64 `json:"sales"`
	Tips        float64 `json:"tips"`
	TotalIncome float64 `json:"totalIncome"`
	NetIncome   float64 `json:"netIncome"`
}

// TargetProgress compares an actual figure against a profile target.
// Percent is 0 when no target is set.
type TargetProgress struct {
	Actual  float64 `json:"actual"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}

func Progress(actual, target float64) TargetProgress {
	p := TargetProgress{Actual: actual, Target: target}
	if target > 0 {
		p.Percent = actual / target * 100
	}
	return p
}

// WeekStart returns the first day of the week containing day, honoring the
// profile's week-start setting (0=Sunday, 1=Monday, ... 6=Saturday).
func WeekStart(day time.Time, weekStartDay int) time.Time {
	if weekStartDay < 0 || weekStartDay > 6 {
		weekStartDay = 0
	}
	offset := (int(day.Weekday()) - weekStartDay + 7) % 7
	start := day.AddDate(0, 0, -offset)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, day.Location())
}

// MonthStart returns the first day of the month containing day.
func MonthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
}
