package shift

import (
	"time"

	"tiptrack/internal/domain/employer"
)

// ExpectedShift is the scheduling record: the work period the worker
// planned. Only the start date is stored; an overnight end date is derived
// from time-of-day ordering unless the entry carries an explicit override.
type ExpectedShift struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	EmployerID        *string    `json:"employerId,omitempty"`
	ShiftDate         time.Time  `json:"shiftDate"`
	StartTime         string     `json:"startTime"`
	EndTime           string     `json:"endTime"`
	ExpectedHours     float64    `json:"expectedHours"`
	HourlyRate        float64    `json:"hourlyRate"`
	LunchBreakMinutes int        `json:"lunchBreakMinutes"`
	SalesTarget       *float64   `json:"salesTarget,omitempty"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// ShiftEntry is the actuals record for one expected shift, at most one per
// shift. The snapshot fields freeze the pay configuration in effect when
// the entry was saved.
type ShiftEntry struct {
	ID                string     `json:"id"`
	ShiftID           string     `json:"shiftId"`
	UserID            string     `json:"userId"`
	ActualStartTime   string     `json:"actualStartTime"`
	ActualEndTime     string     `json:"actualEndTime"`
	EndDate           *time.Time `json:"endDate,omitempty"`
	ActualHours       float64    `json:"actualHours"`
	Sales             float64    `json:"sales"`
	Tips              float64    `json:"tips"`
	CashOut           float64    `json:"cashOut"`
	Other             float64    `json:"other"`
	Notes             string     `json:"notes,omitempty"`
	Snapshot          Snapshot   `json:"snapshot"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// Snapshot is copied into the entry at save time so that later changes to
// an employer's rate or the profile's deduction estimate never move
// historical earnings. The income figures are persisted alongside the rate
// for stable export and display.
type Snapshot struct {
	HourlyRate          float64 `json:"hourlyRate"`
	DeductionPercentage float64 `json:"deductionPercentage"`
	GrossIncome         float64 `json:"grossIncome"`
	TotalIncome         float64 `json:"totalIncome"`
	NetIncome           float64 `json:"netIncome"`
}

// CompletedShift is the read/edit-time composite of an expected shift, its
// optional entry and the resolved employer. It is assembled on demand and
// never persisted.
type CompletedShift struct {
	Expected ExpectedShift      `json:"expected"`
	Entry    *ShiftEntry        `json:"entry,omitempty"`
	Employer *employer.Employer `json:"employer,omitempty"`
}

// Worked reports whether actuals have been recorded.
func (c CompletedShift) Worked() bool {
	return c.Entry != nil
}

// Hours returns actual hours when an entry exists, expected hours otherwise.
func (c CompletedShift) Hours() float64 {
	if c.Entry != nil {
		return c.Entry.ActualHours
	}
	return c.Expected.ExpectedHours
}

func (c CompletedShift) Sales() float64 {
	if c.Entry != nil {
		return c.Entry.Sales
	}
	return 0
}

func (c CompletedShift) Tips() float64 {
	if c.Entry != nil {
		return c.Entry.Tips
	}
	return 0
}

func (c CompletedShift) CashOut() float64 {
	if c.Entry != nil {
		return c.Entry.CashOut
	}
	return 0
}

func (c CompletedShift) Other() float64 {
	if c.Entry != nil {
		return c.Entry.Other
	}
	return 0
}

// HourlyRate resolves the effective rate: the entry snapshot when actuals
// exist, then the employer's current rate, then the profile default.
func (c CompletedShift) HourlyRate(defaultRate float64) float64 {
	if c.Entry != nil {
		return c.Entry.Snapshot.HourlyRate
	}
	if c.Employer != nil {
		return c.Employer.HourlyRate
	}
	return defaultRate
}

// DeductionPercentage resolves the deduction estimate the same way.
func (c CompletedShift) DeductionPercentage(defaultPct float64) float64 {
	if c.Entry != nil {
		return c.Entry.Snapshot.DeductionPercentage
	}
	return ClampDeduction(defaultPct)
}

// Notes prefers entry notes over planning notes.
func (c CompletedShift) Notes() string {
	if c.Entry != nil && c.Entry.Notes != "" {
		return c.Entry.Notes
	}
	return c.Expected.Notes
}
