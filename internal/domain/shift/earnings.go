package shift

// Earnings is the set of pay figures derived from one reconciled shift.
// No rounding is applied here; presentation decides how to format.
type Earnings struct {
	BasePay       float64 `json:"basePay"`
	NetTips       float64 `json:"netTips"`
	TotalIncome   float64 `json:"totalIncome"`
	TipPercentage float64 `json:"tipPercentage"`
	// NetPay applies the user-estimated deduction percentage. It is an
	// illustration, never exact take-home pay.
	NetPay float64 `json:"netPay"`
}

// ComputeEarnings derives pay from raw shift figures.
func ComputeEarnings(hours, hourlyRate, sales, tips, cashOut, other, deductionPct float64) Earnings {
	basePay := hours * hourlyRate
	netTips := tips - cashOut
	total := basePay + netTips + other

	tipPct := 0.0
	if sales > 0 {
		tipPct = (tips / sales) * 100
	}

	return Earnings{
		BasePay:       basePay,
		NetTips:       netTips,
		TotalIncome:   total,
		TipPercentage: tipPct,
		NetPay:        total * (1 - ClampDeduction(deductionPct)/100),
	}
}

// Earnings computes the figures for a completed shift, falling back to the
// profile defaults when neither a snapshot nor an employer supplies them.
func (c CompletedShift) Earnings(defaultRate, defaultDeductionPct float64) Earnings {
	return ComputeEarnings(
		c.Hours(),
		c.HourlyRate(defaultRate),
		c.Sales(),
		c.Tips(),
		c.CashOut(),
		c.Other(),
		c.DeductionPercentage(defaultDeductionPct),
	)
}

// ClampDeduction keeps a deduction percentage inside [0,100].
func ClampDeduction(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
