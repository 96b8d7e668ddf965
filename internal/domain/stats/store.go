package stats

import (
	"context"
	"time"

	"tiptrack/internal/platform/querier"
)

type StoreAPI interface {
	Totals(ctx context.Context, userID string, from, to time.Time) (PeriodTotals, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// Totals sums recorded entries whose shift starts inside [from, to]. Only
// snapshot income figures are read, so later rate changes never move the
// dashboard history.
func (s *Store) Totals(ctx context.Context, userID string, from, to time.Time) (PeriodTotals, error) {
	var t PeriodTotals
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COALESCE(SUM(e.actual_hours), 0),
           COALESCE(SUM(e.sales), 0),
           COALESCE(SUM(e.tips), 0),
           COALESCE(SUM(e.total_income), 0),
           COALESCE(SUM(e.net_income), 0)
    FROM shift_entries e
    JOIN expected_shifts x ON e.shift_id = x.id
    WHERE e.user_id = $1 AND x.shift_date BETWEEN $2 AND $3
  `, userID, from, to).Scan(&t.Shifts, &t.Hours, &t.Sales, &t.Tips, &t.TotalIncome, &t.NetIncome)
	if err != nil {
		return PeriodTotals{}, err
	}
	return t, nil
}
