package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tiptrack/internal/platform/querier"
)

var ErrNotFound = errors.New("user profile not found")

type StoreAPI interface {
	Get(ctx context.Context, userID string) (Profile, error)
}

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, userID string) (Profile, error) {
	var p Profile
	err := s.DB.QueryRow(ctx, `
    SELECT user_id, COALESCE(name, ''), default_hourly_rate, average_deduction_percentage,
           week_start, default_employer_id, use_multiple_employers, has_variable_schedule,
           target_tip_daily, target_tip_weekly, target_tip_monthly,
           target_sales_daily, target_sales_weekly, target_sales_monthly,
           target_hours_daily, target_hours_weekly, target_hours_monthly
    FROM user_profiles
    WHERE user_id = $1
  `, userID).Scan(
		&p.UserID, &p.Name, &p.DefaultHourlyRate, &p.AverageDeductionPercentage,
		&p.WeekStart, &p.DefaultEmployerID, &p.UseMultipleEmployers, &p.HasVariableSchedule,
		&p.Targets.TipDaily, &p.Targets.TipWeekly, &p.Targets.TipMonthly,
		&p.Targets.SalesDaily, &p.Targets.SalesWeekly, &p.Targets.SalesMonthly,
		&p.Targets.HoursDaily, &p.Targets.HoursWeekly, &p.Targets.HoursMonthly,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
