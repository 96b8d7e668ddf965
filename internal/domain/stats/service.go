package stats

import (
	"context"

	"tiptrack/internal/clock"
	"tiptrack/internal/domain/profile"
)

type PeriodSummary struct {
	Totals PeriodTotals   `json:"totals"`
	Hours  TargetProgress `json:"hours"`
	Sales  TargetProgress `json:"sales"`
	Tips   TargetProgress `json:"tips"`
}

// Summary is the dashboard payload: recorded earnings for today, the
// current week and the current month, each against the profile targets.
type Summary struct {
	Today PeriodSummary `json:"today"`
	Week  PeriodSummary `json:"week"`
	Month PeriodSummary `json:"month"`
}

type Service struct {
	Store    StoreAPI
	Profiles profile.StoreAPI
	Clock    clock.Clock
}

func NewService(store StoreAPI, profiles profile.StoreAPI, clk clock.Clock) *Service {
	return &Service{Store: store, Profiles: profiles, Clock: clk}
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	prof, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	today := s.Clock.Today()
	weekStart := WeekStart(today, prof.WeekStart)
	monthStart := MonthStart(today)

	day, err := s.Store.Totals(ctx, userID, today, today)
	if err != nil {
		return Summary{}, err
	}
	week, err := s.Store.Totals(ctx, userID, weekStart, today)
	if err != nil {
		return Summary{}, err
	}
	month, err := s.Store.Totals(ctx, userID, monthStart, today)
	if err != nil {
		return Summary{}, err
	}

	targets := prof.Targets
	return Summary{
		Today: summarize(day, targets.HoursDaily, targets.SalesDaily, targets.TipDaily),
		Week:  summarize(week, targets.HoursWeekly, targets.SalesWeekly, targets.TipWeekly),
		Month: summarize(month, targets.HoursMonthly, targets.SalesMonthly, targets.TipMonthly),
	}, nil
}

func summarize(totals PeriodTotals, hoursTarget, salesTarget, tipTarget float64) PeriodSummary {
	return PeriodSummary{
		Totals: totals,
		Hours:  Progress(totals.Hours, hoursTarget),
		Sales:  Progress(totals.Sales, salesTarget),
		Tips:   Progress(totals.Tips, tipTarget),
	}
}
