package shift

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tiptrack/internal/clock"
	"tiptrack/internal/domain/employer"
	"tiptrack/internal/domain/profile"
)

// EmployerDirectory resolves the employer whose current rate a snapshot
// copies.
type EmployerDirectory interface {
	Get(ctx context.Context, userID, employerID string) (employer.Employer, error)
}

// ProfileProvider supplies the worker's defaults. Read-only here.
type ProfileProvider interface {
	Get(ctx context.Context, userID string) (profile.Profile, error)
}

type Service struct {
	Store     StoreAPI
	Employers EmployerDirectory
	Profiles  ProfileProvider
	Clock     clock.Clock
}

func NewService(store StoreAPI, employers EmployerDirectory, profiles ProfileProvider, clk clock.Clock) *Service {
	return &Service{Store: store, Employers: employers, Profiles: profiles, Clock: clk}
}

type CreateShiftInput struct {
	UserID            string
	EmployerID        *string
	Date              time.Time
	StartTime         string
	EndTime           string
	LunchBreakMinutes int
	// HourlyRate of 0 resolves through the employer, then the profile
	// default.
	HourlyRate  float64
	SalesTarget *float64
	Notes       string
}

type RecordActualsInput struct {
	UserID            string
	ShiftID           string
	ActualStartTime   string
	ActualEndTime     string
	EndDate           *time.Time
	LunchBreakMinutes int
	Sales             float64
	Tips              float64
	CashOut           float64
	Other             float64
	Notes             string
}

type UpdateEntryInput struct {
	RecordActualsInput
	// EmployerID moves the shift to a different employer; that always
	// re-snapshots the rate.
	EmployerID *string
	// Resnapshot forces a fresh rate/deduction copy even without an
	// employer change. The default preserves the original snapshot.
	Resnapshot bool
}

// CreateExpectedShift validates and persists a planned shift. Logging
// future-dated work is disallowed: the shift date must not be after today.
func (s *Service) CreateExpectedShift(ctx context.Context, in CreateShiftInput) (ExpectedShift, error) {
	if err := s.validateNotFuture("date", in.Date, in.StartTime, in.EndTime, nil); err != nil {
		return ExpectedShift{}, err
	}
	if in.LunchBreakMinutes < 0 {
		return ExpectedShift{}, invalidField("lunchBreakMinutes", "must not be negative")
	}

	hours, err := NetHours(in.Date, in.StartTime, nil, in.EndTime, in.LunchBreakMinutes)
	if err != nil {
		return ExpectedShift{}, err
	}

	rate := in.HourlyRate
	if rate <= 0 {
		rate, err = s.resolveRate(ctx, in.UserID, in.EmployerID)
		if err != nil {
			return ExpectedShift{}, err
		}
	}

	shift := ExpectedShift{
		ID:                uuid.NewString(),
		UserID:            in.UserID,
		EmployerID:        in.EmployerID,
		ShiftDate:         clock.Midnight(in.Date),
		StartTime:         in.StartTime,
		EndTime:           in.EndTime,
		ExpectedHours:     hours,
		HourlyRate:        rate,
		LunchBreakMinutes: in.LunchBreakMinutes,
		SalesTarget:       in.SalesTarget,
		Status:            StatusPlanned,
		Notes:             in.Notes,
	}
	if err := wrapStore("save expected shift", s.Store.CreateExpectedShift(ctx, shift)); err != nil {
		return ExpectedShift{}, err
	}
	return shift, nil
}

// RecordActuals creates the entry for a shift, snapshotting the hourly rate
// and deduction percentage in effect right now, and marks the shift
// completed in the same persistence transaction.
func (s *Service) RecordActuals(ctx context.Context, in RecordActualsInput) (ShiftEntry, error) {
	shift, err := s.getShift(ctx, in.UserID, in.ShiftID)
	if err != nil {
		return ShiftEntry{}, err
	}
	if _, err := s.Store.GetEntryForShift(ctx, in.UserID, in.ShiftID); err == nil {
		return ShiftEntry{}, ErrEntryExists
	} else if !errors.Is(err, ErrEntryNotFound) {
		return ShiftEntry{}, persistence("load shift entry", err)
	}
	if err := Transition(shift.Status, StatusCompleted); err != nil {
		return ShiftEntry{}, err
	}

	entry, err := s.buildEntry(ctx, shift, in, nil)
	if err != nil {
		return ShiftEntry{}, err
	}
	if err := wrapStore("save shift entry", s.Store.SaveShiftEntry(ctx, entry, StatusCompleted)); err != nil {
		return ShiftEntry{}, err
	}
	return entry, nil
}

// UpdateEntry rewrites an existing entry. The original rate/deduction
// snapshot is preserved unless the employer selection changed or the caller
// explicitly asked for a re-snapshot; the derived income figures are always
// recomputed from the edited inputs.
func (s *Service) UpdateEntry(ctx context.Context, in UpdateEntryInput) (ShiftEntry, error) {
	shift, err := s.getShift(ctx, in.UserID, in.ShiftID)
	if err != nil {
		return ShiftEntry{}, err
	}
	existing, err := s.Store.GetEntryForShift(ctx, in.UserID, in.ShiftID)
	if err != nil {
		return ShiftEntry{}, wrapStore("load shift entry", err)
	}

	resnapshot := in.Resnapshot
	if in.EmployerID != nil && (shift.EmployerID == nil || *shift.EmployerID != *in.EmployerID) {
		shift.EmployerID = in.EmployerID
		resnapshot = true
	}

	var keep *Snapshot
	if !resnapshot {
		keep = &existing.Snapshot
	}
	entry, err := s.buildEntry(ctx, shift, in.RecordActualsInput, keep)
	if err != nil {
		return ShiftEntry{}, err
	}
	entry.ID = existing.ID
	entry.CreatedAt = existing.CreatedAt

	if resnapshot {
		if err := wrapStore("save expected shift", s.Store.UpdateExpectedShift(ctx, shift)); err != nil {
			return ShiftEntry{}, err
		}
	}
	if err := wrapStore("save shift entry", s.Store.SaveShiftEntry(ctx, entry, "")); err != nil {
		return ShiftEntry{}, err
	}
	return entry, nil
}

// DeleteEntry removes the actuals record. While the shift date has not yet
// passed the shift reverts to planned; a past shift keeps its completed or
// missed status for historical record-keeping. The entry delete and the
// status reversion commit atomically.
func (s *Service) DeleteEntry(ctx context.Context, userID, entryID string) error {
	entry, err := s.Store.GetShiftEntry(ctx, userID, entryID)
	if err != nil {
		return wrapStore("load shift entry", err)
	}
	shift, err := s.getShift(ctx, userID, entry.ShiftID)
	if err != nil {
		return err
	}

	revert := ""
	if next := Revert(shift.Status, shift.ShiftDate, s.Clock.Today()); next != shift.Status {
		revert = next
	}
	return wrapStore("delete shift entry", s.Store.DeleteShiftEntry(ctx, userID, entryID, shift.ID, revert))
}

// MarkMissed records that the worker did not work a planned shift. No entry
// is created; the reason is appended to the shift notes so planning notes
// survive.
func (s *Service) MarkMissed(ctx context.Context, userID, shiftID, reason string) error {
	shift, err := s.getShift(ctx, userID, shiftID)
	if err != nil {
		return err
	}
	if _, err := s.Store.GetEntryForShift(ctx, userID, shiftID); err == nil {
		return ErrEntryExists
	} else if !errors.Is(err, ErrEntryNotFound) {
		return persistence("load shift entry", err)
	}
	if err := Transition(shift.Status, StatusMissed); err != nil {
		return err
	}

	shift.Status = StatusMissed
	if reason != "" {
		if shift.Notes != "" {
			shift.Notes += "\n" + reason
		} else {
			shift.Notes = reason
		}
	}
	return wrapStore("save expected shift", s.Store.UpdateExpectedShift(ctx, shift))
}

// UpdateStatus applies a guarded lifecycle transition with no other side
// effects.
func (s *Service) UpdateStatus(ctx context.Context, userID, shiftID, status string) error {
	shift, err := s.getShift(ctx, userID, shiftID)
	if err != nil {
		return err
	}
	if err := Transition(shift.Status, status); err != nil {
		return err
	}
	return wrapStore("update shift status", s.Store.UpdateShiftStatus(ctx, userID, shiftID, status))
}

// DeleteExpectedShift removes a planned shift; any entry goes first, in the
// same transaction.
func (s *Service) DeleteExpectedShift(ctx context.Context, userID, shiftID string) error {
	return wrapStore("delete expected shift", s.Store.DeleteExpectedShift(ctx, userID, shiftID))
}

func (s *Service) GetCompletedShift(ctx context.Context, userID, shiftID string) (CompletedShift, error) {
	completed, err := s.Store.GetCompletedShift(ctx, userID, shiftID)
	return completed, wrapStore("load completed shift", err)
}

func (s *Service) ListCompletedShifts(ctx context.Context, userID string, from, to time.Time) ([]CompletedShift, error) {
	completed, err := s.Store.ListCompletedShifts(ctx, userID, from, to)
	return completed, wrapStore("list completed shifts", err)
}

func (s *Service) getShift(ctx context.Context, userID, shiftID string) (ExpectedShift, error) {
	shift, err := s.Store.GetExpectedShift(ctx, userID, shiftID)
	return shift, wrapStore("load expected shift", err)
}

// buildEntry validates actuals and assembles the entry. With keep set the
// existing rate/deduction snapshot is carried over; otherwise a fresh one
// is taken from the employer and profile.
func (s *Service) buildEntry(ctx context.Context, shift ExpectedShift, in RecordActualsInput, keep *Snapshot) (ShiftEntry, error) {
	for _, check := range []struct {
		field string
		value float64
	}{
		{"sales", in.Sales},
		{"tips", in.Tips},
		{"cashOut", in.CashOut},
		{"other", in.Other},
	} {
		if check.value < 0 {
			return ShiftEntry{}, invalidField(check.field, "must not be negative")
		}
	}
	if in.LunchBreakMinutes < 0 {
		return ShiftEntry{}, invalidField("lunchBreakMinutes", "must not be negative")
	}
	if err := s.validateNotFuture("shiftDate", shift.ShiftDate, in.ActualStartTime, in.ActualEndTime, in.EndDate); err != nil {
		return ShiftEntry{}, err
	}

	hours, err := NetHours(shift.ShiftDate, in.ActualStartTime, in.EndDate, in.ActualEndTime, in.LunchBreakMinutes)
	if err != nil {
		return ShiftEntry{}, err
	}

	var snapshot Snapshot
	if keep != nil {
		snapshot = *keep
	} else {
		rate, err := s.resolveRate(ctx, shift.UserID, shift.EmployerID)
		if err != nil {
			return ShiftEntry{}, err
		}
		pct, err := s.resolveDeduction(ctx, shift.UserID)
		if err != nil {
			return ShiftEntry{}, err
		}
		snapshot = Snapshot{HourlyRate: rate, DeductionPercentage: pct}
	}

	earnings := ComputeEarnings(hours, snapshot.HourlyRate, in.Sales, in.Tips, in.CashOut, in.Other, snapshot.DeductionPercentage)
	snapshot.GrossIncome = earnings.BasePay
	snapshot.TotalIncome = earnings.TotalIncome
	snapshot.NetIncome = earnings.NetPay

	return ShiftEntry{
		ID:              uuid.NewString(),
		ShiftID:         shift.ID,
		UserID:          shift.UserID,
		ActualStartTime: in.ActualStartTime,
		ActualEndTime:   in.ActualEndTime,
		EndDate:         in.EndDate,
		ActualHours:     hours,
		Sales:           in.Sales,
		Tips:            in.Tips,
		CashOut:         in.CashOut,
		Other:           in.Other,
		Notes:           in.Notes,
		Snapshot:        snapshot,
	}, nil
}

// validateNotFuture rejects shift dates, and resolved end dates, strictly
// after today. Both sides are compared as calendar days so dates parsed or
// stored in a different location than the clock's never shift across
// midnight.
func (s *Service) validateNotFuture(field string, date time.Time, startTime, endTime string, endDate *time.Time) error {
	today := clock.Day(s.Clock.Today())
	if clock.Day(date).After(today) {
		return invalidField(field, "must not be in the future")
	}
	if _, err := AtTime(date, startTime); err != nil {
		return invalidField("startTime", "must be a valid time in HH:MM format")
	}
	resolved, err := ResolveEndDate(clock.Midnight(date), startTime, endTime, endDate)
	if err != nil {
		return invalidField("endTime", "must be a valid time in HH:MM format")
	}
	if clock.Day(resolved).After(today) {
		return invalidField("endDate", "must not be in the future")
	}
	return nil
}

func (s *Service) resolveRate(ctx context.Context, userID string, employerID *string) (float64, error) {
	if employerID != nil {
		emp, err := s.Employers.Get(ctx, userID, *employerID)
		if err != nil {
			return 0, wrapStore("load employer", err)
		}
		return emp.HourlyRate, nil
	}
	prof, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return 0, wrapStore("load profile", err)
	}
	return prof.DefaultHourlyRate, nil
}

func (s *Service) resolveDeduction(ctx context.Context, userID string) (float64, error) {
	prof, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		return 0, wrapStore("load profile", err)
	}
	return ClampDeduction(prof.AverageDeductionPercentage), nil
}

// wrapStore passes sentinel not-found errors through untouched and wraps
// everything else as a PersistenceError.
func wrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrShiftNotFound) || errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, employer.ErrNotFound) || errors.Is(err, profile.ErrNotFound) {
		return err
	}
	return persistence(op, err)
}
