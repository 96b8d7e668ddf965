package shift

import (
	"context"
	"errors"
	"testing"
	"time"

	"tiptrack/internal/clock"
	"tiptrack/internal/domain/employer"
	"tiptrack/internal/domain/profile"
)

type fakeStore struct {
	shifts  map[string]ExpectedShift
	entries map[string]ShiftEntry

	lastRevertStatus string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shifts:  make(map[string]ExpectedShift),
		entries: make(map[string]ShiftEntry),
	}
}

func (f *fakeStore) CreateExpectedShift(_ context.Context, s ExpectedShift) error {
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeStore) GetExpectedShift(_ context.Context, userID, shiftID string) (ExpectedShift, error) {
	s, ok := f.shifts[shiftID]
	if !ok || s.UserID != userID {
		return ExpectedShift{}, ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeStore) UpdateExpectedShift(_ context.Context, s ExpectedShift) error {
	if _, ok := f.shifts[s.ID]; !ok {
		return ErrShiftNotFound
	}
	f.shifts[s.ID] = s
	return nil
}

func (f *fakeStore) UpdateShiftStatus(_ context.Context, userID, shiftID, status string) error {
	s, ok := f.shifts[shiftID]
	if !ok || s.UserID != userID {
		return ErrShiftNotFound
	}
	s.Status = status
	f.shifts[shiftID] = s
	return nil
}

func (f *fakeStore) DeleteExpectedShift(_ context.Context, userID, shiftID string) error {
	s, ok := f.shifts[shiftID]
	if !ok || s.UserID != userID {
		return ErrShiftNotFound
	}
	for id, e := range f.entries {
		if e.ShiftID == shiftID {
			delete(f.entries, id)
		}
	}
	delete(f.shifts, s.ID)
	return nil
}

func (f *fakeStore) GetShiftEntry(_ context.Context, userID, entryID string) (ShiftEntry, error) {
	e, ok := f.entries[entryID]
	if !ok || e.UserID != userID {
		return ShiftEntry{}, ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeStore) GetEntryForShift(_ context.Context, userID, shiftID string) (ShiftEntry, error) {
	for _, e := range f.entries {
		if e.ShiftID == shiftID && e.UserID == userID {
			return e, nil
		}
	}
	return ShiftEntry{}, ErrEntryNotFound
}

func (f *fakeStore) SaveShiftEntry(_ context.Context, e ShiftEntry, shiftStatus string) error {
	f.entries[e.ID] = e
	if shiftStatus != "" {
		s, ok := f.shifts[e.ShiftID]
		if !ok {
			return ErrShiftNotFound
		}
		s.Status = shiftStatus
		f.shifts[e.ShiftID] = s
	}
	return nil
}

func (f *fakeStore) DeleteShiftEntry(_ context.Context, userID, entryID, shiftID, revertStatus string) error {
	e, ok := f.entries[entryID]
	if !ok || e.UserID != userID {
		return ErrEntryNotFound
	}
	delete(f.entries, entryID)
	f.lastRevertStatus = revertStatus
	if revertStatus != "" {
		s, ok := f.shifts[shiftID]
		if !ok {
			return ErrShiftNotFound
		}
		s.Status = revertStatus
		f.shifts[shiftID] = s
	}
	return nil
}

func (f *fakeStore) GetCompletedShift(ctx context.Context, userID, shiftID string) (CompletedShift, error) {
	s, err := f.GetExpectedShift(ctx, userID, shiftID)
	if err != nil {
		return CompletedShift{}, err
	}
	completed := CompletedShift{Expected: s}
	if e, err := f.GetEntryForShift(ctx, userID, shiftID); err == nil {
		entry := e
		completed.Entry = &entry
	}
	return completed, nil
}

func (f *fakeStore) ListCompletedShifts(ctx context.Context, userID string, from, to time.Time) ([]CompletedShift, error) {
	var out []CompletedShift
	for id, s := range f.shifts {
		if s.UserID != userID || s.ShiftDate.Before(from) || s.ShiftDate.After(to) {
			continue
		}
		c, err := f.GetCompletedShift(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeEmployers struct {
	rates map[string]float64
}

func (f *fakeEmployers) Get(_ context.Context, _, employerID string) (employer.Employer, error) {
	rate, ok := f.rates[employerID]
	if !ok {
		return employer.Employer{}, employer.ErrNotFound
	}
	return employer.Employer{ID: employerID, HourlyRate: rate, Active: true}, nil
}

type fakeProfiles struct {
	profile profile.Profile
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (profile.Profile, error) {
	p := f.profile
	p.UserID = userID
	return p, nil
}

const testUser = "user-1"

var testToday = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func newTestService() (*Service, *fakeStore, *fakeEmployers) {
	return newTestServiceAt(testToday.Add(20 * time.Hour))
}

func newTestServiceAt(instant time.Time) (*Service, *fakeStore, *fakeEmployers) {
	store := newFakeStore()
	employers := &fakeEmployers{rates: map[string]float64{"emp-1": 15}}
	profiles := &fakeProfiles{profile: profile.Profile{
		DefaultHourlyRate:          15,
		AverageDeductionPercentage: 30,
	}}
	clk := clock.Fixed{Instant: instant}
	return NewService(store, employers, profiles, clk), store, employers
}

func seedShift(store *fakeStore, id string, date time.Time, status string, employerID *string) {
	store.shifts[id] = ExpectedShift{
		ID:                id,
		UserID:            testUser,
		EmployerID:        employerID,
		ShiftDate:         date,
		StartTime:         "09:00",
		EndTime:           "17:00",
		ExpectedHours:     8,
		HourlyRate:        15,
		LunchBreakMinutes: 0,
		Status:            status,
	}
}

func TestCreateExpectedShiftRejectsFutureDate(t *testing.T) {
	service, store, _ := newTestService()

	_, err := service.CreateExpectedShift(context.Background(), CreateShiftInput{
		UserID:    testUser,
		Date:      testToday.AddDate(0, 0, 1),
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for tomorrow, got %v", err)
	}
	if len(store.shifts) != 0 {
		t.Fatal("expected nothing persisted after rejection")
	}
}

func TestCreateExpectedShiftToday(t *testing.T) {
	service, store, _ := newTestService()

	created, err := service.CreateExpectedShift(context.Background(), CreateShiftInput{
		UserID:            testUser,
		Date:              testToday,
		StartTime:         "09:00",
		EndTime:           "17:00",
		LunchBreakMinutes: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != StatusPlanned {
		t.Fatalf("expected planned status, got %s", created.Status)
	}
	if created.ExpectedHours != 7 {
		t.Fatalf("expected 7 net hours, got %v", created.ExpectedHours)
	}
	if created.HourlyRate != 15 {
		t.Fatalf("expected profile default rate 15, got %v", created.HourlyRate)
	}
	if _, ok := store.shifts[created.ID]; !ok {
		t.Fatal("expected shift persisted")
	}
}

func TestCreateExpectedShiftTodayAheadOfUTC(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 09:00 June 15 in Tokyo is still June 14 in UTC; the UTC-midnight
	// payload date for June 15 must not read as tomorrow.
	service, store, _ := newTestServiceAt(time.Date(2025, 6, 15, 9, 0, 0, 0, tokyo))

	created, err := service.CreateExpectedShift(context.Background(), CreateShiftInput{
		UserID:    testUser,
		Date:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	if err != nil {
		t.Fatalf("creating a shift dated today should succeed, got %v", err)
	}
	if _, ok := store.shifts[created.ID]; !ok {
		t.Fatal("expected shift persisted")
	}
}

func TestCreateExpectedShiftNamesMalformedStartTime(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.CreateExpectedShift(context.Background(), CreateShiftInput{
		UserID:    testUser,
		Date:      testToday,
		StartTime: "9am",
		EndTime:   "17:00",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "startTime" {
		t.Fatalf("expected startTime issue, got %s", validationErr.Field)
	}
}

func TestRecordActualsSnapshotsRateAndCompletes(t *testing.T) {
	service, store, employers := newTestService()
	empID := "emp-1"
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusPlanned, &empID)

	entry, err := service.RecordActuals(context.Background(), RecordActualsInput{
		UserID:          testUser,
		ShiftID:         "shift-1",
		ActualStartTime: "09:00",
		ActualEndTime:   "17:00",
		Sales:           500,
		Tips:            100,
		CashOut:         20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Snapshot.HourlyRate != 15 {
		t.Fatalf("expected snapshot rate 15, got %v", entry.Snapshot.HourlyRate)
	}
	if entry.Snapshot.DeductionPercentage != 30 {
		t.Fatalf("expected snapshot deduction 30, got %v", entry.Snapshot.DeductionPercentage)
	}
	if store.shifts["shift-1"].Status != StatusCompleted {
		t.Fatalf("expected shift completed, got %s", store.shifts["shift-1"].Status)
	}

	// Raising the employer's rate must not move the saved earnings.
	employers.rates[empID] = 20
	completed, err := service.GetCompletedShift(context.Background(), testUser, "shift-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	earnings := completed.Earnings(15, 30)
	if earnings.BasePay != 120 {
		t.Fatalf("expected base pay frozen at 8x15=120, got %v", earnings.BasePay)
	}
}

func TestRecordActualsRejectsNegativeMoney(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusPlanned, nil)

	_, err := service.RecordActuals(context.Background(), RecordActualsInput{
		UserID:          testUser,
		ShiftID:         "shift-1",
		ActualStartTime: "09:00",
		ActualEndTime:   "17:00",
		Tips:            -1,
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatal("expected no partial entry persisted")
	}
	if store.shifts["shift-1"].Status != StatusPlanned {
		t.Fatal("expected shift status unchanged after rejection")
	}
}

func TestRecordActualsRejectsFutureShift(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, 2), StatusPlanned, nil)

	_, err := service.RecordActuals(context.Background(), RecordActualsInput{
		UserID:          testUser,
		ShiftID:         "shift-1",
		ActualStartTime: "09:00",
		ActualEndTime:   "17:00",
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for future shift, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatal("expected no entry persisted")
	}
}

func TestRecordActualsRejectsSecondEntry(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, nil)
	store.entries["entry-1"] = ShiftEntry{ID: "entry-1", ShiftID: "shift-1", UserID: testUser}

	_, err := service.RecordActuals(context.Background(), RecordActualsInput{
		UserID:          testUser,
		ShiftID:         "shift-1",
		ActualStartTime: "09:00",
		ActualEndTime:   "17:00",
	})
	if !errors.Is(err, ErrEntryExists) {
		t.Fatalf("expected ErrEntryExists, got %v", err)
	}
}

func TestUpdateEntryPreservesSnapshotByDefault(t *testing.T) {
	service, store, employers := newTestService()
	empID := "emp-1"
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, &empID)
	store.entries["entry-1"] = ShiftEntry{
		ID: "entry-1", ShiftID: "shift-1", UserID: testUser,
		ActualStartTime: "09:00", ActualEndTime: "17:00", ActualHours: 8,
		Tips:     100,
		Snapshot: Snapshot{HourlyRate: 15, DeductionPercentage: 30},
	}
	employers.rates[empID] = 20

	updated, err := service.UpdateEntry(context.Background(), UpdateEntryInput{
		RecordActualsInput: RecordActualsInput{
			UserID:          testUser,
			ShiftID:         "shift-1",
			ActualStartTime: "09:00",
			ActualEndTime:   "18:00",
			Tips:            120,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Snapshot.HourlyRate != 15 {
		t.Fatalf("expected original snapshot preserved, got rate %v", updated.Snapshot.HourlyRate)
	}
	if updated.ActualHours != 9 {
		t.Fatalf("expected recomputed hours 9, got %v", updated.ActualHours)
	}
	if updated.Snapshot.GrossIncome != 135 {
		t.Fatalf("expected gross recomputed with frozen rate (9x15), got %v", updated.Snapshot.GrossIncome)
	}
}

func TestUpdateEntryResnapshotsOnRequest(t *testing.T) {
	service, store, employers := newTestService()
	empID := "emp-1"
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, &empID)
	store.entries["entry-1"] = ShiftEntry{
		ID: "entry-1", ShiftID: "shift-1", UserID: testUser,
		ActualStartTime: "09:00", ActualEndTime: "17:00", ActualHours: 8,
		Snapshot: Snapshot{HourlyRate: 15, DeductionPercentage: 30},
	}
	employers.rates[empID] = 20

	updated, err := service.UpdateEntry(context.Background(), UpdateEntryInput{
		RecordActualsInput: RecordActualsInput{
			UserID:          testUser,
			ShiftID:         "shift-1",
			ActualStartTime: "09:00",
			ActualEndTime:   "17:00",
		},
		Resnapshot: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Snapshot.HourlyRate != 20 {
		t.Fatalf("expected fresh snapshot rate 20, got %v", updated.Snapshot.HourlyRate)
	}
}

func TestUpdateEntryEmployerChangeForcesResnapshot(t *testing.T) {
	service, store, employers := newTestService()
	empID := "emp-1"
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, &empID)
	store.entries["entry-1"] = ShiftEntry{
		ID: "entry-1", ShiftID: "shift-1", UserID: testUser,
		ActualStartTime: "09:00", ActualEndTime: "17:00", ActualHours: 8,
		Snapshot: Snapshot{HourlyRate: 15, DeductionPercentage: 30},
	}
	employers.rates["emp-2"] = 22
	newEmp := "emp-2"

	updated, err := service.UpdateEntry(context.Background(), UpdateEntryInput{
		RecordActualsInput: RecordActualsInput{
			UserID:          testUser,
			ShiftID:         "shift-1",
			ActualStartTime: "09:00",
			ActualEndTime:   "17:00",
		},
		EmployerID: &newEmp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Snapshot.HourlyRate != 22 {
		t.Fatalf("expected new employer's rate 22, got %v", updated.Snapshot.HourlyRate)
	}
	if store.shifts["shift-1"].EmployerID == nil || *store.shifts["shift-1"].EmployerID != "emp-2" {
		t.Fatal("expected shift moved to the new employer")
	}
}

func TestDeleteEntryRevertsUpcomingShift(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, 1), StatusCompleted, nil)
	store.entries["entry-1"] = ShiftEntry{ID: "entry-1", ShiftID: "shift-1", UserID: testUser}

	if err := service.DeleteEntry(context.Background(), testUser, "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.shifts["shift-1"].Status != StatusPlanned {
		t.Fatalf("expected reversion to planned, got %s", store.shifts["shift-1"].Status)
	}
	if store.lastRevertStatus != StatusPlanned {
		t.Fatal("expected reversion queued with the delete")
	}
}

func TestDeleteEntryKeepsPastShiftStatus(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, nil)
	store.entries["entry-1"] = ShiftEntry{ID: "entry-1", ShiftID: "shift-1", UserID: testUser}

	if err := service.DeleteEntry(context.Background(), testUser, "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.shifts["shift-1"].Status != StatusCompleted {
		t.Fatalf("expected status kept for past shift, got %s", store.shifts["shift-1"].Status)
	}
	if store.lastRevertStatus != "" {
		t.Fatal("expected no status write for past shift")
	}
}

func TestDeleteEntryRevertsTodayBehindUTC(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// The stored DATE for June 15 is a UTC midnight, which is still June 14
	// evening in New York; it must still count as today, not as past.
	service, store, _ := newTestServiceAt(time.Date(2025, 6, 15, 9, 0, 0, 0, newYork))
	seedShift(store, "shift-1", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), StatusCompleted, nil)
	store.entries["entry-1"] = ShiftEntry{ID: "entry-1", ShiftID: "shift-1", UserID: testUser}

	if err := service.DeleteEntry(context.Background(), testUser, "entry-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.shifts["shift-1"].Status != StatusPlanned {
		t.Fatalf("shift dated today should revert to planned, got %s", store.shifts["shift-1"].Status)
	}
	if store.lastRevertStatus != StatusPlanned {
		t.Fatal("expected reversion queued with the delete")
	}
}

func TestMarkMissed(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusPlanned, nil)

	if err := service.MarkMissed(context.Background(), testUser, "shift-1", "called in sick"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.shifts["shift-1"].Status != StatusMissed {
		t.Fatalf("expected missed status, got %s", store.shifts["shift-1"].Status)
	}
	if store.shifts["shift-1"].Notes != "called in sick" {
		t.Fatal("expected reason recorded in notes")
	}
}

func TestMarkMissedKeepsPlanningNotes(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusPlanned, nil)
	s := store.shifts["shift-1"]
	s.Notes = "ask about the parking pass"
	store.shifts["shift-1"] = s

	if err := service.MarkMissed(context.Background(), testUser, "shift-1", "called in sick"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.shifts["shift-1"].Notes; got != "ask about the parking pass\ncalled in sick" {
		t.Fatalf("expected reason appended to planning notes, got %q", got)
	}
}

func TestMarkMissedRejectsWorkedShift(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, nil)
	store.entries["entry-1"] = ShiftEntry{ID: "entry-1", ShiftID: "shift-1", UserID: testUser}

	err := service.MarkMissed(context.Background(), testUser, "shift-1", "")
	if !errors.Is(err, ErrEntryExists) {
		t.Fatalf("expected ErrEntryExists, got %v", err)
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, nil)

	err := service.UpdateStatus(context.Background(), testUser, "shift-1", StatusMissed)
	var stateErr *InvalidStateError
	if !errors.As(err, &stateErr) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if store.shifts["shift-1"].Status != StatusCompleted {
		t.Fatal("expected status unchanged after rejected transition")
	}
}

func TestDeleteExpectedShiftCascadesEntryFirst(t *testing.T) {
	service, store, _ := newTestService()
	seedShift(store, "shift-1", testToday.AddDate(0, 0, -1), StatusCompleted, nil)
	store.entries["entry-1"] = ShiftEntry{ID: "entry-1", ShiftID: "shift-1", UserID: testUser}

	if err := service.DeleteExpectedShift(context.Background(), testUser, "shift-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.shifts) != 0 || len(store.entries) != 0 {
		t.Fatal("expected shift and entry both removed")
	}
}
