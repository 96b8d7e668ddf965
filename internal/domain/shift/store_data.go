package shift

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"tiptrack/internal/domain/employer"
)

const expectedShiftColumns = `
    id, user_id, employer_id, shift_date, start_time, end_time,
    expected_hours, hourly_rate, lunch_break_minutes, sales_target,
    status, COALESCE(notes, ''), created_at, updated_at`

const shiftEntryColumns = `
    id, shift_id, user_id, actual_start_time, actual_end_time, end_date,
    actual_hours, sales, tips, cash_out, other, COALESCE(notes, ''),
    hourly_rate, deduction_percentage, gross_income, total_income, net_income,
    created_at, updated_at`

func (s *Store) CreateExpectedShift(ctx context.Context, shift ExpectedShift) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO expected_shifts
      (id, user_id, employer_id, shift_date, start_time, end_time,
       expected_hours, hourly_rate, lunch_break_minutes, sales_target, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
  `, shift.ID, shift.UserID, shift.EmployerID, shift.ShiftDate, shift.StartTime, shift.EndTime,
		shift.ExpectedHours, shift.HourlyRate, shift.LunchBreakMinutes, shift.SalesTarget, shift.Status, shift.Notes)
	return err
}

func (s *Store) GetExpectedShift(ctx context.Context, userID, shiftID string) (ExpectedShift, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+expectedShiftColumns+`
    FROM expected_shifts
    WHERE user_id = $1 AND id = $2
  `, userID, shiftID)
	shift, err := scanExpectedShift(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ExpectedShift{}, ErrShiftNotFound
	}
	return shift, err
}

func (s *Store) UpdateExpectedShift(ctx context.Context, shift ExpectedShift) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE expected_shifts
    SET employer_id = $3, shift_date = $4, start_time = $5, end_time = $6,
        expected_hours = $7, hourly_rate = $8, lunch_break_minutes = $9,
        sales_target = $10, status = $11, notes = $12, updated_at = now()
    WHERE user_id = $1 AND id = $2
  `, shift.UserID, shift.ID, shift.EmployerID, shift.ShiftDate, shift.StartTime, shift.EndTime,
		shift.ExpectedHours, shift.HourlyRate, shift.LunchBreakMinutes, shift.SalesTarget, shift.Status, shift.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShiftNotFound
	}
	return nil
}

func (s *Store) UpdateShiftStatus(ctx context.Context, userID, shiftID, status string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE expected_shifts
    SET status = $3, updated_at = now()
    WHERE user_id = $1 AND id = $2
  `, userID, shiftID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShiftNotFound
	}
	return nil
}

// DeleteExpectedShift removes the entry first, then the shift, in one
// transaction.
func (s *Store) DeleteExpectedShift(ctx context.Context, userID, shiftID string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    DELETE FROM shift_entries WHERE user_id = $1 AND shift_id = $2
  `, userID, shiftID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `
    DELETE FROM expected_shifts WHERE user_id = $1 AND id = $2
  `, userID, shiftID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrShiftNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) GetShiftEntry(ctx context.Context, userID, entryID string) (ShiftEntry, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+shiftEntryColumns+`
    FROM shift_entries
    WHERE user_id = $1 AND id = $2
  `, userID, entryID)
	entry, err := scanShiftEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftEntry{}, ErrEntryNotFound
	}
	return entry, err
}

func (s *Store) GetEntryForShift(ctx context.Context, userID, shiftID string) (ShiftEntry, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+shiftEntryColumns+`
    FROM shift_entries
    WHERE user_id = $1 AND shift_id = $2
  `, userID, shiftID)
	entry, err := scanShiftEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftEntry{}, ErrEntryNotFound
	}
	return entry, err
}

// SaveShiftEntry upserts the entry and, when shiftStatus is non-empty,
// writes the owning shift's status inside the same transaction.
func (s *Store) SaveShiftEntry(ctx context.Context, e ShiftEntry, shiftStatus string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO shift_entries
      (id, shift_id, user_id, actual_start_time, actual_end_time, end_date,
       actual_hours, sales, tips, cash_out, other, notes,
       hourly_rate, deduction_percentage, gross_income, total_income, net_income)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
    ON CONFLICT (shift_id) DO UPDATE SET
      actual_start_time = EXCLUDED.actual_start_time,
      actual_end_time = EXCLUDED.actual_end_time,
      end_date = EXCLUDED.end_date,
      actual_hours = EXCLUDED.actual_hours,
      sales = EXCLUDED.sales,
      tips = EXCLUDED.tips,
      cash_out = EXCLUDED.cash_out,
      other = EXCLUDED.other,
      notes = EXCLUDED.notes,
      hourly_rate = EXCLUDED.hourly_rate,
      deduction_percentage = EXCLUDED.deduction_percentage,
      gross_income = EXCLUDED.gross_income,
      total_income = EXCLUDED.total_income,
      net_income = EXCLUDED.net_income,
      updated_at = now()
  `, e.ID, e.ShiftID, e.UserID, e.ActualStartTime, e.ActualEndTime, e.EndDate,
		e.ActualHours, e.Sales, e.Tips, e.CashOut, e.Other, e.Notes,
		e.Snapshot.HourlyRate, e.Snapshot.DeductionPercentage,
		e.Snapshot.GrossIncome, e.Snapshot.TotalIncome, e.Snapshot.NetIncome); err != nil {
		return err
	}

	if shiftStatus != "" {
		tag, err := tx.Exec(ctx, `
      UPDATE expected_shifts
      SET status = $3, updated_at = now()
      WHERE user_id = $1 AND id = $2
    `, e.UserID, e.ShiftID, shiftStatus)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrShiftNotFound
		}
	}
	return tx.Commit(ctx)
}

// DeleteShiftEntry removes the entry and, when revertStatus is non-empty,
// reverts the shift status inside the same transaction. A delete without
// its dependent status write is a partial delete and must not commit.
func (s *Store) DeleteShiftEntry(ctx context.Context, userID, entryID, shiftID, revertStatus string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    DELETE FROM shift_entries WHERE user_id = $1 AND id = $2
  `, userID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	if revertStatus != "" {
		tag, err := tx.Exec(ctx, `
      UPDATE expected_shifts
      SET status = $3, updated_at = now()
      WHERE user_id = $1 AND id = $2
    `, userID, shiftID, revertStatus)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrShiftNotFound
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetCompletedShift(ctx context.Context, userID, shiftID string) (CompletedShift, error) {
	expected, err := s.GetExpectedShift(ctx, userID, shiftID)
	if err != nil {
		return CompletedShift{}, err
	}

	completed := CompletedShift{Expected: expected}

	entry, err := s.GetEntryForShift(ctx, userID, shiftID)
	if err != nil && !errors.Is(err, ErrEntryNotFound) {
		return CompletedShift{}, err
	}
	if err == nil {
		completed.Entry = &entry
	}

	if expected.EmployerID != nil {
		emp, err := s.getEmployer(ctx, userID, *expected.EmployerID)
		if err != nil {
			return CompletedShift{}, err
		}
		completed.Employer = emp
	}
	return completed, nil
}

// ListCompletedShifts returns reconciled shifts whose start date falls in
// [from, to], ordered by date then start time.
func (s *Store) ListCompletedShifts(ctx context.Context, userID string, from, to time.Time) ([]CompletedShift, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+expectedShiftColumns+`
    FROM expected_shifts
    WHERE user_id = $1 AND shift_date BETWEEN $2 AND $3
    ORDER BY shift_date, start_time
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []ExpectedShift
	for rows.Next() {
		shift, err := scanExpectedShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := s.entriesByShift(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	employers, err := s.employersByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed := make([]CompletedShift, 0, len(shifts))
	for _, shift := range shifts {
		c := CompletedShift{Expected: shift}
		if entry, ok := entries[shift.ID]; ok {
			e := entry
			c.Entry = &e
		}
		if shift.EmployerID != nil {
			if emp, ok := employers[*shift.EmployerID]; ok {
				e := emp
				c.Employer = &e
			}
		}
		completed = append(completed, c)
	}
	return completed, nil
}

func (s *Store) entriesByShift(ctx context.Context, userID string, from, to time.Time) (map[string]ShiftEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.shift_id, e.user_id, e.actual_start_time, e.actual_end_time, e.end_date,
           e.actual_hours, e.sales, e.tips, e.cash_out, e.other, COALESCE(e.notes, ''),
           e.hourly_rate, e.deduction_percentage, e.gross_income, e.total_income, e.net_income,
           e.created_at, e.updated_at
    FROM shift_entries e
    JOIN expected_shifts x ON e.shift_id = x.id
    WHERE e.user_id = $1 AND x.shift_date BETWEEN $2 AND $3
  `, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make(map[string]ShiftEntry)
	for rows.Next() {
		entry, err := scanShiftEntry(rows)
		if err != nil {
			return nil, err
		}
		entries[entry.ShiftID] = entry
	}
	return entries, rows.Err()
}

func (s *Store) employersByID(ctx context.Context, userID string) (map[string]employer.Employer, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, name, hourly_rate, active, created_at, updated_at
    FROM employers
    WHERE user_id = $1
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employers := make(map[string]employer.Employer)
	for rows.Next() {
		var e employer.Employer
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.HourlyRate, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employers[e.ID] = e
	}
	return employers, rows.Err()
}

func (s *Store) getEmployer(ctx context.Context, userID, employerID string) (*employer.Employer, error) {
	var e employer.Employer
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, name, hourly_rate, active, created_at, updated_at
    FROM employers
    WHERE user_id = $1 AND id = $2
  `, userID, employerID).Scan(&e.ID, &e.UserID, &e.Name, &e.HourlyRate, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanExpectedShift(row pgx.Row) (ExpectedShift, error) {
	var shift ExpectedShift
	err := row.Scan(
		&shift.ID, &shift.UserID, &shift.EmployerID, &shift.ShiftDate, &shift.StartTime, &shift.EndTime,
		&shift.ExpectedHours, &shift.HourlyRate, &shift.LunchBreakMinutes, &shift.SalesTarget,
		&shift.Status, &shift.Notes, &shift.CreatedAt, &shift.UpdatedAt,
	)
	return shift, err
}

func scanShiftEntry(row pgx.Row) (ShiftEntry, error) {
	var entry ShiftEntry
	err := row.Scan(
		&entry.ID, &entry.ShiftID, &entry.UserID, &entry.ActualStartTime, &entry.ActualEndTime, &entry.EndDate,
		&entry.ActualHours, &entry.Sales, &entry.Tips, &entry.CashOut, &entry.Other, &entry.Notes,
		&entry.Snapshot.HourlyRate, &entry.Snapshot.DeductionPercentage,
		&entry.Snapshot.GrossIncome, &entry.Snapshot.TotalIncome, &entry.Snapshot.NetIncome,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	return entry, err
}
