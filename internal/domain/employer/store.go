package employer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tiptrack/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, userID string, includeInactive bool) ([]Employer, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, name, hourly_rate, active, created_at, updated_at
    FROM employers
    WHERE user_id = $1 AND (active OR $2)
    ORDER BY name
  `, userID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employers []Employer
	for rows.Next() {
		var e Employer
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.HourlyRate, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		employers = append(employers, e)
	}
	return employers, rows.Err()
}

func (s *Store) Get(ctx context.Context, userID, employerID string) (Employer, error) {
	var e Employer
	err := s.DB.QueryRow(ctx, `
    SELECT id, user_id, name, hourly_rate, active, created_at, updated_at
    FROM employers
    WHERE user_id = $1 AND id = $2
  `, userID, employerID).Scan(&e.ID, &e.UserID, &e.Name, &e.HourlyRate, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employer{}, ErrNotFound
	}
	if err != nil {
		return Employer{}, err
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, e Employer) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employers (id, user_id, name, hourly_rate, active)
    VALUES ($1,$2,$3,$4,$5)
  `, e.ID, e.UserID, e.Name, e.HourlyRate, e.Active)
	return err
}

func (s *Store) Update(ctx context.Context, e Employer) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employers
    SET name = $3, hourly_rate = $4, updated_at = now()
    WHERE user_id = $1 AND id = $2
  `, e.UserID, e.ID, e.Name, e.HourlyRate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetActive(ctx context.Context, userID, employerID string, active bool) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employers
    SET active = $3, updated_at = now()
    WHERE user_id = $1 AND id = $2
  `, userID, employerID, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, employerID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM employers
    WHERE user_id = $1 AND id = $2
  `, userID, employerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ShiftCount(ctx context.Context, userID, employerID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM expected_shifts
    WHERE user_id = $1 AND employer_id = $2
  `, userID, employerID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
