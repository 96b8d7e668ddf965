package employer

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context, userID string, includeInactive bool) ([]Employer, error) {
	return s.Store.List(ctx, userID, includeInactive)
}

func (s *Service) Get(ctx context.Context, userID, employerID string) (Employer, error) {
	return s.Store.Get(ctx, userID, employerID)
}

func (s *Service) Create(ctx context.Context, userID, name string, hourlyRate float64) (Employer, error) {
	e := Employer{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		HourlyRate: hourlyRate,
		Active:     true,
	}
	if err := s.Store.Create(ctx, e); err != nil {
		return Employer{}, err
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, userID, employerID, name string, hourlyRate float64) error {
	return s.Store.Update(ctx, Employer{
		ID:         employerID,
		UserID:     userID,
		Name:       strings.TrimSpace(name),
		HourlyRate: hourlyRate,
	})
}

func (s *Service) Deactivate(ctx context.Context, userID, employerID string) error {
	return s.Store.SetActive(ctx, userID, employerID, false)
}

func (s *Service) Reactivate(ctx context.Context, userID, employerID string) error {
	return s.Store.SetActive(ctx, userID, employerID, true)
}

// Delete removes an employer outright. Employers referenced by any shift,
// historical or planned, can only be deactivated so saved records keep
// resolving their employer.
func (s *Service) Delete(ctx context.Context, userID, employerID string) error {
	count, err := s.Store.ShiftCount(ctx, userID, employerID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrReferenced
	}
	return s.Store.Delete(ctx, userID, employerID)
}
