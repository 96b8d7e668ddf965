package employer

import "context"

type StoreAPI interface {
	List(ctx context.Context, userID string, includeInactive bool) ([]Employer, error)
	Get(ctx context.Context, userID, employerID string) (Employer, error)
	Create(ctx context.Context, e Employer) error
	Update(ctx context.Context, e Employer) error
	SetActive(ctx context.Context, userID, employerID string, active bool) error
	Delete(ctx context.Context, userID, employerID string) error
	ShiftCount(ctx context.Context, userID, employerID string) (int, error)
}
