package shift

import (
	"context"
	"time"
)

// StoreAPI is the persistence port for the reconciliation core. The write
// methods that touch both an entry and its shift's status commit in a
// single transaction; an entry removed with its status left behind is a
// data-integrity bug, not an acceptable race.
type StoreAPI interface {
	CreateExpectedShift(ctx context.Context, s ExpectedShift) error
	GetExpectedShift(ctx context.Context, userID, shiftID string) (ExpectedShift, error)
	UpdateExpectedShift(ctx context.Context, s ExpectedShift) error
	UpdateShiftStatus(ctx context.Context, userID, shiftID, status string) error
	// DeleteExpectedShift removes a shift and, entry-first, any entry
	// referencing it.
	DeleteExpectedShift(ctx context.Context, userID, shiftID string) error

	GetShiftEntry(ctx context.Context, userID, entryID string) (ShiftEntry, error)
	GetEntryForShift(ctx context.Context, userID, shiftID string) (ShiftEntry, error)
	// SaveShiftEntry upserts the entry and, when shiftStatus is non-empty,
	// writes the owning shift's status in the same transaction.
	SaveShiftEntry(ctx context.Context, e ShiftEntry, shiftStatus string) error
	// DeleteShiftEntry removes the entry and, when revertStatus is
	// non-empty, writes the shift status in the same transaction.
	DeleteShiftEntry(ctx context.Context, userID, entryID, shiftID, revertStatus string) error

	GetCompletedShift(ctx context.Context, userID, shiftID string) (CompletedShift, error)
	ListCompletedShifts(ctx context.Context, userID string, from, to time.Time) ([]CompletedShift, error)
}
