package shift

import (
	"time"

	"tiptrack/internal/clock"
)

const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
	StatusMissed    = "missed"
)

// ValidStatus reports whether s is one of the three lifecycle statuses.
func ValidStatus(s string) bool {
	return s == StatusPlanned || s == StatusCompleted || s == StatusMissed
}

// Transition checks a forward lifecycle move. A planned shift becomes
// completed or missed; terminal statuses only move back to planned through
// entry deletion, which goes through Revert instead.
func Transition(current, next string) error {
	if !ValidStatus(next) || !ValidStatus(current) {
		return &InvalidStateError{From: current, To: next}
	}
	if current == next {
		return nil
	}
	if current == StatusPlanned {
		return nil
	}
	return &InvalidStateError{From: current, To: next}
}

// Revert decides the status an expected shift takes after its entry is
// deleted: back to planned while the shift date has not yet passed,
// unchanged otherwise so past records keep their history. Calendar days
// are compared, not instants; the shift date and today may carry
// different locations.
func Revert(current string, shiftDate, today time.Time) string {
	if !clock.Day(shiftDate).Before(clock.Day(today)) {
		return StatusPlanned
	}
	return current
}
