package clock

import "time"

// Clock supplies "now" and "today" in the worker's calendar. It is injected
// everywhere the core compares shift dates against the current day, so that
// future-date validation stays deterministic under test.
type Clock interface {
	Now() time.Time
	Today() time.Time
}

type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func (s System) Today() time.Time {
	return Midnight(s.Now())
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Day collapses t to its calendar date anchored in UTC. Dates arrive in
// mixed locations (request payloads and DATE columns carry UTC midnights,
// Today() is midnight in the configured zone); anchoring both sides makes
// them compare as plain calendar days instead of instants.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Fixed is a Clock pinned to a single instant, for tests.
type Fixed struct {
	Instant time.Time
}

func (f Fixed) Now() time.Time {
	return f.Instant
}

func (f Fixed) Today() time.Time {
	return Midnight(f.Instant)
}
