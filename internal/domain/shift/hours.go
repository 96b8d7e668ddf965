package shift

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"tiptrack/internal/clock"
)

var errInvalidClock = errors.New("invalid clock time")

// AtTime anchors a clock time (HH:MM or HH:MM:SS) on a calendar day.
func AtTime(day time.Time, clockTime string) (time.Time, error) {
	hour, minute, second, err := parseClock(clockTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, day.Location()), nil
}

// ResolveEndDate returns the calendar day a shift ends on. With no explicit
// end date the shift ends on its start date, unless the end clock time
// precedes the start clock time, in which case the shift is treated as
// crossing midnight and the end date advances one day. An equal start and
// end time stays on the start date (a zero-duration shift, not a full day).
func ResolveEndDate(shiftDate time.Time, startTime, endTime string, endDate *time.Time) (time.Time, error) {
	if endDate != nil {
		return clock.Midnight(*endDate), nil
	}
	start, err := AtTime(shiftDate, startTime)
	if err != nil {
		return time.Time{}, err
	}
	end, err := AtTime(shiftDate, endTime)
	if err != nil {
		return time.Time{}, err
	}
	if end.Before(start) {
		return clock.Midnight(shiftDate.AddDate(0, 0, 1)), nil
	}
	return clock.Midnight(shiftDate), nil
}

// NetHours converts a shift's date, clock times and unpaid lunch break into
// net worked hours. Pure and deterministic; safe to recompute on every edit.
func NetHours(shiftDate time.Time, startTime string, endDate *time.Time, endTime string, lunchBreakMinutes int) (float64, error) {
	start, err := AtTime(shiftDate, startTime)
	if err != nil {
		return 0, invalidField("startTime", "must be a valid time in HH:MM format")
	}
	endDay, err := ResolveEndDate(shiftDate, startTime, endTime, endDate)
	if err != nil {
		return 0, invalidField("endTime", "must be a valid time in HH:MM format")
	}
	end, err := AtTime(endDay, endTime)
	if err != nil {
		return 0, invalidField("endTime", "must be a valid time in HH:MM format")
	}

	raw := end.Sub(start).Hours()
	net := raw - float64(lunchBreakMinutes)/60
	if net < 0 {
		net = 0
	}
	return net, nil
}

func parseClock(value string) (hour, minute, second int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, 0, errInvalidClock
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, 0, errInvalidClock
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, 0, errInvalidClock
	}
	if len(parts) == 3 {
		second, err = strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return 0, 0, 0, errInvalidClock
		}
	}
	return hour, minute, second, nil
}
