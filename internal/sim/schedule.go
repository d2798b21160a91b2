package sim

import (
	"fmt"
	"strings"
	"time"

	"coin-dca/internal/model"
)

// Cadence is the fixed recurrence interval between simulated contributions.
type Cadence string

const (
	CadenceDaily    Cadence = "daily"
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
)

// Cadences lists the supported cadences in ascending step order.
func Cadences() []Cadence {
	return []Cadence{CadenceDaily, CadenceWeekly, CadenceBiweekly, CadenceMonthly}
}

// ParseCadence parses a user-supplied cadence string.
func ParseCadence(s string) (Cadence, error) {
	switch c := Cadence(strings.ToLower(strings.TrimSpace(s))); c {
	case CadenceDaily, CadenceWeekly, CadenceBiweekly, CadenceMonthly:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCadence, s)
	}
}

// stepDays returns the fixed step in calendar days, or 0 for monthly.
func (c Cadence) stepDays() int {
	switch c {
	case CadenceDaily:
		return 1
	case CadenceWeekly:
		return 7
	case CadenceBiweekly:
		return 14
	default:
		return 0
	}
}

// GenerateScheduleDates returns the contribution dates from start to end
// inclusive, normalized to UTC midnight. Fixed cadences advance by 1, 7 or
// 14 calendar days. Monthly keeps the start date's day-of-month as the
// anchor and clamps to the last valid day of shorter months, so a schedule
// anchored on the 31st visits Jan 31, Feb 28 (or 29), Mar 31 rather than
// overflowing into the next month.
func GenerateScheduleDates(start, end time.Time, cadence Cadence) ([]time.Time, error) {
	start = model.DayStart(start)
	end = model.DayStart(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s, end %s",
			ErrInvalidRange, start.Format(model.DayLayout), end.Format(model.DayLayout))
	}

	var dates []time.Time
	switch cadence {
	case CadenceDaily, CadenceWeekly, CadenceBiweekly:
		step := cadence.stepDays()
		for d := start; !d.After(end); d = d.AddDate(0, 0, step) {
			dates = append(dates, d)
		}
	case CadenceMonthly:
		anchor := start.Day()
		for k := 0; ; k++ {
			d := monthlyDate(start, anchor, k)
			if d.After(end) {
				break
			}
			dates = append(dates, d)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCadence, cadence)
	}
	return dates, nil
}

// monthlyDate returns the k-th date of a monthly schedule: the anchor
// day-of-month clamped to the target month's length. time.AddDate is not
// used here because it overflows short months (Jan 31 + 1 month = Mar 3).
func monthlyDate(start time.Time, anchorDay, k int) time.Time {
	y := start.Year()
	m := int(start.Month()) + k
	y += (m - 1) / 12
	m = (m-1)%12 + 1

	day := anchorDay
	if last := daysInMonth(y, time.Month(m)); day > last {
		day = last
	}
	return time.Date(y, time.Month(m), day, 0, 0, 0, 0, time.UTC)
}

// daysInMonth: day 0 of the following month is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
