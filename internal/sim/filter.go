package sim

import (
	"fmt"
	"strings"
	"time"

	"coin-dca/internal/model"
)

// Timeframe is a display window over the event ledger.
type Timeframe string

const (
	TimeframeAll   Timeframe = "all"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// ParseTimeframe parses a user-supplied timeframe; empty means "all".
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case "":
		return TimeframeAll, nil
	case TimeframeAll, TimeframeMonth, TimeframeYear:
		return tf, nil
	default:
		return "", fmt.Errorf("unrecognized timeframe: %q", s)
	}
}

// FilterByTimeframe returns the suffix of events dated on or after now minus
// the window. TimeframeAll is the identity. This trims display output only;
// the summary is always computed over the full history.
func FilterByTimeframe(events []InvestmentEvent, window Timeframe, now time.Time) []InvestmentEvent {
	var cutoff time.Time
	switch window {
	case TimeframeMonth:
		cutoff = model.DayStart(now.AddDate(0, -1, 0))
	case TimeframeYear:
		cutoff = model.DayStart(now.AddDate(-1, 0, 0))
	default:
		return events
	}

	for i, ev := range events {
		if !ev.Date.Before(cutoff) {
			return events[i:]
		}
	}
	return nil
}
