package sim

import "errors"

// Validation failures on simulator inputs. These always propagate to the
// caller for user-visible messaging; the simulator never substitutes a
// default or placeholder value for bad input.
var (
	// ErrInvalidRange: schedule start date is after the end date.
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrInvalidCadence: unrecognized cadence value.
	ErrInvalidCadence = errors.New("unrecognized cadence")

	// ErrInvalidContribution: contribution is zero or negative.
	ErrInvalidContribution = errors.New("contribution must be positive")

	// ErrInsufficientData: the price series has no entries at all.
	ErrInsufficientData = errors.New("price series has no entries")

	// ErrNoEvents: every scheduled date was missing from the series, so no
	// purchase was simulated. Returned instead of a summary that would
	// divide by zero units.
	ErrNoEvents = errors.New("no scheduled date has a price in the series")
)
