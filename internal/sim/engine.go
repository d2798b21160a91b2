package sim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"coin-dca/internal/model"
)

// InvestmentEvent is one simulated periodic purchase.
// This is the primary artifact for "what happened" in a simulation.
type InvestmentEvent struct {
	Index int

	Date         time.Time // UTC midnight
	Contribution decimal.Decimal
	UnitPrice    decimal.Decimal

	UnitsAcquired   decimal.Decimal
	CumulativeUnits decimal.Decimal

	CumulativeInvested decimal.Decimal
	CumulativeValue    decimal.Decimal
	UnrealizedGain     decimal.Decimal
}

// Summary aggregates a full simulation run. It is recomputed from scratch on
// every run over the unfiltered event list.
type Summary struct {
	TotalInvested    decimal.Decimal
	TotalUnits       decimal.Decimal
	LatestPrice      decimal.Decimal
	CurrentValue     decimal.Decimal
	TotalReturn      decimal.Decimal
	ReturnPercentage decimal.Decimal
	AveragePrice     decimal.Decimal

	EventCount   int
	SkippedDates int
}

type Result struct {
	Events  []InvestmentEvent
	Summary Summary
}

// ComputeReturns simulates buying `contribution` worth of the asset on each
// scheduled date that has a price in the series.
//
// Dates without an exact-day price are silently skipped: they produce no
// event and consume no contribution. A zero or negative price is rejected
// the same way, never substituted, so every retained event has strictly
// positive units.
//
// Each event is marked to market at the series' latest price rather than its
// own purchase price: the last entry of the fetched history stands in for
// "today", which keeps the whole run reproducible from a single fetch.
func ComputeReturns(dates []time.Time, contribution decimal.Decimal, series *model.PriceSeries) (*Result, error) {
	if contribution.Sign() <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidContribution, contribution)
	}
	if series == nil || series.Len() == 0 {
		return nil, ErrInsufficientData
	}

	latest, _ := series.Latest()

	events := make([]InvestmentEvent, 0, len(dates))
	units := decimal.Zero
	invested := decimal.Zero
	skipped := 0

	for _, d := range dates {
		price, ok := series.PriceOn(d)
		if !ok || price.Sign() <= 0 {
			skipped++
			continue
		}

		acquired := contribution.Div(price)
		units = units.Add(acquired)
		invested = invested.Add(contribution)
		value := units.Mul(latest.Price)

		events = append(events, InvestmentEvent{
			Index:              len(events),
			Date:               model.DayStart(d),
			Contribution:       contribution,
			UnitPrice:          price,
			UnitsAcquired:      acquired,
			CumulativeUnits:    units,
			CumulativeInvested: invested,
			CumulativeValue:    value,
			UnrealizedGain:     value.Sub(invested),
		})
	}

	if len(events) == 0 {
		return nil, fmt.Errorf("%w (%d scheduled dates)", ErrNoEvents, len(dates))
	}

	current := units.Mul(latest.Price)
	summary := Summary{
		TotalInvested:    invested,
		TotalUnits:       units,
		LatestPrice:      latest.Price,
		CurrentValue:     current,
		TotalReturn:      current.Sub(invested),
		ReturnPercentage: current.Div(invested).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)),
		AveragePrice:     invested.Div(units),
		EventCount:       len(events),
		SkippedDates:     skipped,
	}

	return &Result{Events: events, Summary: summary}, nil
}
