package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// Demo:
// - Build a synthetic one-year price series (no network access needed)
// - Run a monthly contribution plan against it
// - Print the event ledger and summary to show how the pieces fit together
func main() {
	contribution := flag.Float64("contribution", 100, "Contribution per event")
	cadenceStr := flag.String("cadence", "monthly", "Cadence: daily|weekly|biweekly|monthly")
	flag.Parse()

	cadence, err := sim.ParseCadence(*cadenceStr)
	if err != nil {
		panic(err)
	}

	// A year of synthetic prices: a slow uptrend with a seasonal swing,
	// roughly what a recovering market looks like.
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	series := model.NewPriceSeries()
	for i := 0; i < 365; i++ {
		day := start.AddDate(0, 0, i)
		price := 40000 + 60*float64(i) + 5000*math.Sin(float64(i)/58)
		series.Add(day, decimal.NewFromFloat(price))
	}

	latest, _ := series.Latest()
	dates, err := sim.GenerateScheduleDates(start, latest.Day, cadence)
	if err != nil {
		panic(err)
	}

	res, err := sim.ComputeReturns(dates, decimal.NewFromFloat(*contribution), series)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-4s %-12s %-12s %-12s %-12s %-12s %-12s\n",
		"i", "date", "price", "units", "invested", "value", "gain")
	for _, ev := range res.Events {
		fmt.Printf("%-4d %-12s %-12s %-12s %-12s %-12s %-12s\n",
			ev.Index,
			ev.Date.Format(model.DayLayout),
			ev.UnitPrice.StringFixed(2),
			ev.UnitsAcquired.StringFixed(6),
			ev.CumulativeInvested.StringFixed(2),
			ev.CumulativeValue.StringFixed(2),
			ev.UnrealizedGain.StringFixed(2),
		)
	}

	s := res.Summary
	fmt.Println()
	fmt.Printf("Invested=%s Units=%s LatestPrice=%s Value=%s Return=%s (%s%%) AvgPrice=%s\n",
		s.TotalInvested.StringFixed(2),
		s.TotalUnits.StringFixed(6),
		s.LatestPrice.StringFixed(2),
		s.CurrentValue.StringFixed(2),
		s.TotalReturn.StringFixed(2),
		s.ReturnPercentage.StringFixed(2),
		s.AveragePrice.StringFixed(2),
	)
}
