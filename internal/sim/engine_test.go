package sim

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-dca/internal/model"
)

func seriesOf(prices map[string]float64) *model.PriceSeries {
	s := model.NewPriceSeries()
	for dayStr, price := range prices {
		d, err := time.ParseInLocation(model.DayLayout, dayStr, time.UTC)
		if err != nil {
			panic(err)
		}
		s.Add(d, decimal.NewFromFloat(price))
	}
	return s
}

func TestComputeReturns_WorkedExample(t *testing.T) {
	dates := []time.Time{
		day(2023, time.January, 1),
		day(2023, time.February, 1),
		day(2023, time.March, 1),
	}
	series := seriesOf(map[string]float64{
		"2023-01-01": 50,
		"2023-02-01": 40,
		"2023-03-01": 60, // latest: the mark-to-market price
	})

	res, err := ComputeReturns(dates, decimal.NewFromInt(100), series)
	require.NoError(t, err)
	require.Len(t, res.Events, 3)

	assert.InDelta(t, 2.0, res.Events[0].UnitsAcquired.InexactFloat64(), 1e-9)
	assert.InDelta(t, 2.5, res.Events[1].UnitsAcquired.InexactFloat64(), 1e-9)
	assert.InDelta(t, 1.6667, res.Events[2].UnitsAcquired.InexactFloat64(), 1e-4)

	s := res.Summary
	assert.InDelta(t, 300, s.TotalInvested.InexactFloat64(), 1e-9)
	assert.InDelta(t, 6.1667, s.TotalUnits.InexactFloat64(), 1e-4)
	assert.InDelta(t, 60, s.LatestPrice.InexactFloat64(), 1e-9)
	assert.InDelta(t, 370, s.CurrentValue.InexactFloat64(), 1e-6)
	assert.InDelta(t, 70, s.TotalReturn.InexactFloat64(), 1e-6)
	assert.InDelta(t, 23.33, s.ReturnPercentage.InexactFloat64(), 1e-2)
	assert.InDelta(t, 48.65, s.AveragePrice.InexactFloat64(), 1e-2)
	assert.Equal(t, 3, s.EventCount)
	assert.Equal(t, 0, s.SkippedDates)
}

func TestComputeReturns_MarkToMarketUsesLatestPrice(t *testing.T) {
	dates := []time.Time{day(2023, time.January, 1)}
	series := seriesOf(map[string]float64{
		"2023-01-01": 50,
		"2023-06-01": 200, // well past the only purchase date
	})

	res, err := ComputeReturns(dates, decimal.NewFromInt(100), series)
	require.NoError(t, err)
	require.Len(t, res.Events, 1)

	// 2 units valued at the series' last price, not the purchase price.
	assert.InDelta(t, 400, res.Events[0].CumulativeValue.InexactFloat64(), 1e-9)
	assert.InDelta(t, 300, res.Events[0].UnrealizedGain.InexactFloat64(), 1e-9)
}

func TestComputeReturns_AllDatesPresent(t *testing.T) {
	series := seriesOf(map[string]float64{
		"2023-01-01": 10, "2023-01-02": 11, "2023-01-03": 12, "2023-01-04": 13,
	})
	dates, err := GenerateScheduleDates(day(2023, time.January, 1), day(2023, time.January, 4), CadenceDaily)
	require.NoError(t, err)

	res, err := ComputeReturns(dates, decimal.NewFromInt(5), series)
	require.NoError(t, err)
	assert.Len(t, res.Events, len(dates), "a gapless series yields one event per date")
}

func TestComputeReturns_MissingDateSkipsEvent(t *testing.T) {
	dates := []time.Time{
		day(2023, time.January, 1),
		day(2023, time.January, 2),
		day(2023, time.January, 3),
	}
	full := seriesOf(map[string]float64{
		"2023-01-01": 10, "2023-01-02": 20, "2023-01-03": 40,
	})
	gapped := seriesOf(map[string]float64{
		"2023-01-01": 10, "2023-01-03": 40,
	})

	contribution := decimal.NewFromInt(100)
	fullRes, err := ComputeReturns(dates, contribution, full)
	require.NoError(t, err)
	gappedRes, err := ComputeReturns(dates, contribution, gapped)
	require.NoError(t, err)

	assert.Equal(t, len(fullRes.Events)-1, len(gappedRes.Events))
	assert.InDelta(t, 100,
		fullRes.Summary.TotalInvested.Sub(gappedRes.Summary.TotalInvested).InexactFloat64(), 1e-9,
		"a removed price entry forfeits exactly one contribution")
	assert.Equal(t, 1, gappedRes.Summary.SkippedDates)
}

func TestComputeReturns_NonPositivePriceRejectsEvent(t *testing.T) {
	dates := []time.Time{
		day(2023, time.January, 1),
		day(2023, time.January, 2),
	}
	s := model.NewPriceSeries()
	s.Add(day(2023, time.January, 1), decimal.Zero)
	s.Add(day(2023, time.January, 2), decimal.NewFromInt(25))

	res, err := ComputeReturns(dates, decimal.NewFromInt(100), s)
	require.NoError(t, err)
	require.Len(t, res.Events, 1, "zero price must drop the event, never divide by zero")
	assert.True(t, res.Events[0].UnitsAcquired.Sign() > 0)
	assert.Equal(t, 1, res.Summary.SkippedDates)
}

func TestComputeReturns_Idempotent(t *testing.T) {
	dates := []time.Time{
		day(2023, time.January, 1),
		day(2023, time.February, 1),
	}
	series := seriesOf(map[string]float64{
		"2023-01-01": 50, "2023-02-01": 40,
	})
	contribution := decimal.NewFromInt(100)

	first, err := ComputeReturns(dates, contribution, series)
	require.NoError(t, err)
	second, err := ComputeReturns(dates, contribution, series)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical inputs must yield identical output")
}

func TestComputeReturns_EmptySeries(t *testing.T) {
	_, err := ComputeReturns([]time.Time{day(2023, time.January, 1)}, decimal.NewFromInt(100), model.NewPriceSeries())
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestComputeReturns_NoEventsGenerated(t *testing.T) {
	series := seriesOf(map[string]float64{"2023-06-01": 10})
	dates := []time.Time{
		day(2023, time.January, 1),
		day(2023, time.February, 1),
	}

	_, err := ComputeReturns(dates, decimal.NewFromInt(100), series)
	assert.ErrorIs(t, err, ErrNoEvents, "all-missing dates must fail instead of producing NaN averages")
}

func TestComputeReturns_NonPositiveContribution(t *testing.T) {
	series := seriesOf(map[string]float64{"2023-01-01": 10})
	dates := []time.Time{day(2023, time.January, 1)}

	_, err := ComputeReturns(dates, decimal.Zero, series)
	assert.ErrorIs(t, err, ErrInvalidContribution)

	_, err = ComputeReturns(dates, decimal.NewFromInt(-5), series)
	assert.ErrorIs(t, err, ErrInvalidContribution)
}
