package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// linearSeries builds a daily series starting at startPrice and moving by
// step each day.
func linearSeries(start time.Time, days int, startPrice, step float64) *model.PriceSeries {
	s := model.NewPriceSeries()
	for i := 0; i < days; i++ {
		s.Add(start.AddDate(0, 0, i), decimal.NewFromFloat(startPrice+step*float64(i)))
	}
	return s
}

func TestComputePerformance(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	// 15 days, 100 -> 240 in steps of 10.
	series := linearSeries(start, 15, 100, 10)

	p, err := ComputePerformance("bitcoin", series, decimal.NewFromInt(100), sim.CadenceWeekly)
	require.NoError(t, err)

	assert.Equal(t, "bitcoin", p.CoinID)
	assert.Equal(t, start, p.StartDay)
	assert.Equal(t, start.AddDate(0, 0, 14), p.EndDay)
	assert.Equal(t, 15, p.Days)
	assert.InDelta(t, 100, p.MinPrice.InexactFloat64(), 1e-9)
	assert.InDelta(t, 240, p.MaxPrice.InexactFloat64(), 1e-9)
	assert.InDelta(t, 170, p.MeanPrice.InexactFloat64(), 1e-9)
	assert.InDelta(t, 240, p.LatestPrice.InexactFloat64(), 1e-9)

	// Weekly schedule over 15 days buys on days 1, 8 and 15 at 100, 170, 240.
	assert.Equal(t, 3, p.Events)
	assert.InDelta(t, 300, p.TotalInvested.InexactFloat64(), 1e-9)
	wantUnits := 100.0/100 + 100.0/170 + 100.0/240
	assert.InDelta(t, wantUnits*240, p.CurrentValue.InexactFloat64(), 1e-6)
	assert.InDelta(t, wantUnits*240-300, p.TotalReturn.InexactFloat64(), 1e-6)
}

func TestComputePerformance_EmptySeries(t *testing.T) {
	_, err := ComputePerformance("bitcoin", model.NewPriceSeries(), decimal.NewFromInt(100), sim.CadenceDaily)
	assert.ErrorIs(t, err, sim.ErrInsufficientData)

	_, err = ComputePerformance("bitcoin", nil, decimal.NewFromInt(100), sim.CadenceDaily)
	assert.ErrorIs(t, err, sim.ErrInsufficientData)
}

func TestRankByReturn(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	byCoin := map[string]*model.PriceSeries{
		"riser":  linearSeries(start, 30, 100, 5),  // strong uptrend
		"flat":   linearSeries(start, 30, 100, 0),  // no movement
		"faller": linearSeries(start, 30, 100, -2), // downtrend
		"empty":  model.NewPriceSeries(),           // skipped
	}

	ranked := RankByReturn(byCoin, decimal.NewFromInt(100), sim.CadenceWeekly)
	require.Len(t, ranked, 3)
	assert.Equal(t, "riser", ranked[0].CoinID)
	assert.Equal(t, "flat", ranked[1].CoinID)
	assert.Equal(t, "faller", ranked[2].CoinID)

	assert.True(t, ranked[0].ReturnPercentage.IsPositive())
	assert.True(t, ranked[1].ReturnPercentage.IsZero())
	assert.True(t, ranked[2].ReturnPercentage.IsNegative())
}
