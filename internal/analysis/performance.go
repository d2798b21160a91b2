package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// CoinPerformance is a coin-level summary you can use for ranking.
// It combines raw price stats over the observed series with the outcome of
// running one contribution plan against it.
type CoinPerformance struct {
	CoinID string

	StartDay time.Time
	EndDay   time.Time
	Days     int

	MinPrice    decimal.Decimal
	MaxPrice    decimal.Decimal
	MeanPrice   decimal.Decimal
	LatestPrice decimal.Decimal

	Events           int
	TotalInvested    decimal.Decimal
	CurrentValue     decimal.Decimal
	TotalReturn      decimal.Decimal
	ReturnPercentage decimal.Decimal
}

// ComputePerformance runs the plan over the full span of one coin's series
// and folds in price stats.
func ComputePerformance(coinID string, series *model.PriceSeries, contribution decimal.Decimal, cadence sim.Cadence) (CoinPerformance, error) {
	p := CoinPerformance{CoinID: coinID}
	if series == nil || series.Len() == 0 {
		return p, sim.ErrInsufficientData
	}

	first, _ := series.First()
	latest, _ := series.Latest()
	p.StartDay = first.Day
	p.EndDay = latest.Day
	p.Days = series.Len()
	p.LatestPrice = latest.Price

	sum := decimal.Zero
	for i, pt := range series.Points() {
		if i == 0 || pt.Price.LessThan(p.MinPrice) {
			p.MinPrice = pt.Price
		}
		if i == 0 || pt.Price.GreaterThan(p.MaxPrice) {
			p.MaxPrice = pt.Price
		}
		sum = sum.Add(pt.Price)
	}
	p.MeanPrice = sum.Div(decimal.NewFromInt(int64(series.Len())))

	dates, err := sim.GenerateScheduleDates(first.Day, latest.Day, cadence)
	if err != nil {
		return p, err
	}
	res, err := sim.ComputeReturns(dates, contribution, series)
	if err != nil {
		return p, err
	}

	p.Events = res.Summary.EventCount
	p.TotalInvested = res.Summary.TotalInvested
	p.CurrentValue = res.Summary.CurrentValue
	p.TotalReturn = res.Summary.TotalReturn
	p.ReturnPercentage = res.Summary.ReturnPercentage
	return p, nil
}
