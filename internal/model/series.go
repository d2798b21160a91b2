package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MarketChartResponse matches the JSON shape of the CoinGecko
// /coins/{id}/market_chart/range endpoint.
//
// Example:
//
//	{
//	  "prices": [[1672531200000, 16547.49], ...],
//	  "market_caps": [[1672531200000, 318941547494.3], ...],
//	  "total_volumes": [[1672531200000, 11239163941.5], ...]
//	}
//
// Each pair is [timestampMillis, value]. Only Prices feeds the simulator;
// the other two fields are decoded for completeness and otherwise ignored.
type MarketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps,omitempty"`
	TotalVolumes [][2]float64 `json:"total_volumes,omitempty"`
}

// DayLayout is the calendar-day key format used throughout.
const DayLayout = "2006-01-02"

// DayStart returns UTC midnight of the UTC calendar day containing t.
// All day comparisons in the simulator use UTC days, so results do not
// depend on the host timezone.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey returns the day key ("2006-01-02", UTC) for t.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// PricePoint is one observed daily price.
type PricePoint struct {
	Day   time.Time // UTC midnight
	Price decimal.Decimal
}

// PriceSeries is an ordered, day-keyed price history. Build it once (Add or
// FromMarketChart) and treat it as read-only afterwards; the simulator never
// mutates a series it is handed.
type PriceSeries struct {
	days  []string // sorted; ISO day keys sort chronologically
	byDay map[string]decimal.Decimal
}

func NewPriceSeries() *PriceSeries {
	return &PriceSeries{byDay: make(map[string]decimal.Decimal)}
}

// Add records price for the UTC day containing t. Adding the same day again
// replaces the earlier value, so the last provider sample for a day wins.
func (s *PriceSeries) Add(t time.Time, price decimal.Decimal) {
	key := DayKey(t)
	if _, exists := s.byDay[key]; !exists {
		i := sort.SearchStrings(s.days, key)
		s.days = append(s.days, "")
		copy(s.days[i+1:], s.days[i:])
		s.days[i] = key
	}
	s.byDay[key] = price
}

func (s *PriceSeries) Len() int {
	return len(s.days)
}

// PriceOn looks up the price for the UTC day containing t. Exact match only:
// no interpolation, no nearest-neighbor fallback.
func (s *PriceSeries) PriceOn(t time.Time) (decimal.Decimal, bool) {
	p, ok := s.byDay[DayKey(t)]
	return p, ok
}

// First returns the chronologically first point in the series.
func (s *PriceSeries) First() (PricePoint, bool) {
	if len(s.days) == 0 {
		return PricePoint{}, false
	}
	return s.point(s.days[0]), true
}

// Latest returns the chronologically last point in the series. Its price is
// the mark-to-market reference: the series' last entry stands in for "now".
func (s *PriceSeries) Latest() (PricePoint, bool) {
	if len(s.days) == 0 {
		return PricePoint{}, false
	}
	return s.point(s.days[len(s.days)-1]), true
}

// Points returns all points in chronological order.
func (s *PriceSeries) Points() []PricePoint {
	out := make([]PricePoint, 0, len(s.days))
	for _, key := range s.days {
		out = append(out, s.point(key))
	}
	return out
}

func (s *PriceSeries) point(key string) PricePoint {
	day, _ := time.ParseInLocation(DayLayout, key, time.UTC)
	return PricePoint{Day: day, Price: s.byDay[key]}
}

// FromMarketChart builds a day-keyed series from a provider response.
// Timestamps are milliseconds since the epoch and are truncated to UTC days.
func FromMarketChart(resp *MarketChartResponse) *PriceSeries {
	s := NewPriceSeries()
	if resp == nil {
		return s
	}
	for _, pair := range resp.Prices {
		ts := time.UnixMilli(int64(pair[0])).UTC()
		s.Add(ts, decimal.NewFromFloat(pair[1]))
	}
	return s
}
