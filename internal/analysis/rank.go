package analysis

import (
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// RankByReturn computes per-coin performance for the same plan and sorts
// descending by return percentage. Coins whose series cannot support the
// plan are skipped rather than failing the whole ranking.
func RankByReturn(byCoin map[string]*model.PriceSeries, contribution decimal.Decimal, cadence sim.Cadence) []CoinPerformance {
	out := make([]CoinPerformance, 0, len(byCoin))
	for coinID, series := range byCoin {
		p, err := ComputePerformance(coinID, series, contribution, cadence)
		if err != nil {
			log.Printf("[Analysis] Skipping %s: %v", coinID, err)
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ReturnPercentage.GreaterThan(out[j].ReturnPercentage)
	})
	return out
}
