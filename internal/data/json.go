package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"coin-dca/internal/model"
)

// LoadMarketChartJSON reads a saved provider response (the body of a
// market_chart/range call) from disk. Used by the CLI for offline runs.
func LoadMarketChartJSON(path string) (*model.MarketChartResponse, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp model.MarketChartResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LoadSeriesJSON is LoadMarketChartJSON plus the day-keyed mapping.
func LoadSeriesJSON(path string) (*model.PriceSeries, error) {
	resp, err := LoadMarketChartJSON(path)
	if err != nil {
		return nil, err
	}
	return model.FromMarketChart(resp), nil
}

// CoinIDFromFilename derives a coin identifier from a saved chart filename,
// e.g. "charts/bitcoin.json" -> "bitcoin".
func CoinIDFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
