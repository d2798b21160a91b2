package models

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Summary SimulationSummary `json:"summary"`
	Events  []EventRow        `json:"events,omitempty"`
}

// SimulationSummary contains aggregated simulation results. All monetary
// values are denominated in the requested vs_currency.
type SimulationSummary struct {
	CoinID     string `json:"coin_id"`
	VsCurrency string `json:"vs_currency"`

	TotalInvested    float64 `json:"total_invested"`
	TotalUnits       float64 `json:"total_units"`
	LatestPrice      float64 `json:"latest_price"`
	CurrentValue     float64 `json:"current_value"`
	TotalReturn      float64 `json:"total_return"`
	ReturnPercentage float64 `json:"return_percentage"`
	AveragePrice     float64 `json:"average_price"`

	EventCount   int `json:"event_count"`
	SkippedDates int `json:"skipped_dates"` // scheduled dates without a price

	Window TimeWindow `json:"window"`
}

// TimeWindow represents a date range
type TimeWindow struct {
	Start string `json:"start"` // YYYY-MM-DD
	End   string `json:"end"`
}

// EventRow represents one simulated purchase in the event ledger
type EventRow struct {
	Index              int     `json:"index"`
	Date               string  `json:"date"` // YYYY-MM-DD
	Contribution       float64 `json:"contribution"`
	UnitPrice          float64 `json:"unit_price"`
	UnitsAcquired      float64 `json:"units_acquired"`
	CumulativeUnits    float64 `json:"cumulative_units"`
	CumulativeInvested float64 `json:"cumulative_invested"`
	CumulativeValue    float64 `json:"cumulative_value"`
	UnrealizedGain     float64 `json:"unrealized_gain"`
}

// EventsResponse represents the stored ledger of a prior run
type EventsResponse struct {
	ID     string     `json:"id"`
	Events []EventRow `json:"events"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string            `json:"name"`
	Summary SimulationSummary `json:"summary"`
}

// RankResponse represents the response from ranking coins
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
}

// Ranking represents one ranked coin
type Ranking struct {
	Rank             int     `json:"rank"`
	CoinID           string  `json:"coin_id"`
	Days             int     `json:"days"`
	Events           int     `json:"events"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	MeanPrice        float64 `json:"mean_price"`
	LatestPrice      float64 `json:"latest_price"`
	TotalInvested    float64 `json:"total_invested"`
	CurrentValue     float64 `json:"current_value"`
	ReturnPercentage float64 `json:"return_percentage"`
}

// CadenceInfo represents information about a contribution cadence
type CadenceInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StepDays    string `json:"step_days"` // nominal gap between events
}

// CoinInfo represents information about a coin in the catalog
type CoinInfo struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
