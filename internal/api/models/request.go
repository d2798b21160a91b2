package models

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	APIKey     string           `json:"api_key,omitempty"` // optional CoinGecko demo API key
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	Plan       PlanRequest      `json:"plan" binding:"required"`
	Options    SimulateOptions  `json:"options,omitempty"`
}

// DataSourceConfig defines how to fetch historical prices
type DataSourceConfig struct {
	Type       string `json:"type" binding:"required"` // "coingecko"
	CoinID     string `json:"coin_id" binding:"required"`
	VsCurrency string `json:"vs_currency,omitempty"` // default: "usd"
	StartDate  string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate    string `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

// PlanRequest defines the contribution plan
type PlanRequest struct {
	Contribution float64 `json:"contribution" binding:"required"`
	Cadence      string  `json:"cadence" binding:"required"` // daily|weekly|biweekly|monthly
	StartDate    string  `json:"start_date,omitempty"`       // defaults to the data source range
	EndDate      string  `json:"end_date,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	IncludeEvents bool   `json:"include_events,omitempty"` // default: false
	Timeframe     string `json:"timeframe,omitempty"`      // all|month|year; trims returned events only
}

// CompareRequest represents a request to compare multiple plans over one fetch
type CompareRequest struct {
	APIKey     string           `json:"api_key,omitempty"`
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	BasePlan   PlanRequest      `json:"base_plan" binding:"required"`
	Variations []PlanVariation  `json:"variations" binding:"required"`
}

// PlanVariation defines a variation to test
type PlanVariation struct {
	Name string      `json:"name" binding:"required"`
	Plan PlanRequest `json:"plan"`
}

// RankRequest represents a request to rank coins by plan outcome
type RankRequest struct {
	APIKey       string  `form:"api_key"`
	CoinIDs      string  `form:"coin_ids" binding:"required"` // comma-separated
	VsCurrency   string  `form:"vs_currency"`
	StartDate    string  `form:"start_date" binding:"required"`
	EndDate      string  `form:"end_date" binding:"required"`
	Contribution float64 `form:"contribution" binding:"required"`
	Cadence      string  `form:"cadence"` // default: monthly
	Limit        int     `form:"limit"`   // default: 10
}
