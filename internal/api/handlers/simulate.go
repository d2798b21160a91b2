package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"coin-dca/internal/api/models"
	"coin-dca/internal/data"
	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// SimulateHandler handles simulation-related requests
type SimulateHandler struct {
	client  *data.CoinGeckoClient // when nil, a client is built per request
	results *ResultStore
}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler(client *data.CoinGeckoClient, results *ResultStore) *SimulateHandler {
	if results == nil {
		results = NewResultStore(0)
	}
	return &SimulateHandler{client: client, results: results}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	timeframe, err := sim.ParseTimeframe(req.Options.Timeframe)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_TIMEFRAME",
				Message: err.Error(),
			},
		})
		return
	}

	series, ok := h.fetchSeries(c, req.DataSource, req.APIKey)
	if !ok {
		return
	}

	result, ok := h.runPlan(c, req.DataSource, req.Plan, series)
	if !ok {
		return
	}

	// Store the full ledger so it stays retrievable by id even when the
	// caller didn't ask for events inline.
	rows := convertEvents(result.Events)
	id := h.results.Put(rows)

	response := models.SimulateResponse{
		ID:      id,
		Status:  "completed",
		Summary: buildSummary(req.DataSource, result),
	}
	if req.Options.IncludeEvents {
		filtered := sim.FilterByTimeframe(result.Events, timeframe, time.Now().UTC())
		response.Events = convertEvents(filtered)
	}

	c.JSON(http.StatusOK, response)
}

// GetEvents handles GET /api/v1/simulate/:id/events
func (h *SimulateHandler) GetEvents(c *gin.Context) {
	id := c.Param("id")
	events, found := h.results.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "RESULT_NOT_FOUND",
				Message: "No stored result for this id. Results expire; re-run the simulation.",
			},
		})
		return
	}
	c.JSON(http.StatusOK, models.EventsResponse{ID: id, Events: events})
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulateHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	// Fetch data once
	series, ok := h.fetchSeries(c, req.DataSource, req.APIKey)
	if !ok {
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, variation := range req.Variations {
		plan := mergePlan(req.BasePlan, variation.Plan)
		result, err := runPlanQuiet(req.DataSource, plan, series)
		if err != nil {
			continue // Skip invalid variations
		}
		comparison = append(comparison, models.ComparisonResult{
			Name:    variation.Name,
			Summary: buildSummary(req.DataSource, result),
		})
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// Helper methods

// fetchSeries fetches the historical series, writing the error response
// itself when the fetch fails.
func (h *SimulateHandler) fetchSeries(c *gin.Context, ds models.DataSourceConfig, apiKey string) (*model.PriceSeries, bool) {
	if ds.Type != "coingecko" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "UNSUPPORTED_DATA_SOURCE",
				Message: "unsupported data source type: " + ds.Type,
			},
		})
		return nil, false
	}

	client := h.client
	if client == nil {
		client = data.NewCoinGeckoClient(apiKey, "")
	}

	vsCurrency := ds.VsCurrency
	if vsCurrency == "" {
		vsCurrency = "usd"
	}

	series, err := client.MarketChartByString(c.Request.Context(), ds.CoinID, vsCurrency, ds.StartDate, ds.EndDate)
	if err != nil {
		writeProviderError(c, err)
		return nil, false
	}
	return series, true
}

// runPlan validates the plan against the fetched series, writing the error
// response itself on failure.
func (h *SimulateHandler) runPlan(c *gin.Context, ds models.DataSourceConfig, plan models.PlanRequest, series *model.PriceSeries) (*sim.Result, bool) {
	result, err := runPlanQuiet(ds, plan, series)
	if err != nil {
		code, status := classifyPlanError(err)
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return nil, false
	}
	return result, true
}

func runPlanQuiet(ds models.DataSourceConfig, plan models.PlanRequest, series *model.PriceSeries) (*sim.Result, error) {
	cadence, err := sim.ParseCadence(plan.Cadence)
	if err != nil {
		return nil, err
	}

	start, end, err := planRange(ds, plan, series)
	if err != nil {
		return nil, err
	}

	dates, err := sim.GenerateScheduleDates(start, end, cadence)
	if err != nil {
		return nil, err
	}

	return sim.ComputeReturns(dates, decimal.NewFromFloat(plan.Contribution), series)
}

// planRange resolves the schedule window: explicit plan dates win, otherwise
// the span of the fetched series.
func planRange(ds models.DataSourceConfig, plan models.PlanRequest, series *model.PriceSeries) (time.Time, time.Time, error) {
	startStr := plan.StartDate
	endStr := plan.EndDate
	if startStr == "" {
		startStr = ds.StartDate
	}
	if endStr == "" {
		endStr = ds.EndDate
	}
	if startStr == "" || endStr == "" {
		first, ok := series.First()
		if !ok {
			return time.Time{}, time.Time{}, sim.ErrInsufficientData
		}
		latest, _ := series.Latest()
		return first.Day, latest.Day, nil
	}

	start, err := time.ParseInLocation(model.DayLayout, startStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("start_date must be in YYYY-MM-DD format")
	}
	end, err := time.ParseInLocation(model.DayLayout, endStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("end_date must be in YYYY-MM-DD format")
	}
	return start, end, nil
}

func classifyPlanError(err error) (code string, status int) {
	switch {
	case errors.Is(err, sim.ErrInvalidRange):
		return "INVALID_RANGE", http.StatusBadRequest
	case errors.Is(err, sim.ErrInvalidCadence):
		return "INVALID_CADENCE", http.StatusBadRequest
	case errors.Is(err, sim.ErrInvalidContribution):
		return "INVALID_CONTRIBUTION", http.StatusBadRequest
	case errors.Is(err, sim.ErrInsufficientData):
		return "INSUFFICIENT_DATA", http.StatusUnprocessableEntity
	case errors.Is(err, sim.ErrNoEvents):
		return "NO_EVENTS_GENERATED", http.StatusUnprocessableEntity
	default:
		return "INVALID_PLAN", http.StatusBadRequest
	}
}

// writeProviderError maps CoinGecko failures onto the error envelope.
func writeProviderError(c *gin.Context, err error) {
	var cgErr *data.CoinGeckoError
	if errors.As(err, &cgErr) {
		statusCode := http.StatusBadGateway
		switch cgErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			statusCode = http.StatusUnauthorized
		case http.StatusTooManyRequests:
			statusCode = http.StatusTooManyRequests
		case http.StatusNotFound:
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    cgErr.Code,
				Message: cgErr.Message,
				Details: map[string]interface{}{
					"status_code": cgErr.StatusCode,
					"retry_after": cgErr.RetryAfter,
				},
			},
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "DATA_FETCH_ERROR",
			Message: err.Error(),
		},
	})
}

func mergePlan(base, override models.PlanRequest) models.PlanRequest {
	merged := base
	if override.Contribution != 0 {
		merged.Contribution = override.Contribution
	}
	if override.Cadence != "" {
		merged.Cadence = override.Cadence
	}
	if override.StartDate != "" {
		merged.StartDate = override.StartDate
	}
	if override.EndDate != "" {
		merged.EndDate = override.EndDate
	}
	return merged
}

func buildSummary(ds models.DataSourceConfig, result *sim.Result) models.SimulationSummary {
	vsCurrency := ds.VsCurrency
	if vsCurrency == "" {
		vsCurrency = "usd"
	}

	s := result.Summary
	summary := models.SimulationSummary{
		CoinID:           ds.CoinID,
		VsCurrency:       vsCurrency,
		TotalInvested:    s.TotalInvested.InexactFloat64(),
		TotalUnits:       s.TotalUnits.InexactFloat64(),
		LatestPrice:      s.LatestPrice.InexactFloat64(),
		CurrentValue:     s.CurrentValue.InexactFloat64(),
		TotalReturn:      s.TotalReturn.InexactFloat64(),
		ReturnPercentage: s.ReturnPercentage.InexactFloat64(),
		AveragePrice:     s.AveragePrice.InexactFloat64(),
		EventCount:       s.EventCount,
		SkippedDates:     s.SkippedDates,
	}
	if len(result.Events) > 0 {
		summary.Window = models.TimeWindow{
			Start: result.Events[0].Date.Format(model.DayLayout),
			End:   result.Events[len(result.Events)-1].Date.Format(model.DayLayout),
		}
	}
	return summary
}

func convertEvents(events []sim.InvestmentEvent) []models.EventRow {
	rows := make([]models.EventRow, len(events))
	for i, ev := range events {
		rows[i] = models.EventRow{
			Index:              ev.Index,
			Date:               ev.Date.Format(model.DayLayout),
			Contribution:       ev.Contribution.InexactFloat64(),
			UnitPrice:          ev.UnitPrice.InexactFloat64(),
			UnitsAcquired:      ev.UnitsAcquired.InexactFloat64(),
			CumulativeUnits:    ev.CumulativeUnits.InexactFloat64(),
			CumulativeInvested: ev.CumulativeInvested.InexactFloat64(),
			CumulativeValue:    ev.CumulativeValue.InexactFloat64(),
			UnrealizedGain:     ev.UnrealizedGain.InexactFloat64(),
		}
	}
	return rows
}
