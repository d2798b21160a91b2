package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"coin-dca/internal/analysis"
	"coin-dca/internal/api/models"
	"coin-dca/internal/data"
	"coin-dca/internal/model"
	"coin-dca/internal/sim"
)

// RankHandler handles ranking-related requests
type RankHandler struct {
	client *data.CoinGeckoClient // when nil, a client is built per request
}

// NewRankHandler creates a new rank handler
func NewRankHandler(client *data.CoinGeckoClient) *RankHandler {
	return &RankHandler{client: client}
}

// RankCoins handles GET /api/v1/rank
func (h *RankHandler) RankCoins(c *gin.Context) {
	var req models.RankRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	cadenceStr := req.Cadence
	if cadenceStr == "" {
		cadenceStr = string(sim.CadenceMonthly)
	}
	cadence, err := sim.ParseCadence(cadenceStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CADENCE",
				Message: err.Error(),
			},
		})
		return
	}

	if req.Contribution <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONTRIBUTION",
				Message: "contribution must be positive",
			},
		})
		return
	}

	coinIDs := splitCoinIDs(req.CoinIDs)
	if len(coinIDs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "MISSING_PARAM",
				Message: "coin_ids query parameter is required",
			},
		})
		return
	}

	client := h.client
	if client == nil {
		client = data.NewCoinGeckoClient(req.APIKey, "")
	}
	vsCurrency := req.VsCurrency
	if vsCurrency == "" {
		vsCurrency = "usd"
	}

	byCoin := make(map[string]*model.PriceSeries, len(coinIDs))
	for _, coinID := range coinIDs {
		series, err := client.MarketChartByString(c.Request.Context(), coinID, vsCurrency, req.StartDate, req.EndDate)
		if err != nil {
			writeProviderError(c, err)
			return
		}
		byCoin[coinID] = series
	}

	ranked := analysis.RankByReturn(byCoin, decimal.NewFromFloat(req.Contribution), cadence)

	limit := req.Limit
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	rankings := make([]models.Ranking, 0, limit)
	for i, p := range ranked[:limit] {
		rankings = append(rankings, models.Ranking{
			Rank:             i + 1,
			CoinID:           p.CoinID,
			Days:             p.Days,
			Events:           p.Events,
			MinPrice:         p.MinPrice.InexactFloat64(),
			MaxPrice:         p.MaxPrice.InexactFloat64(),
			MeanPrice:        p.MeanPrice.InexactFloat64(),
			LatestPrice:      p.LatestPrice.InexactFloat64(),
			TotalInvested:    p.TotalInvested.InexactFloat64(),
			CurrentValue:     p.CurrentValue.InexactFloat64(),
			ReturnPercentage: p.ReturnPercentage.InexactFloat64(),
		})
	}

	c.JSON(http.StatusOK, models.RankResponse{Rankings: rankings})
}

func splitCoinIDs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
