package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-dca/internal/api/models"
	"coin-dca/internal/data"
)

// CoinHandler handles coin catalog requests
type CoinHandler struct {
	coinsPath string
}

// NewCoinHandler creates a new coin handler
func NewCoinHandler() *CoinHandler {
	path := data.GetDefaultCoinsPath()
	log.Printf("CoinHandler: Using coins file: %s", path)
	return &CoinHandler{coinsPath: path}
}

// ListCoins handles GET /api/v1/coins. Falls back to the built-in catalog
// when no coins file has been generated (see cmd/update-coins).
func (h *CoinHandler) ListCoins(c *gin.Context) {
	coins := data.DefaultCoins()
	updatedAt := ""

	if list, err := data.LoadCoins(h.coinsPath); err == nil && len(list.Coins) > 0 {
		coins = list.Coins
		updatedAt = list.UpdatedAt
	} else if err != nil {
		log.Printf("CoinHandler: Falling back to built-in catalog: %v", err)
	}

	out := make([]models.CoinInfo, 0, len(coins))
	for _, coin := range coins {
		out = append(out, models.CoinInfo{
			ID:            coin.ID,
			Symbol:        coin.Symbol,
			Name:          coin.Name,
			MarketCapRank: coin.MarketCapRank,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"coins":      out,
		"updated_at": updatedAt,
	})
}
