package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coin-dca/internal/api/models"
)

// CadenceHandler handles cadence-related requests
type CadenceHandler struct{}

// NewCadenceHandler creates a new cadence handler
func NewCadenceHandler() *CadenceHandler {
	return &CadenceHandler{}
}

// ListCadences handles GET /api/v1/cadences
func (h *CadenceHandler) ListCadences(c *gin.Context) {
	cadences := []models.CadenceInfo{
		{
			Name:        "daily",
			Description: "One contribution every calendar day.",
			StepDays:    "1",
		},
		{
			Name:        "weekly",
			Description: "One contribution every 7 calendar days.",
			StepDays:    "7",
		},
		{
			Name:        "biweekly",
			Description: "One contribution every 14 calendar days.",
			StepDays:    "14",
		},
		{
			Name:        "monthly",
			Description: "One contribution per calendar month on the start date's day-of-month, clamped to the last day of shorter months.",
			StepDays:    "28-31",
		},
	}

	c.JSON(http.StatusOK, gin.H{"cadences": cadences})
}
