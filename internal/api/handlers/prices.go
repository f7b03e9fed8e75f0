package handlers

import (
	"net/http"

	"loan-calculator/internal/api/models"
	"loan-calculator/internal/data"
	"loan-calculator/internal/model"

	"github.com/gin-gonic/gin"
)

// PricesHandler exposes the market-price snapshot the quotes are priced with
type PricesHandler struct {
	store data.SnapshotStore
}

func NewPricesHandler(store data.SnapshotStore) *PricesHandler {
	return &PricesHandler{store: store}
}

// ListPrices handles GET /api/v1/prices
func (h *PricesHandler) ListPrices(c *gin.Context) {
	prices, available := loadPrices(c.Request.Context(), h.store)
	if prices == nil {
		prices = []model.MarketPrice{}
	}
	c.JSON(http.StatusOK, models.PricesResponse{
		Available: available,
		Prices:    prices,
	})
}
