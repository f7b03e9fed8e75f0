package handlers

import (
	"net/http"

	"loan-calculator/internal/model"

	"github.com/gin-gonic/gin"
)

// ListTiers handles GET /api/v1/tiers
func ListTiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tiers":               model.Tiers(),
		"default_ltv_percent": model.DefaultLTVPercent,
	})
}
