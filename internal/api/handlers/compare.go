package handlers

import (
	"net/http"
	"time"

	"loan-calculator/internal/analysis"
	"loan-calculator/internal/api/models"
	"loan-calculator/internal/data"
	"loan-calculator/internal/loan"
	"loan-calculator/internal/model"

	"github.com/gin-gonic/gin"
)

// CompareHandler quotes one amount across every tier and repayment mode
type CompareHandler struct {
	engine      *loan.Engine
	store       data.SnapshotStore
	defaultTerm int
	resetDelay  time.Duration
}

func NewCompareHandler(engine *loan.Engine, store data.SnapshotStore, defaultTerm int, resetDelay time.Duration) *CompareHandler {
	if defaultTerm == 0 {
		defaultTerm = model.DefaultTermMonths
	}
	return &CompareHandler{
		engine:      engine,
		store:       store,
		defaultTerm: defaultTerm,
		resetDelay:  resetDelay,
	}
}

// Compare handles GET /api/v1/compare
func (h *CompareHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	amount, err := loan.ResolveAmount(req.Amount)
	if err != nil {
		writeAmountError(c, err, h.resetDelay)
		return
	}
	term := req.TermMonths
	if term == 0 {
		term = h.defaultTerm
	}

	prices, _ := loadPrices(c.Request.Context(), h.store)
	quotes, err := analysis.CompareTiers(h.engine, amount, term, prices)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	results := make([]models.ComparisonResult, len(quotes))
	for i, q := range quotes {
		d := q.Result.Display
		results[i] = models.ComparisonResult{
			Rank:               i + 1,
			LTVPercent:         q.Tier.Percent,
			AnnualRatePercent:  q.Tier.AnnualRatePercent,
			RepaymentMode:      q.Mode,
			MonthlyPayment:     d.MonthlyPayment,
			FinalPayment:       d.FinalPayment,
			TotalLoanCost:      d.TotalLoanCost,
			TotalInterest:      d.TotalInterest,
			CollateralRequired: d.CollateralRequired,
		}
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Amount:     amount,
		TermMonths: term,
		Comparison: results,
	})
}
