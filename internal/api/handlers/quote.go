package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"loan-calculator/internal/api/models"
	"loan-calculator/internal/data"
	"loan-calculator/internal/loan"
	"loan-calculator/internal/model"

	"github.com/gin-gonic/gin"
)

const storeTimeout = 2 * time.Second

// QuoteHandler handles quote-related requests
type QuoteHandler struct {
	engine     *loan.Engine
	store      data.SnapshotStore
	defaults   model.LoanInput
	resetDelay time.Duration
}

// NewQuoteHandler creates a new quote handler. defaults fill in whatever a
// request leaves out.
func NewQuoteHandler(engine *loan.Engine, store data.SnapshotStore, defaults model.LoanInput, resetDelay time.Duration) *QuoteHandler {
	return &QuoteHandler{
		engine:     engine,
		store:      store,
		defaults:   defaults,
		resetDelay: resetDelay,
	}
}

// Quote handles POST /api/v1/quote
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	in, echo, ok := h.resolve(c, req)
	if !ok {
		return
	}

	prices, available := loadPrices(c.Request.Context(), h.store)
	result, err := h.engine.Compute(in, prices)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	c.JSON(http.StatusOK, models.QuoteResponse{
		Input:               echo,
		Result:              result,
		MarketDataAvailable: available,
	})
}

// Schedule handles GET /api/v1/quote/schedule
func (h *QuoteHandler) Schedule(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	in, echo, ok := h.resolve(c, req)
	if !ok {
		return
	}

	installments, err := h.engine.Schedule(in)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	summary := loan.Summarize(in.RepaymentMode, installments)
	rows := make([]models.ScheduleRow, len(summary.Rows))
	for i, r := range summary.Rows {
		rows[i] = models.ScheduleRow{
			Period:    r.Period,
			Payment:   r.Payment,
			Interest:  r.Interest,
			Principal: r.Principal,
			Balance:   r.Balance,
		}
	}

	c.JSON(http.StatusOK, models.ScheduleResponse{
		Input:         echo,
		Rows:          rows,
		TotalPaid:     loan.FormatMoney(summary.TotalPaid),
		TotalInterest: loan.FormatMoney(summary.TotalInterest),
	})
}

// resolve merges req over the defaults and validates the result. On failure it
// has already written the error response.
func (h *QuoteHandler) resolve(c *gin.Context, req models.QuoteRequest) (model.LoanInput, models.QuoteInput, bool) {
	in := h.defaults
	var echo models.QuoteInput

	if raw := strings.TrimSpace(string(req.Amount)); raw != "" {
		amount, err := loan.ResolveAmount(raw)
		if err != nil {
			writeAmountError(c, err, h.resetDelay)
			return in, echo, false
		}
		if _, perr := loan.ParseAmount(raw); perr != nil {
			echo.AmountMalformed = true
		}
		in.Amount = amount
	}

	if req.TermMonths != 0 {
		in.TermMonths = req.TermMonths
	}

	tier, err := model.TierByRate(in.AnnualRatePercent)
	if req.LTVPercent != 0 {
		tier, err = model.TierByPercent(req.LTVPercent)
	}
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return in, echo, false
	}
	in.AnnualRatePercent = tier.AnnualRatePercent

	if req.RepaymentMode != "" {
		mode, err := model.ParseRepaymentMode(req.RepaymentMode)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return in, echo, false
		}
		in.RepaymentMode = mode
	}

	if err := in.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return in, echo, false
	}

	echo.Amount = in.Amount
	echo.TermMonths = in.TermMonths
	echo.LTVPercent = tier.Percent
	echo.AnnualRatePercent = tier.AnnualRatePercent
	echo.RepaymentMode = in.RepaymentMode
	return in, echo, true
}

// writeAmountError tells the client to reset the form after resetDelay.
func writeAmountError(c *gin.Context, err error, resetDelay time.Duration) {
	var amountErr *loan.AmountError
	if !errors.As(err, &amountErr) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}
	details := map[string]interface{}{
		"min":            amountErr.Min,
		"max":            amountErr.Max,
		"reset_after_ms": resetDelay.Milliseconds(),
	}
	// JSON has no infinity.
	if !math.IsInf(amountErr.Amount, 0) {
		details["amount"] = amountErr.Amount
	}
	writeError(c, http.StatusUnprocessableEntity, "INVALID_AMOUNT", err.Error(), details)
}

// loadPrices returns the current snapshot, or nothing while it is unavailable.
func loadPrices(ctx context.Context, store data.SnapshotStore) ([]model.MarketPrice, bool) {
	if store == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	prices, ok, err := store.Load(ctx)
	if err != nil {
		log.Printf("[API] Failed to load market prices: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return prices, true
}

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
