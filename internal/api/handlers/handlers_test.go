package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-calculator/internal/api/models"
	"loan-calculator/internal/data"
	"loan-calculator/internal/loan"
	"loan-calculator/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]model.MarketPrice, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Save(context.Context, []model.MarketPrice) error {
	return errors.New("connection refused")
}

func defaultInput() model.LoanInput {
	return model.LoanInput{
		Amount:            model.DefaultAmount,
		TermMonths:        model.DefaultTermMonths,
		AnnualRatePercent: 10,
		RepaymentMode:     model.InterestOnly,
	}
}

func newRouter(store data.SnapshotStore) *gin.Engine {
	engine := loan.New()
	quotes := NewQuoteHandler(engine, store, defaultInput(), 3*time.Second)
	compare := NewCompareHandler(engine, store, model.DefaultTermMonths, 3*time.Second)
	prices := NewPricesHandler(store)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/quote", quotes.Quote)
	api.GET("/quote/schedule", quotes.Schedule)
	api.GET("/compare", compare.Compare)
	api.GET("/tiers", ListTiers)
	api.GET("/prices", prices.ListPrices)
	return r
}

func postQuote(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quote", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestQuote_Example(t *testing.T) {
	store := data.NewMemoryStore(0)
	require.NoError(t, store.Save(context.Background(), []model.MarketPrice{
		{Symbol: "btc", UnitPriceUSD: 50000},
	}))
	r := newRouter(store)

	w := postQuote(t, r, `{"amount":"$10,000","term_months":12,"ltv_percent":60,"repayment_mode":"interest_only"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.MarketDataAvailable)
	assert.Equal(t, 10000.0, resp.Input.Amount)
	assert.Equal(t, 10.0, resp.Input.AnnualRatePercent)
	assert.Equal(t, "$83", resp.Result.Display.MonthlyPayment)
	assert.Equal(t, "$10,083", resp.Result.Display.FinalPayment)
	assert.Equal(t, "$11,000", resp.Result.Display.TotalLoanCost)
	assert.Equal(t, "$16,667", resp.Result.Display.CollateralRequired)
	require.Len(t, resp.Result.CollateralInCrypto, 1)
	assert.Equal(t, "BTC", resp.Result.CollateralInCrypto[0].Symbol)
}

func TestQuote_DefaultsAndNumericAmount(t *testing.T) {
	r := newRouter(data.NewMemoryStore(0))

	w := postQuote(t, r, `{"amount":20000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.MarketDataAvailable)
	assert.Equal(t, 20000.0, resp.Input.Amount)
	assert.Equal(t, 12, resp.Input.TermMonths)
	assert.Equal(t, 60, resp.Input.LTVPercent)
	assert.Equal(t, model.InterestOnly, resp.Input.RepaymentMode)
	assert.Empty(t, resp.Result.CollateralInCrypto)
}

func TestQuote_JSONNumberForms(t *testing.T) {
	r := newRouter(nil)

	for body, want := range map[string]float64{
		`{"amount":1e7}`:      10_000_000,
		`{"amount":2.5e6}`:    2_500_000,
		`{"amount":1.25E+4}`:  12_500,
		`{"amount":12500.75}`: 12_500.75,
	} {
		t.Run(body, func(t *testing.T) {
			w := postQuote(t, r, body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp models.QuoteResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, want, resp.Input.Amount)
			assert.False(t, resp.Input.AmountMalformed)
		})
	}
}

func TestQuote_OverflowingAmountIsOutOfRange(t *testing.T) {
	r := newRouter(nil)

	for name, body := range map[string]string{
		"number":        `{"amount":1e400}`,
		"above max":     `{"amount":3e7}`,
		"digits":        `{"amount":"1` + strings.Repeat("0", 400) + `"}`,
		"negative huge": `{"amount":-1e400}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := postQuote(t, r, body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_AMOUNT", resp.Error.Code)
			assert.Equal(t, 3000.0, resp.Error.Details["reset_after_ms"])
		})
	}
}

func TestQuote_EmptyBodyUsesDefaultAmount(t *testing.T) {
	r := newRouter(nil)

	w := postQuote(t, r, `{}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.DefaultAmount, resp.Input.Amount)
}

func TestQuote_OutOfRangeAmount(t *testing.T) {
	r := newRouter(nil)

	w := postQuote(t, r, `{"amount":"4999"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_AMOUNT", resp.Error.Code)
	assert.Equal(t, 5000.0, resp.Error.Details["min"])
	assert.Equal(t, 25000000.0, resp.Error.Details["max"])
	assert.Equal(t, 3000.0, resp.Error.Details["reset_after_ms"])
}

func TestQuote_MalformedAmountIsZero(t *testing.T) {
	r := newRouter(nil)

	w := postQuote(t, r, `{"amount":"abc"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Input.AmountMalformed)
	assert.Equal(t, 0.0, resp.Input.Amount)
	assert.Equal(t, 0.0, resp.Result.TotalLoanCost)
}

func TestQuote_RejectsBadChoices(t *testing.T) {
	r := newRouter(nil)

	for name, body := range map[string]string{
		"tier":       `{"amount":10000,"ltv_percent":55}`,
		"mode":       `{"amount":10000,"repayment_mode":"balloon"}`,
		"term":       `{"amount":10000,"term_months":48}`,
		"not json":   `{"amount":`,
		"bad amount": `{"amount":[1]}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := postQuote(t, r, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
		})
	}
}

func TestQuote_StoreFailureDegrades(t *testing.T) {
	r := newRouter(failingStore{})

	w := postQuote(t, r, `{"amount":10000}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.MarketDataAvailable)
	assert.NotNil(t, resp.Result.CollateralInCrypto)
}

func TestSchedule_Amortized(t *testing.T) {
	r := newRouter(nil)

	w := get(r, "/api/v1/quote/schedule?amount=10000&term_months=12&ltv_percent=60&repayment_mode=principal_and_interest")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 12)
	assert.Equal(t, 879.0, resp.Rows[0].Payment)
	assert.Equal(t, 0.0, resp.Rows[11].Balance)
	assert.Equal(t, "$10,550", resp.TotalPaid)
}

func TestSchedule_InterestOnlyBalloon(t *testing.T) {
	r := newRouter(nil)

	w := get(r, "/api/v1/quote/schedule?amount=10000")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 12)
	assert.Equal(t, 83.0, resp.Rows[0].Payment)
	assert.Equal(t, 10083.0, resp.Rows[11].Payment)
	assert.Equal(t, "$11,000", resp.TotalPaid)
	assert.Equal(t, "$1,000", resp.TotalInterest)
}

func TestCompare_RanksByTotalCost(t *testing.T) {
	r := newRouter(nil)

	w := get(r, "/api/v1/compare?amount=10000&term_months=12")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comparison, 10)
	assert.Equal(t, 1, resp.Comparison[0].Rank)
	assert.Equal(t, 30, resp.Comparison[0].LTVPercent)
	assert.Equal(t, model.PrincipalAndInterest, resp.Comparison[0].RepaymentMode)
	assert.Equal(t, 10, resp.Comparison[9].Rank)
}

func TestCompare_RequiresAmount(t *testing.T) {
	r := newRouter(nil)

	assert.Equal(t, http.StatusBadRequest, get(r, "/api/v1/compare").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, get(r, "/api/v1/compare?amount=30000000").Code)
}

func TestListTiers(t *testing.T) {
	r := newRouter(nil)

	w := get(r, "/api/v1/tiers")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Tiers             []model.LTVTier `json:"tiers"`
		DefaultLTVPercent int             `json:"default_ltv_percent"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.Tiers(), resp.Tiers)
	assert.Equal(t, 60, resp.DefaultLTVPercent)
}

func TestListPrices(t *testing.T) {
	store := data.NewMemoryStore(0)
	r := newRouter(store)

	w := get(r, "/api/v1/prices")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"available":false,"prices":[]}`, w.Body.String())

	require.NoError(t, store.Save(context.Background(), []model.MarketPrice{{Symbol: "eth", UnitPriceUSD: 2500}}))
	w = get(r, "/api/v1/prices")
	var resp models.PricesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Available)
	assert.Equal(t, []model.MarketPrice{{Symbol: "eth", UnitPriceUSD: 2500}}, resp.Prices)
}
