package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"loan-calculator/internal/model"
)

// DefaultBaseURL is the public CoinGecko API.
const DefaultBaseURL = "https://api.coingecko.com"

// DefaultAssets is the fixed set of coins collateral is quoted in, by CoinGecko id.
var DefaultAssets = []string{"bitcoin", "ethereum", "tether", "binancecoin", "solana"}

// ErrMarketDataUnavailable is returned when the provider answered with no usable prices.
var ErrMarketDataUnavailable = errors.New("market data unavailable")

// PriceSource is anything that can produce a price snapshot.
type PriceSource interface {
	FetchPrices(ctx context.Context) ([]model.MarketPrice, error)
}

// CoinGeckoClient fetches spot prices from the CoinGecko /coins/markets endpoint.
type CoinGeckoClient struct {
	APIKey     string
	BaseURL    string
	VsCurrency string
	Assets     []string
	Client     *http.Client
}

// NewCoinGeckoClient creates a client for assets.
// An empty baseURL defaults to DefaultBaseURL and empty assets to DefaultAssets.
func NewCoinGeckoClient(baseURL, apiKey string, assets []string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if len(assets) == 0 {
		assets = DefaultAssets
	}
	return &CoinGeckoClient{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		VsCurrency: "usd",
		Assets:     assets,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// MarketDataError represents a non-200 answer from the provider.
type MarketDataError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter string // For rate limit errors
}

func (e *MarketDataError) Error() string {
	return e.Message
}

// FetchMarkets returns the provider rows for c.Assets in the order the
// provider sent them. Rows with a non-positive price are dropped.
func (c *CoinGeckoClient) FetchMarkets(ctx context.Context) ([]model.CoinMarket, error) {
	u, err := url.Parse(c.BaseURL + "/api/v3/coins/markets")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("vs_currency", c.VsCurrency)
	q.Set("ids", strings.Join(c.Assets, ","))
	u.RawQuery = q.Encode()

	log.Printf("[MarketData] Request: GET %s (ids=%s, vs_currency=%s)", u.Path, q.Get("ids"), c.VsCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.APIKey)
	}

	start := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Printf("[MarketData] Request failed: %v (duration: %v)", err, duration)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("[MarketData] Response: %s (duration: %v)", resp.Status, duration)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return nil, &MarketDataError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &MarketDataError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "Market data provider rejected the API key",
		}
	default:
		return nil, &MarketDataError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var rows []model.CoinMarket
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		log.Printf("[MarketData] Error decoding response: %v", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	markets := make([]model.CoinMarket, 0, len(rows))
	for _, r := range rows {
		if r.CurrentPrice <= 0 {
			log.Printf("[MarketData] Warning: dropping %s with non-positive price %v", r.Symbol, r.CurrentPrice)
			continue
		}
		markets = append(markets, r)
	}
	if len(markets) == 0 {
		return nil, ErrMarketDataUnavailable
	}

	log.Printf("[MarketData] Success: Received %d prices", len(markets))
	return markets, nil
}

// FetchPrices is FetchMarkets reduced to symbol and price.
func (c *CoinGeckoClient) FetchPrices(ctx context.Context) ([]model.MarketPrice, error) {
	markets, err := c.FetchMarkets(ctx)
	if err != nil {
		return nil, err
	}
	return model.ToMarketPrices(markets), nil
}
