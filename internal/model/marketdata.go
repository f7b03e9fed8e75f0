package model

// CoinMarket matches one element of the provider's /coins/markets response.
//
// Example:
//
//	[
//	  {"id": "bitcoin", "symbol": "btc", "name": "Bitcoin", "current_price": 50000, "image": "https://..."}
//	]
type CoinMarket struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	Image        string  `json:"image"`
}

// MarketPrice is the only part of a CoinMarket the engine consumes.
// Values are snapshots and are never mutated after construction.
type MarketPrice struct {
	Symbol       string  `json:"symbol"`
	UnitPriceUSD float64 `json:"unit_price_usd"`
}

// ToMarketPrices keeps provider order.
func ToMarketPrices(markets []CoinMarket) []MarketPrice {
	out := make([]MarketPrice, 0, len(markets))
	for _, m := range markets {
		out = append(out, MarketPrice{Symbol: m.Symbol, UnitPriceUSD: m.CurrentPrice})
	}
	return out
}
