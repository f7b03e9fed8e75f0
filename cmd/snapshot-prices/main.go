package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"loan-calculator/internal/config"
	"loan-calculator/internal/data"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		outputPath = flag.String("output", "", "Output file path (default: ./data/prices.json)")
		cfgPath    = flag.String("config", "", "Path to YAML config")
		assets     = flag.String("assets", "", "Comma-separated provider asset IDs (default from config)")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *outputPath == "" {
		*outputPath = data.GetDefaultSnapshotPath()
	}
	ids := cfg.MarketData.Assets
	if *assets != "" {
		ids = strings.Split(*assets, ",")
	}

	client := data.NewCoinGeckoClient(cfg.MarketData.BaseURL, cfg.MarketData.APIKey, ids)
	client.VsCurrency = cfg.MarketData.VsCurrency
	client.Client.Timeout = cfg.MarketData.Timeout

	fmt.Printf("Fetching %s prices for: %s\n", client.VsCurrency, strings.Join(client.Assets, ", "))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MarketData.Timeout+time.Second)
	defer cancel()
	markets, err := client.FetchMarkets(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch prices: %v", err)
	}

	snap := &data.Snapshot{
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
		VsCurrency: client.VsCurrency,
		Markets:    markets,
	}
	if err := data.SaveSnapshot(snap, *outputPath); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}

	fmt.Printf("Saved %d prices to %s\n", len(markets), *outputPath)
	for _, m := range markets {
		fmt.Printf("  %-6s $%.2f\n", strings.ToUpper(m.Symbol), m.CurrentPrice)
	}
}
