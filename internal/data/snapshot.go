package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"loan-calculator/internal/model"
)

// Snapshot is the on-disk form of one market-data fetch.
type Snapshot struct {
	UpdatedAt  string             `json:"updated_at"` // ISO 8601 timestamp
	VsCurrency string             `json:"vs_currency"`
	Markets    []model.CoinMarket `json:"markets"`
}

// Prices returns the snapshot in the form the engine consumes.
func (s *Snapshot) Prices() []model.MarketPrice {
	if s == nil {
		return nil
	}
	return model.ToMarketPrices(s.Markets)
}

// LoadSnapshot reads a snapshot file. A bare JSON array in the provider's
// response shape is accepted too.
func LoadSnapshot(filePath string) (*Snapshot, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		var markets []model.CoinMarket
		if arrErr := json.Unmarshal(raw, &markets); arrErr != nil {
			return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
		}
		snap = Snapshot{VsCurrency: "usd", Markets: markets}
	}

	return &snap, nil
}

// SaveSnapshot writes snap as indented JSON, creating the directory if needed.
func SaveSnapshot(snap *Snapshot, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	return nil
}

// GetDefaultSnapshotPath returns the default path for the snapshot file.
func GetDefaultSnapshotPath() string {
	if path := os.Getenv("PRICES_FILE"); path != "" {
		return path
	}
	return "./data/prices.json"
}
