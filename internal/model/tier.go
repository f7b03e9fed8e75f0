package model

import "fmt"

// LTVTier maps a loan-to-value selection to the flat annual rate charged for it.
type LTVTier struct {
	Percent           int     `json:"ltv_percent"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Label             string  `json:"label"`
}

// DefaultLTVPercent is the tier selected before the user picks one.
const DefaultLTVPercent = 60

var tiers = []LTVTier{
	{Percent: 30, AnnualRatePercent: 7, Label: "30%"},
	{Percent: 40, AnnualRatePercent: 8, Label: "40%"},
	{Percent: 50, AnnualRatePercent: 9, Label: "50%"},
	{Percent: 60, AnnualRatePercent: 10, Label: "60%"},
	{Percent: 70, AnnualRatePercent: 11, Label: "70%"},
}

// Tiers returns a copy of the tier table in ascending LTV order.
func Tiers() []LTVTier {
	out := make([]LTVTier, len(tiers))
	copy(out, tiers)
	return out
}

func TierByPercent(percent int) (LTVTier, error) {
	for _, t := range tiers {
		if t.Percent == percent {
			return t, nil
		}
	}
	return LTVTier{}, fmt.Errorf("unsupported LTV tier: %d%%", percent)
}

func TierByRate(annualRatePercent float64) (LTVTier, error) {
	for _, t := range tiers {
		if t.AnnualRatePercent == annualRatePercent {
			return t, nil
		}
	}
	return LTVTier{}, fmt.Errorf("no LTV tier charges %.2f%%", annualRatePercent)
}
