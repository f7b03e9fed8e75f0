// Package analysis compares quotes across the choices a borrower can make.
package analysis

import (
	"sort"

	"loan-calculator/internal/loan"
	"loan-calculator/internal/model"
)

// TierQuote is the quote for one LTV tier and repayment mode.
type TierQuote struct {
	Tier   model.LTVTier
	Mode   model.RepaymentMode
	Result model.LoanResult
}

var modes = []model.RepaymentMode{model.InterestOnly, model.PrincipalAndInterest}

// CompareTiers quotes amount over termMonths for every tier and repayment mode
// and sorts the quotes by total loan cost, cheapest first. Ties keep tier order.
func CompareTiers(engine *loan.Engine, amount float64, termMonths int, prices []model.MarketPrice) ([]TierQuote, error) {
	tiers := model.Tiers()
	out := make([]TierQuote, 0, len(tiers)*len(modes))
	for _, tier := range tiers {
		for _, mode := range modes {
			res, err := engine.Compute(model.LoanInput{
				Amount:            amount,
				TermMonths:        termMonths,
				AnnualRatePercent: tier.AnnualRatePercent,
				RepaymentMode:     mode,
			}, prices)
			if err != nil {
				return nil, err
			}
			out = append(out, TierQuote{Tier: tier, Mode: mode, Result: res})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.TotalLoanCost < out[j].Result.TotalLoanCost
	})
	return out, nil
}
