// Package loan turns loan choices and market prices into display-ready figures.
package loan

import (
	"fmt"
	"strings"

	"loan-calculator/internal/model"
	"loan-calculator/internal/repayment"
)

// StakeRatio converts a loan amount into stake tokens.
const StakeRatio = 0.0981522

// Engine is stateless; the zero value is ready to use.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Compute derives every figure for in. Prices may be empty (market data not
// loaded yet); the crypto list is then empty and everything else still holds.
func (e *Engine) Compute(in model.LoanInput, prices []model.MarketPrice) (model.LoanResult, error) {
	method, err := repayment.ForMode(in.RepaymentMode)
	if err != nil {
		return model.LoanResult{}, err
	}
	if in.TermMonths < 1 {
		return model.LoanResult{}, fmt.Errorf("term_months must be >= 1, got %d", in.TermMonths)
	}

	plan := method.Plan(terms(in))
	collateral := ComputeCollateral(in.Amount)

	res := model.LoanResult{
		Mode:               in.RepaymentMode,
		MonthlyPayment:     plan.MonthlyPayment,
		InstallmentCount:   plan.Installments,
		TotalLoanCost:      plan.TotalLoanCost,
		TotalInterest:      plan.TotalInterest,
		CollateralRequired: collateral,
		CollateralInCrypto: ComputeCollateralInCrypto(collateral, prices),
		StakeTokenAmount:   ComputeStakeAmount(in.Amount),
	}
	if plan.HasFinalPayment {
		res.FinalPayment = plan.FinalPayment
	}
	res.Display = render(in, res, plan.HasFinalPayment)
	return res, nil
}

// Schedule returns the month-by-month payments for in.
func (e *Engine) Schedule(in model.LoanInput) ([]repayment.Installment, error) {
	method, err := repayment.ForMode(in.RepaymentMode)
	if err != nil {
		return nil, err
	}
	if in.TermMonths < 1 {
		return nil, fmt.Errorf("term_months must be >= 1, got %d", in.TermMonths)
	}
	return method.Schedule(terms(in)), nil
}

// ComputeCollateral applies the fixed 5/3 over-collateralization. It does not
// depend on the selected LTV tier.
func ComputeCollateral(amount float64) float64 {
	return (2.0/3.0)*amount + amount
}

// ComputeCollateralInCrypto keeps the order of prices. Non-positive prices are
// not filtered here; the resulting Inf/NaN quantities pass through.
func ComputeCollateralInCrypto(collateral float64, prices []model.MarketPrice) []model.CryptoAmount {
	out := make([]model.CryptoAmount, 0, len(prices))
	for _, p := range prices {
		out = append(out, model.CryptoAmount{
			Symbol:   strings.ToUpper(p.Symbol),
			Quantity: collateral / p.UnitPriceUSD,
		})
	}
	return out
}

func ComputeStakeAmount(amount float64) float64 {
	return amount * StakeRatio
}

func terms(in model.LoanInput) repayment.Terms {
	return repayment.Terms{
		Amount:            in.Amount,
		AnnualRatePercent: in.AnnualRatePercent,
		TermMonths:        in.TermMonths,
	}
}

func render(in model.LoanInput, res model.LoanResult, hasFinal bool) model.Display {
	d := model.Display{
		MonthlyPayment:     FormatMoney(res.MonthlyPayment),
		MonthlyLabel:       fmt.Sprintf("Monthly Payment (%d Months)", res.InstallmentCount),
		LoanAmount:         FormatMoney(in.Amount),
		InterestRate:       FormatRate(in.AnnualRatePercent),
		TotalLoanCost:      FormatMoney(res.TotalLoanCost),
		TotalInterest:      FormatMoney(res.TotalInterest),
		CollateralRequired: FormatMoney(res.CollateralRequired),
		CollateralInCrypto: make([]model.DisplayAmount, 0, len(res.CollateralInCrypto)),
		StakeTokenAmount:   FormatGrouped(res.StakeTokenAmount),
	}
	if hasFinal {
		d.FinalPayment = FormatMoney(res.FinalPayment)
	}
	for _, c := range res.CollateralInCrypto {
		d.CollateralInCrypto = append(d.CollateralInCrypto, model.DisplayAmount{
			Symbol:   c.Symbol,
			Quantity: FormatQuantity(c.Quantity),
		})
	}
	return d
}
