// Package repayment holds the two payment models a loan can use.
package repayment

import (
	"fmt"

	"loan-calculator/internal/model"
)

// Terms are the inputs every repayment model needs.
type Terms struct {
	Amount            float64
	AnnualRatePercent float64
	TermMonths        int
}

// Plan is the unrounded outcome of a repayment model.
type Plan struct {
	MonthlyPayment float64
	Installments   int
	// FinalPayment is zero unless HasFinalPayment is set.
	FinalPayment    float64
	HasFinalPayment bool
	TotalLoanCost   float64
	TotalInterest   float64
}

// Installment is one row of a payment schedule.
type Installment struct {
	Period    int
	Payment   float64
	Interest  float64
	Principal float64
	// Balance is the principal still owed after this payment.
	Balance float64
}

type Method interface {
	Mode() model.RepaymentMode
	Plan(t Terms) Plan
	Schedule(t Terms) []Installment
}

// ForMode returns the model implementing mode.
func ForMode(mode model.RepaymentMode) (Method, error) {
	switch mode {
	case model.InterestOnly:
		return InterestOnlyMethod{}, nil
	case model.PrincipalAndInterest:
		return AmortizedMethod{}, nil
	default:
		return nil, fmt.Errorf("unsupported repayment mode: %q", mode)
	}
}

// MonthlyRate converts percent-per-year into fraction-per-month.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / 1200
}
