package model

import (
	"errors"
	"fmt"
	"math"
)

// Term limits in months.
const (
	MinTermMonths     = 3
	MaxTermMonths     = 36
	DefaultTermMonths = 12
)

// DefaultAmount is the loan amount a blank form starts from.
const DefaultAmount = 5000.0

// LoanInput is the full set of user choices the engine consumes.
// It is a plain value: callers build a fresh one on every change.
type LoanInput struct {
	Amount            float64       `json:"amount"`
	TermMonths        int           `json:"term_months"`
	AnnualRatePercent float64       `json:"annual_rate_percent"`
	RepaymentMode     RepaymentMode `json:"repayment_mode"`
}

// Validate checks everything except the amount range, which is handled by the
// input gate because an out-of-range amount has its own recovery policy.
func (in LoanInput) Validate() error {
	if in.TermMonths < MinTermMonths || in.TermMonths > MaxTermMonths {
		return fmt.Errorf("term_months must be in [%d, %d], got %d", MinTermMonths, MaxTermMonths, in.TermMonths)
	}
	if math.IsNaN(in.AnnualRatePercent) || math.IsInf(in.AnnualRatePercent, 0) || in.AnnualRatePercent < 0 {
		return errors.New("annual_rate_percent must be a finite value >= 0")
	}
	if !in.RepaymentMode.Valid() {
		return fmt.Errorf("unsupported repayment mode: %q", in.RepaymentMode)
	}
	return nil
}

// CryptoAmount is the collateral expressed in one asset.
type CryptoAmount struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
}

// LoanResult is derived from a LoanInput and a price list. Numeric fields keep
// full precision; Display carries the values rounded and formatted once.
type LoanResult struct {
	Mode RepaymentMode `json:"repayment_mode"`

	MonthlyPayment float64 `json:"monthly_payment"`
	// InstallmentCount is the number of regular MonthlyPayment installments.
	// Interest-only loans have TermMonths-1 of them plus the final payment.
	InstallmentCount int `json:"installment_count"`
	// FinalPayment is only set for interest-only loans.
	FinalPayment float64 `json:"final_payment,omitempty"`

	TotalLoanCost      float64        `json:"total_loan_cost"`
	TotalInterest      float64        `json:"total_interest"`
	CollateralRequired float64        `json:"collateral_required"`
	CollateralInCrypto []CryptoAmount `json:"collateral_in_crypto"`
	StakeTokenAmount   float64        `json:"stake_token_amount"`

	Display Display `json:"display"`
}

// Display is the pre-rendered view of a LoanResult.
type Display struct {
	MonthlyPayment     string          `json:"monthly_payment"`
	MonthlyLabel       string          `json:"monthly_label"`
	FinalPayment       string          `json:"final_payment,omitempty"`
	LoanAmount         string          `json:"loan_amount"`
	InterestRate       string          `json:"interest_rate"`
	TotalLoanCost      string          `json:"total_loan_cost"`
	TotalInterest      string          `json:"total_interest"`
	CollateralRequired string          `json:"collateral_required"`
	CollateralInCrypto []DisplayAmount `json:"collateral_in_crypto"`
	StakeTokenAmount   string          `json:"stake_token_amount"`
}

type DisplayAmount struct {
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
}
