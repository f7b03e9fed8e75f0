package models

import "loan-calculator/internal/model"

// QuoteInput echoes the input the quote was computed from, after defaults.
type QuoteInput struct {
	Amount            float64             `json:"amount"`
	AmountMalformed   bool                `json:"amount_malformed,omitempty"`
	TermMonths        int                 `json:"term_months"`
	LTVPercent        int                 `json:"ltv_percent"`
	AnnualRatePercent float64             `json:"annual_rate_percent"`
	RepaymentMode     model.RepaymentMode `json:"repayment_mode"`
}

// QuoteResponse represents the response from a quote computation
type QuoteResponse struct {
	Input               QuoteInput       `json:"input"`
	Result              model.LoanResult `json:"result"`
	MarketDataAvailable bool             `json:"market_data_available"`
}

// ScheduleResponse contains the month-by-month payments of a quote
type ScheduleResponse struct {
	Input         QuoteInput    `json:"input"`
	Rows          []ScheduleRow `json:"rows"`
	TotalPaid     string        `json:"total_paid"`
	TotalInterest string        `json:"total_interest"`
}

// ScheduleRow represents one installment
type ScheduleRow struct {
	Period    int     `json:"period"`
	Payment   float64 `json:"payment"`
	Interest  float64 `json:"interest"`
	Principal float64 `json:"principal"`
	Balance   float64 `json:"balance"`
}

// CompareResponse represents the response from comparing tiers
type CompareResponse struct {
	Amount     float64            `json:"amount"`
	TermMonths int                `json:"term_months"`
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one tier and repayment mode
type ComparisonResult struct {
	Rank               int                 `json:"rank"`
	LTVPercent         int                 `json:"ltv_percent"`
	AnnualRatePercent  float64             `json:"annual_rate_percent"`
	RepaymentMode      model.RepaymentMode `json:"repayment_mode"`
	MonthlyPayment     string              `json:"monthly_payment"`
	FinalPayment       string              `json:"final_payment,omitempty"`
	TotalLoanCost      string              `json:"total_loan_cost"`
	TotalInterest      string              `json:"total_interest"`
	CollateralRequired string              `json:"collateral_required"`
}

// PricesResponse represents the current market-price snapshot
type PricesResponse struct {
	Available bool                `json:"available"`
	Prices    []model.MarketPrice `json:"prices"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
