package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// AmountText is the loan amount exactly as the user typed it. It decodes from
// either a JSON string ("$12,500") or a JSON number (12500).
type AmountText string

func (a *AmountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Float64()
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return err
	}
	*a = AmountText(numberText(v))
	return nil
}

// numberText spells v in plain decimal digits. Exponents would not survive
// the amount parser, and infinities become digit strings that overflow again.
func numberText(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return strings.Repeat("9", 400)
	case math.IsInf(v, -1):
		return "-" + strings.Repeat("9", 400)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// QuoteRequest represents the request body for computing a quote.
// Zero values fall back to the configured defaults.
type QuoteRequest struct {
	Amount        AmountText `json:"amount" form:"amount"`
	TermMonths    int        `json:"term_months,omitempty" form:"term_months" binding:"omitempty,min=3,max=36"`
	LTVPercent    int        `json:"ltv_percent,omitempty" form:"ltv_percent"`
	RepaymentMode string     `json:"repayment_mode,omitempty" form:"repayment_mode"`
}

// CompareRequest represents the query string of a tier comparison.
type CompareRequest struct {
	Amount     string `form:"amount" binding:"required"`
	TermMonths int    `form:"term_months" binding:"omitempty,min=3,max=36"`
}
