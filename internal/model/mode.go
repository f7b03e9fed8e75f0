package model

import (
	"fmt"
	"strings"
)

// RepaymentMode selects how a loan is paid back.
// Keep these values stable; they are part of the API and CSV output.
type RepaymentMode string

const (
	// InterestOnly pays interest each month and returns the principal in a final balloon payment.
	InterestOnly RepaymentMode = "interest_only"
	// PrincipalAndInterest pays a fixed amortized installment every month.
	PrincipalAndInterest RepaymentMode = "principal_and_interest"
)

// DefaultRepaymentMode matches the widget's initial selection.
const DefaultRepaymentMode = InterestOnly

func (m RepaymentMode) Valid() bool {
	switch m {
	case InterestOnly, PrincipalAndInterest:
		return true
	default:
		return false
	}
}

// Label is the human-facing name of the mode.
func (m RepaymentMode) Label() string {
	switch m {
	case InterestOnly:
		return "Interest Only"
	case PrincipalAndInterest:
		return "Principal & Interest"
	default:
		return string(m)
	}
}

// ParseRepaymentMode accepts the canonical values plus the spellings used by
// older clients ("interestOnly", "interestPlusPrincipal", "amortized", ...).
// An empty string yields DefaultRepaymentMode.
func ParseRepaymentMode(s string) (RepaymentMode, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "", "&", "and").Replace(norm)
	switch norm {
	case "":
		return DefaultRepaymentMode, nil
	case "interestonly", "io":
		return InterestOnly, nil
	case "principalandinterest", "interestplusprincipal", "principalinterest", "amortized", "pi":
		return PrincipalAndInterest, nil
	default:
		return "", fmt.Errorf("unsupported repayment mode: %q", s)
	}
}
