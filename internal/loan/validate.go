package loan

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Accepted loan amount range in USD, inclusive.
const (
	MinAmount = 5000.0
	MaxAmount = 25_000_000.0
)

var (
	// ErrInvalidAmount marks an amount outside [MinAmount, MaxAmount].
	ErrInvalidAmount = errors.New("invalid loan amount")
	// ErrMalformedAmount marks input with no parsable number in it.
	ErrMalformedAmount = errors.New("malformed loan amount")
)

// AmountError carries the rejected amount alongside ErrInvalidAmount.
type AmountError struct {
	Amount float64
	Min    float64
	Max    float64
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("loan amount %s is outside the allowed range %s - %s",
		strconv.FormatFloat(e.Amount, 'f', -1, 64), FormatMoney(e.Min), FormatMoney(e.Max))
}

func (e *AmountError) Unwrap() error { return ErrInvalidAmount }

// ParseAmount keeps digits, a single leading minus and the first decimal
// point, then parses what is left. "$12,500.50" becomes 12500.5.
func ParseAmount(raw string) (float64, error) {
	var b strings.Builder
	seenDot := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	s := b.String()
	if s == "" || s == "-" || s == "." || s == "-." {
		return 0, ErrMalformedAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Too many digits: ±Inf, left for the range check to reject.
		return v, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedAmount, err)
	}
	return v, nil
}

func ValidateAmount(amount float64) error {
	if amount < MinAmount || amount > MaxAmount {
		return &AmountError{Amount: amount, Min: MinAmount, Max: MaxAmount}
	}
	return nil
}

// ResolveAmount parses and range-checks raw user text. Malformed text is
// treated as 0 without an error until the user types something parsable.
func ResolveAmount(raw string) (float64, error) {
	v, err := ParseAmount(raw)
	if err != nil {
		return 0, nil
	}
	if err := ValidateAmount(v); err != nil {
		return v, err
	}
	return v, nil
}
