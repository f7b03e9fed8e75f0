package repayment

import (
	"math"

	"loan-calculator/internal/model"
)

// Amortized computes the fixed installment that retires principal and interest
// over termMonths:
//
//	M = P*r / (1 - (1+r)^-n)
//
// A zero rate makes the formula 0/0, so it falls back to flat amortization P/n.
func Amortized(amount, annualRatePercent float64, termMonths int) Plan {
	r := MonthlyRate(annualRatePercent)
	n := float64(termMonths)

	var m float64
	if r == 0 {
		m = amount / n
	} else {
		m = amount * r / (1 - math.Pow(1+r, -n))
	}

	total := m * n
	return Plan{
		MonthlyPayment: m,
		Installments:   termMonths,
		TotalLoanCost:  total,
		TotalInterest:  total - amount,
	}
}

type AmortizedMethod struct{}

func (AmortizedMethod) Mode() model.RepaymentMode { return model.PrincipalAndInterest }

func (AmortizedMethod) Plan(t Terms) Plan {
	return Amortized(t.Amount, t.AnnualRatePercent, t.TermMonths)
}

// Schedule splits each installment into interest on the running balance and
// principal. The last row takes whatever principal is left so the balance
// closes at exactly zero.
func (a AmortizedMethod) Schedule(t Terms) []Installment {
	if t.TermMonths < 1 {
		return nil
	}
	p := a.Plan(t)
	r := MonthlyRate(t.AnnualRatePercent)

	rows := make([]Installment, 0, t.TermMonths)
	balance := t.Amount
	for period := 1; period <= t.TermMonths; period++ {
		interest := balance * r
		principal := p.MonthlyPayment - interest
		if period == t.TermMonths {
			principal = balance
		}
		balance -= principal
		rows = append(rows, Installment{
			Period:    period,
			Payment:   interest + principal,
			Interest:  interest,
			Principal: principal,
			Balance:   balance,
		})
	}
	return rows
}
