package repayment

import "loan-calculator/internal/model"

// InterestOnly charges simple interest over the whole term. The borrower pays
// TotalInterest/n for n-1 months; the final payment returns the principal plus
// the last share of interest.
//
// FinalPayment is the remainder of TotalLoanCost after the regular installments.
func InterestOnly(amount, annualRatePercent float64, termMonths int) Plan {
	r := MonthlyRate(annualRatePercent)
	n := float64(termMonths)

	interest := amount * r * n
	total := amount + interest
	monthly := interest / n

	return Plan{
		MonthlyPayment:  monthly,
		Installments:    termMonths - 1,
		FinalPayment:    total - monthly*(n-1),
		HasFinalPayment: true,
		TotalLoanCost:   total,
		TotalInterest:   interest,
	}
}

type InterestOnlyMethod struct{}

func (InterestOnlyMethod) Mode() model.RepaymentMode { return model.InterestOnly }

func (InterestOnlyMethod) Plan(t Terms) Plan {
	return InterestOnly(t.Amount, t.AnnualRatePercent, t.TermMonths)
}

func (m InterestOnlyMethod) Schedule(t Terms) []Installment {
	if t.TermMonths < 1 {
		return nil
	}
	p := m.Plan(t)

	rows := make([]Installment, 0, t.TermMonths)
	for period := 1; period < t.TermMonths; period++ {
		rows = append(rows, Installment{
			Period:   period,
			Payment:  p.MonthlyPayment,
			Interest: p.MonthlyPayment,
			Balance:  t.Amount,
		})
	}
	rows = append(rows, Installment{
		Period:    t.TermMonths,
		Payment:   p.FinalPayment,
		Interest:  p.FinalPayment - t.Amount,
		Principal: t.Amount,
		Balance:   0,
	})
	return rows
}
