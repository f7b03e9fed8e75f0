package loan

import (
	"loan-calculator/internal/model"
	"loan-calculator/internal/repayment"
)

// ScheduleRow is one exported line of a payment schedule.
// Payment columns are rounded to whole dollars; Balance to cents.
type ScheduleRow struct {
	Period    int
	Payment   float64
	Interest  float64
	Principal float64
	Balance   float64
}

// ScheduleSummary totals a schedule the way the quote reports it.
type ScheduleSummary struct {
	Mode          model.RepaymentMode
	Rows          []ScheduleRow
	TotalPaid     float64
	TotalInterest float64
}

// Summarize rounds each installment for display. Totals are summed from the
// unrounded installments.
func Summarize(mode model.RepaymentMode, installments []repayment.Installment) ScheduleSummary {
	s := ScheduleSummary{
		Mode: mode,
		Rows: make([]ScheduleRow, 0, len(installments)),
	}
	for _, in := range installments {
		s.TotalPaid += in.Payment
		s.TotalInterest += in.Interest
		s.Rows = append(s.Rows, ScheduleRow{
			Period:    in.Period,
			Payment:   Round(in.Payment),
			Interest:  Round(in.Interest),
			Principal: Round(in.Principal),
			Balance:   Round(in.Balance*100) / 100,
		})
	}
	return s
}
