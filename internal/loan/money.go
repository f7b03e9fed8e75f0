package loan

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// Round rounds to the nearest whole unit. Halves go towards +Inf, so -2.5
// becomes -2.
func Round(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// FormatMoney renders x as whole US dollars, e.g. "$16,667" or "-$250".
func FormatMoney(x float64) string {
	switch {
	case math.IsNaN(x):
		return "$NaN"
	case math.IsInf(x, 1):
		return "$∞"
	case math.IsInf(x, -1):
		return "-$∞"
	}
	v := int64(Round(x))
	if v < 0 {
		return "-$" + usPrinter.Sprintf("%d", -v)
	}
	return "$" + usPrinter.Sprintf("%d", v)
}

// FormatGrouped renders x rounded to an integer with thousands separators.
func FormatGrouped(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return usPrinter.Sprintf("%d", int64(Round(x)))
}

// FormatRate renders an annual rate, e.g. "10.00%".
func FormatRate(annualRatePercent float64) string {
	return strconv.FormatFloat(annualRatePercent, 'f', 2, 64) + "%"
}

// FormatQuantity renders a crypto quantity with six fraction digits.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', 6, 64)
}
