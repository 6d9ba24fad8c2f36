package plan

import (
	"math"
	"strconv"
)

// UsedPct reports how much of the time budget the plan consumes, as an integer
// percentage in [0, 100]. Without a positive budget the plan's own time is used
// as the budget, so any non-zero plan reads 100%.
func UsedPct(r Response) int {
	timeMin := 0.0
	if r.Totals != nil {
		timeMin = value(r.Totals.TimeMin)
	}
	budgetMin := timeMin
	if r.UI != nil && r.UI.TimeBudgetMin != nil && *r.UI.TimeBudgetMin > 0 {
		budgetMin = *r.UI.TimeBudgetMin
	}
	if budgetMin <= 0 {
		return 0
	}
	pct := roundHalfUp(math.Min(1, timeMin/budgetMin) * 100)
	return clampPct(pct)
}

// TotalCO2 prefers the aggregate supplied by the decision service and otherwise
// sums the per-component savings of the selected order.
func TotalCO2(r Response) float64 {
	if r.Totals != nil && r.Totals.CO2SavedKg != nil {
		return *r.Totals.CO2SavedKg
	}
	sum := 0.0
	for _, item := range r.SelectedOrder {
		sum += value(item.CO2SavedKg)
	}
	return sum
}

// ResolveProfit returns the most favorable profit among the candidates present on
// the record. Absent candidates never take part; with none present it is 0.
func ResolveProfit(c ComponentDecision) float64 {
	best := math.Inf(-1)
	for _, candidate := range []*float64{c.ReuseProfitEUR, c.RecycleProfitEUR, c.ExpectedProfitEUR} {
		if candidate != nil && *candidate > best {
			best = *candidate
		}
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}

// SuccessPct converts a success probability to a whole percentage.
func SuccessPct(c ComponentDecision) int {
	return clampPct(roundHalfUp(value(c.SuccessProb) * 100))
}

// Fixed2 formats a value with two decimals; non-finite input renders as "0.00".
func Fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func roundHalfUp(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Floor(v + 0.5))
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
