package scoring

import (
	"math"
	"strconv"
)

// CompletionPercent scores how completely a day's real P&L realized the
// theoretical plan. The rule is deliberately asymmetric:
//
//   - positive plan: plain ratio, real/theoretical x 100
//   - zero plan: 100 when real is also zero, +Inf when real made money,
//     0 when real lost
//   - negative plan: 100 when real matched-or-bettered the plan (lost
//     no more than planned, or turned the loss into profit), else the
//     ratio, which exceeds 100 the deeper the real loss runs
func CompletionPercent(realPnL, theoreticalPnL float64) float64 {
	switch {
	case theoreticalPnL > 0:
		return realPnL / theoreticalPnL * 100

	case theoreticalPnL == 0:
		if realPnL == 0 {
			return 100
		}
		if realPnL > 0 {
			return math.Inf(1)
		}
		return 0

	default:
		if realPnL >= theoreticalPnL || realPnL >= 0 {
			return 100
		}
		return realPnL / theoreticalPnL * 100
	}
}

// FormatCompletion renders a completion percentage, keeping the
// non-finite sentinel displayable.
func FormatCompletion(pct float64) string {
	if math.IsInf(pct, 1) {
		return "+∞"
	}
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}
