// Package scoring compares the real and theoretical ledgers and
// measures rule-following discipline.
package scoring

import "tradevision/internal/models"

// Alignment classifies how a trade's execution relates to its plan,
// derived from the (execution mode, close mode) pair.
type Alignment string

const (
	// Aligned: mirrored into both ledgers and closed in both.
	Aligned Alignment = "ALIGNED"
	// FullyDiverged: executed real-only, no theoretical counterpart.
	FullyDiverged Alignment = "FULLY_DIVERGED"
	// TheoreticalOnly: planned but never executed for real.
	TheoreticalOnly Alignment = "THEORETICAL_ONLY"
	// PartialRealClose: mirrored trade, only the real side closed.
	PartialRealClose Alignment = "PARTIAL_REAL_CLOSE"
	// PartialTheoreticalClose: mirrored trade, only the theoretical
	// side closed.
	PartialTheoreticalClose Alignment = "PARTIAL_THEORETICAL_CLOSE"
	// PartialRealEntry: entered real-only but closed out as planned.
	PartialRealEntry Alignment = "PARTIAL_REAL_ENTRY"
	// PartialTheoreticalEntry: entered theoretical-only but closed out
	// as planned.
	PartialTheoreticalEntry Alignment = "PARTIAL_THEORETICAL_ENTRY"
	// NotApplicable: the trade is still open.
	NotApplicable Alignment = "NOT_APPLICABLE"
	// Unknown: the combination is not covered by the table.
	Unknown Alignment = "UNKNOWN"
)

// Classify maps a trade's (execution mode, close mode) pair to its
// alignment category. It is a pure total function: open trades map to
// NotApplicable and every combination outside the fixed table maps to
// Unknown rather than erroring. Of the nine well-formed pairs, two
// fall through to Unknown: (real, theoretical) and (theoretical,
// real), where a leg closes in a ledger the trade never entered.
func Classify(mode models.ExecutionMode, close models.CloseMode, outcome models.Outcome) Alignment {
	if outcome == models.OutcomeOpen {
		return NotApplicable
	}

	switch {
	case mode == models.ModeBoth && close == models.CloseBoth:
		return Aligned
	case mode == models.ModeReal && close == models.CloseReal:
		return FullyDiverged
	case mode == models.ModeTheoretical && close == models.CloseTheoretical:
		return TheoreticalOnly
	case mode == models.ModeBoth && close == models.CloseReal:
		return PartialRealClose
	case mode == models.ModeBoth && close == models.CloseTheoretical:
		return PartialTheoreticalClose
	case mode == models.ModeReal && close == models.CloseBoth:
		return PartialRealEntry
	case mode == models.ModeTheoretical && close == models.CloseBoth:
		return PartialTheoreticalEntry
	}
	return Unknown
}

// ClassifyTrade classifies one trade.
func ClassifyTrade(t models.Trade) Alignment {
	return Classify(t.ExecutionMode, t.CloseMode, t.Outcome)
}

// Divergence is the gap between real and theoretical outcomes for one
// trade record: real P&L minus theoretical P&L, with the theoretical
// side falling back to the real value when no counterpart exists.
func Divergence(realPnL, theoreticalPnL float64) float64 {
	return realPnL - theoreticalPnL
}
