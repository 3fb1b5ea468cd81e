package scoring

import (
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// DayStats aggregates one calendar day: ledger totals, divergence,
// completion, alignment and discipline breakdowns, and the final score.
type DayStats struct {
	DateKey        string
	Trades         int
	RealPnL        float64
	TheoreticalPnL float64
	Divergence     float64
	Completion     float64
	Alignments     map[Alignment]int
	Rules          map[models.RulesFollowedStatus]int
	FinalScore     int
	Curve          []Point
	Candles        []Candle
}

// DayStatsFor computes the day report. Ledger totals and divergence
// come from the authoritative trade records; the discipline breakdown
// and score series come from the given mode's ledger view.
func DayStatsFor(state *store.State, mode models.ExecutionMode, dateKey string, entryMissPenalty int) DayStats {
	stats := DayStats{
		DateKey:    dateKey,
		Alignments: make(map[Alignment]int),
		Rules:      make(map[models.RulesFollowedStatus]int),
	}

	for _, rec := range state.Trades {
		leg := primaryLeg(rec)
		if leg == nil || !closedOn(leg, dateKey) {
			continue
		}

		stats.RealPnL += rec.RealPnL()
		stats.TheoreticalPnL += rec.TheoreticalPnL()
		stats.Alignments[ClassifyTrade(*leg)]++
	}
	stats.Divergence = Divergence(stats.RealPnL, stats.TheoreticalPnL)
	stats.Completion = CompletionPercent(stats.RealPnL, stats.TheoreticalPnL)

	trades := state.ClosedTradesOn(mode, dateKey)
	stats.Trades = len(trades)
	for _, t := range trades {
		if t.RulesFollowed != models.RulesUnlabelled {
			stats.Rules[t.RulesFollowed]++
		}
	}
	stats.FinalScore = FinalScore(trades, entryMissPenalty)
	stats.Curve = Curve(trades, entryMissPenalty)
	stats.Candles = Candles(trades, entryMissPenalty)

	return stats
}

// primaryLeg picks the leg that carries a record's mode and close
// labels: the real leg when present, else the theoretical one. For a
// mirrored trade both legs agree.
func primaryLeg(rec *store.TradeRecord) *models.Trade {
	if rec.Real != nil {
		return rec.Real
	}
	return rec.Theoretical
}

func closedOn(t *models.Trade, dateKey string) bool {
	return t.Closed() && t.ExitTime.Format(models.DateKeyLayout) == dateKey
}
