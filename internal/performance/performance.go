// Package performance summarizes closed-trade results per ledger.
package performance

import (
	"sort"

	"tradevision/internal/models"
)

// TradeSummary is the best or worst closed trade of a summary window.
type TradeSummary struct {
	TradeID string  `json:"tradeId"`
	Symbol  string  `json:"symbol"`
	PnL     float64 `json:"pnl"`
}

// Summary aggregates the closed trades of one ledger.
type Summary struct {
	TotalTrades   int           `json:"totalTrades"`
	OpenTrades    int           `json:"openTrades"`
	WinningTrades int           `json:"winningTrades"`
	LosingTrades  int           `json:"losingTrades"`
	Breakeven     int           `json:"breakeven"`
	TotalPnL      float64       `json:"totalPnl"`
	WinRate       float64       `json:"winRate"`
	ProfitFactor  float64       `json:"profitFactor"`
	AvgWin        float64       `json:"avgWin"`
	AvgLoss       float64       `json:"avgLoss"`
	BestTrade     *TradeSummary `json:"bestTrade,omitempty"`
	WorstTrade    *TradeSummary `json:"worstTrade,omitempty"`
}

// Summarize computes a ledger summary. Open trades count toward
// OpenTrades only; every ratio is over closed trades.
func Summarize(trades []models.Trade) Summary {
	var s Summary
	var grossWin, grossLoss float64

	for _, t := range trades {
		if !t.Closed() {
			s.OpenTrades++
			continue
		}
		s.TotalTrades++

		pnl := t.RealizedPnL()
		s.TotalPnL += pnl

		switch t.Outcome {
		case models.OutcomeWin:
			s.WinningTrades++
			grossWin += pnl
		case models.OutcomeLoss:
			s.LosingTrades++
			grossLoss += -pnl
		default:
			s.Breakeven++
		}

		if s.BestTrade == nil || pnl > s.BestTrade.PnL {
			s.BestTrade = &TradeSummary{TradeID: t.ID, Symbol: t.Symbol, PnL: pnl}
		}
		if s.WorstTrade == nil || pnl < s.WorstTrade.PnL {
			s.WorstTrade = &TradeSummary{TradeID: t.ID, Symbol: t.Symbol, PnL: pnl}
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100
	}
	if s.WinningTrades > 0 {
		s.AvgWin = grossWin / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = grossLoss / float64(s.LosingTrades)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossWin / grossLoss
	} else if grossWin > 0 {
		s.ProfitFactor = grossWin
	}

	return s
}

// SymbolBreakdown is one symbol's closed-trade aggregate.
type SymbolBreakdown struct {
	Symbol string  `json:"symbol"`
	Trades int     `json:"trades"`
	PnL    float64 `json:"pnl"`
}

// BySymbol groups closed trades per symbol, ordered by total P&L
// descending.
func BySymbol(trades []models.Trade) []SymbolBreakdown {
	agg := make(map[string]*SymbolBreakdown)
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		b, ok := agg[t.Symbol]
		if !ok {
			b = &SymbolBreakdown{Symbol: t.Symbol}
			agg[t.Symbol] = b
		}
		b.Trades++
		b.PnL += t.RealizedPnL()
	}

	out := make([]SymbolBreakdown, 0, len(agg))
	for _, b := range agg {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PnL != out[j].PnL {
			return out[i].PnL > out[j].PnL
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Comparison pairs the real and theoretical ledger summaries so the gap
// between executed and planned performance is visible at a glance.
type Comparison struct {
	Real        Summary `json:"real"`
	Theoretical Summary `json:"theoretical"`
	PnLGap      float64 `json:"pnlGap"`
}

// Compare builds the dual-ledger comparison. PnLGap is theoretical
// minus real: positive means the plan outperformed the execution.
func Compare(real, theoretical []models.Trade) Comparison {
	c := Comparison{
		Real:        Summarize(real),
		Theoretical: Summarize(theoretical),
	}
	c.PnLGap = c.Theoretical.TotalPnL - c.Real.TotalPnL
	return c
}
