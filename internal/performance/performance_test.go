package performance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradevision/internal/models"
)

func closed(id, symbol string, pnl float64) models.Trade {
	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	outcome := models.OutcomeBreakeven
	if pnl > 0 {
		outcome = models.OutcomeWin
	} else if pnl < 0 {
		outcome = models.OutcomeLoss
	}
	return models.Trade{
		ID:       id,
		Symbol:   symbol,
		Outcome:  outcome,
		ExitTime: &exitTime,
		PnL:      &pnl,
	}
}

func TestSummarize(t *testing.T) {
	trades := []models.Trade{
		closed("t1", "NIFTY", 1000),
		closed("t2", "NIFTY", -400),
		closed("t3", "BANKNIFTY", 600),
		closed("t4", "NIFTY", 0),
		{ID: "t5", Symbol: "NIFTY", Outcome: models.OutcomeOpen},
	}

	s := Summarize(trades)
	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 1, s.OpenTrades)
	assert.Equal(t, 2, s.WinningTrades)
	assert.Equal(t, 1, s.LosingTrades)
	assert.Equal(t, 1, s.Breakeven)
	assert.Equal(t, 1200.0, s.TotalPnL)
	assert.Equal(t, 50.0, s.WinRate)
	assert.Equal(t, 800.0, s.AvgWin)
	assert.Equal(t, 400.0, s.AvgLoss)
	assert.Equal(t, 4.0, s.ProfitFactor)

	if assert.NotNil(t, s.BestTrade) {
		assert.Equal(t, "t1", s.BestTrade.TradeID)
	}
	if assert.NotNil(t, s.WorstTrade) {
		assert.Equal(t, "t2", s.WorstTrade.TradeID)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalTrades)
	assert.Zero(t, s.WinRate)
	assert.Zero(t, s.ProfitFactor)
	assert.Nil(t, s.BestTrade)
	assert.Nil(t, s.WorstTrade)
}

func TestSummarizeNoLosses(t *testing.T) {
	s := Summarize([]models.Trade{closed("t1", "NIFTY", 500)})
	// Without losses the factor degenerates to the gross win.
	assert.Equal(t, 500.0, s.ProfitFactor)
	assert.Equal(t, 100.0, s.WinRate)
}

func TestBySymbol(t *testing.T) {
	trades := []models.Trade{
		closed("t1", "NIFTY", 1000),
		closed("t2", "NIFTY", -400),
		closed("t3", "BANKNIFTY", 800),
		{ID: "t4", Symbol: "FINNIFTY", Outcome: models.OutcomeOpen},
	}

	breakdown := BySymbol(trades)
	if assert.Len(t, breakdown, 2) {
		assert.Equal(t, "BANKNIFTY", breakdown[0].Symbol)
		assert.Equal(t, 800.0, breakdown[0].PnL)
		assert.Equal(t, "NIFTY", breakdown[1].Symbol)
		assert.Equal(t, 2, breakdown[1].Trades)
		assert.Equal(t, 600.0, breakdown[1].PnL)
	}
}

func TestCompare(t *testing.T) {
	real := []models.Trade{closed("t1", "NIFTY", 200)}
	theoretical := []models.Trade{closed("t1", "NIFTY", 900)}

	c := Compare(real, theoretical)
	assert.Equal(t, 200.0, c.Real.TotalPnL)
	assert.Equal(t, 900.0, c.Theoretical.TotalPnL)
	assert.Equal(t, 700.0, c.PnLGap)
}
