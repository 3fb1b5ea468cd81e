// Package integration exercises a full journal day across the service
// layers: schedule confirmations, flow matching, order execution, trade
// closing and the day score.
package integration

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevision/internal/flow"
	"tradevision/internal/ids"
	"tradevision/internal/ledger"
	"tradevision/internal/models"
	"tradevision/internal/performance"
	"tradevision/internal/schedule"
	"tradevision/internal/scoring"
	"tradevision/internal/store"
)

const dateKey = "2025-06-02"

type journal struct {
	store    *store.Store
	catalog  *flow.Catalog
	schedule *schedule.Service
	flows    *flow.Service
	ledger   *ledger.Service
}

func openJournal(t *testing.T) *journal {
	t.Helper()
	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return &journal{
		store:    st,
		catalog:  flow.NewCatalog(st),
		schedule: schedule.NewService(st, zerolog.Nop()),
		flows:    flow.NewService(st, zerolog.Nop()),
		ledger:   ledger.NewService(st, zerolog.Nop()),
	}
}

func TestFullTradingDay(t *testing.T) {
	j := openJournal(t)
	mode := models.ModeBoth

	// Morning setup: catalog the observable conditions.
	trendingID, err := j.catalog.Add(mode, models.ConditionDayType, "Trending Day")
	require.NoError(t, err)
	ibHighID, err := j.catalog.Add(mode, models.ConditionIBBreak, "IB High Break")
	require.NoError(t, err)

	// Recurring confirmation schedule.
	blockDay := models.TimeBlock{ID: ids.New(), Time: "09:15", ConditionType: models.ConditionDayType, IsRecurring: true}
	blockIB := models.TimeBlock{ID: ids.New(), Time: "10:30", ConditionType: models.ConditionIBBreak, IsRecurring: true}
	require.NoError(t, j.schedule.AddBlock(mode, blockDay, dateKey))
	require.NoError(t, j.schedule.AddBlock(mode, blockIB, dateKey))

	// A flow keyed to the two confirmations.
	flowID, err := j.flows.Add(mode, models.TradingFlow{
		Name: "Trend IB Break",
		Conditions: []models.FlowCondition{
			{ConditionType: models.ConditionDayType, SelectedConditionID: trendingID},
			{ConditionType: models.ConditionIBBreak, SelectedConditionID: ibHighID},
		},
		TrendEdgeIDs: []string{"edge-1"},
	})
	require.NoError(t, err)

	// Nothing matches before the day is confirmed.
	groups, err := j.flows.MatchDay(mode, dateKey, flow.PolicyExact)
	require.NoError(t, err)
	assert.Empty(t, groups)

	// Confirm both blocks as the session unfolds.
	require.NoError(t, j.schedule.Confirm(mode, dateKey, blockDay.ID, trendingID))
	require.NoError(t, j.schedule.Confirm(mode, dateKey, blockIB.ID, ibHighID))

	groups, err = j.flows.MatchDay(mode, dateKey, flow.PolicyExact)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Trend IB Break", groups[0].Name)

	// The match raises an entry alert once.
	alerts, err := j.flows.SuggestEntries(mode, dateKey, flow.PolicyExact, time.Now())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, flowID, alerts[0].FlowID)

	// Queue and execute the entry.
	orderID, err := j.ledger.PlaceOrder(models.LiveOrder{
		Symbol:        "NIFTY",
		PositionType:  models.PositionLong,
		Quantity:      50,
		Price:         22450,
		ExecutionMode: mode,
		StrategyID:    flowID,
	})
	require.NoError(t, err)

	entryTime := time.Date(2025, 6, 2, 10, 35, 0, 0, time.UTC)
	tradeID, err := j.ledger.ExecuteOrder(mode, orderID, entryTime)
	require.NoError(t, err)
	require.NoError(t, j.flows.DismissAlert(mode, alerts[0].ID))

	// Close the mirrored trade and label the review.
	exitTime := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	require.NoError(t, j.ledger.CloseTrade(tradeID, exitTime, 22490, models.CloseBoth, models.RulesFollow))

	real, err := j.ledger.Trade(tradeID, models.ModeReal)
	require.NoError(t, err)
	theoretical, err := j.ledger.Trade(tradeID, models.ModeTheoretical)
	require.NoError(t, err)
	assert.Equal(t, real, theoretical)
	assert.Equal(t, 2000.0, real.RealizedPnL())

	// Day score: one aligned winner, rules followed.
	var stats scoring.DayStats
	j.store.View(func(state *store.State) {
		stats = scoring.DayStatsFor(state, models.ModeReal, dateKey, scoring.DeltaNotFollow)
	})
	assert.Equal(t, 1, stats.Trades)
	assert.Equal(t, 2000.0, stats.RealPnL)
	assert.Equal(t, 2000.0, stats.TheoreticalPnL)
	assert.Equal(t, 0.0, stats.Divergence)
	assert.Equal(t, 100.0, stats.Completion)
	assert.Equal(t, 1, stats.Alignments[scoring.Aligned])
	assert.Equal(t, scoring.DeltaRulesFollow, stats.FinalScore)

	// Ledger comparison sees identical mirrored performance.
	comparison := performance.Compare(
		j.ledger.Trades(models.ModeReal),
		j.ledger.Trades(models.ModeTheoretical),
	)
	assert.Equal(t, 0.0, comparison.PnLGap)
	assert.Equal(t, 100.0, comparison.Real.WinRate)
}

func TestExportImportAcrossStores(t *testing.T) {
	src := openJournal(t)
	mode := models.ModeReal

	condID, err := src.catalog.Add(mode, models.ConditionCPRSize, "Narrow CPR")
	require.NoError(t, err)
	_, err = src.flows.Add(mode, models.TradingFlow{
		Name:       "CPR Fade",
		Conditions: []models.FlowCondition{{ConditionType: models.ConditionCPRSize, SelectedConditionID: condID}},
	})
	require.NoError(t, err)

	tradeID, err := src.ledger.AddTrade(models.Trade{
		Symbol:        "BANKNIFTY",
		PositionType:  models.PositionShort,
		Quantity:      15,
		EntryTime:     time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		EntryPrice:    48200,
		ExecutionMode: mode,
	})
	require.NoError(t, err)

	data, err := src.store.ExportJSON()
	require.NoError(t, err)

	dst := openJournal(t)
	require.NoError(t, dst.store.ImportJSON(data))

	trade, err := dst.ledger.Trade(tradeID, mode)
	require.NoError(t, err)
	assert.Equal(t, "BANKNIFTY", trade.Symbol)

	conditions, err := dst.catalog.List(mode, models.ConditionCPRSize)
	require.NoError(t, err)
	require.Len(t, conditions, 1)
	assert.Equal(t, "Narrow CPR", conditions[0].Name)

	flows := dst.flows.List(mode)
	require.Len(t, flows, 1)
	assert.Equal(t, "CPR Fade", flows[0].Name)
}
