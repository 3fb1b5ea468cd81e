package ledger

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	return NewService(st, zerolog.Nop())
}

func newTrade(mode models.ExecutionMode) models.Trade {
	return models.Trade{
		Symbol:        "NIFTY",
		PositionType:  models.PositionLong,
		Quantity:      50,
		EntryTime:     time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		EntryPrice:    22450,
		ExecutionMode: mode,
	}
}

func TestAddTradeBothModeMirrorsLegs(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeBoth))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	real, err := svc.Trade(id, models.ModeReal)
	require.NoError(t, err)
	theoretical, err := svc.Trade(id, models.ModeTheoretical)
	require.NoError(t, err)

	assert.Equal(t, real, theoretical)
	assert.Equal(t, models.OutcomeOpen, real.Outcome)
}

func TestAddTradeSingleModeHasOneLeg(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeTheoretical))
	require.NoError(t, err)

	_, err = svc.Trade(id, models.ModeReal)
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)

	_, err = svc.Trade(id, models.ModeTheoretical)
	assert.NoError(t, err)
}

func TestAddTradeValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddTrade(models.Trade{Symbol: "NIFTY", ExecutionMode: "paper"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidMode)

	trade := newTrade(models.ModeReal)
	trade.ID = "fixed"
	_, err = svc.AddTrade(trade)
	require.NoError(t, err)
	_, err = svc.AddTrade(trade)
	assert.ErrorIs(t, err, apperrors.ErrTradeExists)
}

func TestCloseTradeComputesPnLAndOutcome(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeBoth))
	require.NoError(t, err)

	exit := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	require.NoError(t, svc.CloseTrade(id, exit, 22470, models.CloseBoth, models.RulesFollow))

	real, err := svc.Trade(id, models.ModeReal)
	require.NoError(t, err)
	theoretical, err := svc.Trade(id, models.ModeTheoretical)
	require.NoError(t, err)

	// (22470 - 22450) * 50
	assert.Equal(t, 1000.0, real.RealizedPnL())
	assert.Equal(t, models.OutcomeWin, real.Outcome)
	assert.Equal(t, models.CloseBoth, real.CloseMode)
	assert.Equal(t, models.RulesFollow, real.RulesFollowed)
	assert.Equal(t, real, theoretical)
}

func TestCloseTradeShortInvertsPnL(t *testing.T) {
	svc := newTestService(t)

	trade := newTrade(models.ModeReal)
	trade.PositionType = models.PositionShort
	id, err := svc.AddTrade(trade)
	require.NoError(t, err)

	require.NoError(t, svc.CloseTrade(id, time.Now(), 22470, models.CloseReal, ""))

	got, err := svc.Trade(id, models.ModeReal)
	require.NoError(t, err)
	assert.Equal(t, -1000.0, got.RealizedPnL())
	assert.Equal(t, models.OutcomeLoss, got.Outcome)
}

func TestCloseTradeBreakeven(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeReal))
	require.NoError(t, err)
	require.NoError(t, svc.CloseTrade(id, time.Now(), 22450, models.CloseReal, ""))

	got, err := svc.Trade(id, models.ModeReal)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeBreakeven, got.Outcome)
}

func TestCloseTradeTwiceFails(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeBoth))
	require.NoError(t, err)
	require.NoError(t, svc.CloseTrade(id, time.Now(), 22470, models.CloseBoth, ""))

	err = svc.CloseTrade(id, time.Now(), 22480, models.CloseBoth, "")
	assert.ErrorIs(t, err, apperrors.ErrTradeClosed)
}

func TestDeleteTradePerMode(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeBoth))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrade(id, models.ModeReal))

	_, err = svc.Trade(id, models.ModeReal)
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)
	_, err = svc.Trade(id, models.ModeTheoretical)
	assert.NoError(t, err)

	// Removing the last leg drops the record.
	require.NoError(t, svc.DeleteTrade(id, models.ModeTheoretical))
	err = svc.DeleteTrade(id, models.ModeTheoretical)
	assert.ErrorIs(t, err, apperrors.ErrTradeNotFound)
}

func TestLabelTrade(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeBoth))
	require.NoError(t, err)
	require.NoError(t, svc.CloseTrade(id, time.Now(), 22400, models.CloseBoth, ""))

	require.NoError(t, svc.LabelTrade(id, models.RulesNotFollow, []string{"te1"}, []string{"em1"}))

	got, err := svc.Trade(id, models.ModeTheoretical)
	require.NoError(t, err)
	assert.Equal(t, models.RulesNotFollow, got.RulesFollowed)
	assert.Equal(t, []string{"te1"}, got.TechnicalErrorIDs)
	assert.Equal(t, []string{"em1"}, got.EmotionIDs)
}

func TestAppendLog(t *testing.T) {
	svc := newTestService(t)

	id, err := svc.AddTrade(newTrade(models.ModeReal))
	require.NoError(t, err)

	at := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.AppendLog(id, at, "scaled in"))

	got, err := svc.Trade(id, models.ModeReal)
	require.NoError(t, err)
	require.Len(t, got.Log, 1)
	assert.Equal(t, "scaled in", got.Log[0].Note)
}

func TestPlaceAndExecuteOrder(t *testing.T) {
	svc := newTestService(t)

	orderID, err := svc.PlaceOrder(models.LiveOrder{
		Symbol:        "NIFTY",
		PositionType:  models.PositionLong,
		Quantity:      50,
		Price:         22450,
		ExecutionMode: models.ModeBoth,
	})
	require.NoError(t, err)

	queued := svc.Orders(models.ModeBoth)
	require.Len(t, queued, 1)
	assert.Equal(t, models.OrderPending, queued[0].Status)
	assert.False(t, queued[0].PlacedAt.IsZero())

	at := time.Date(2025, 6, 2, 10, 15, 0, 0, time.UTC)
	tradeID, err := svc.ExecuteOrder(models.ModeBoth, orderID, at)
	require.NoError(t, err)
	require.NotEmpty(t, tradeID)

	// Order left the queue, trade landed in both ledgers.
	assert.Empty(t, svc.Orders(models.ModeBoth))
	real, err := svc.Trade(tradeID, models.ModeReal)
	require.NoError(t, err)
	assert.Equal(t, at, real.EntryTime)
	assert.Equal(t, 22450.0, real.EntryPrice)
	_, err = svc.Trade(tradeID, models.ModeTheoretical)
	assert.NoError(t, err)
}

func TestExecuteUnknownOrderLeavesQueueIntact(t *testing.T) {
	svc := newTestService(t)

	orderID, err := svc.PlaceOrder(models.LiveOrder{
		Symbol: "NIFTY", Price: 22450, ExecutionMode: models.ModeReal,
	})
	require.NoError(t, err)

	_, err = svc.ExecuteOrder(models.ModeReal, "missing", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)

	// The queued order survived the failed execution.
	orders := svc.Orders(models.ModeReal)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)
}

func TestCancelOrderRecordsCancellation(t *testing.T) {
	svc := newTestService(t)

	orderID, err := svc.PlaceOrder(models.LiveOrder{
		Symbol: "NIFTY", Price: 22450, ExecutionMode: models.ModeReal,
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelOrder(models.ModeReal, orderID, "setup invalidated", 22480))
	assert.Empty(t, svc.Orders(models.ModeReal))

	var found *models.CancellationData
	for _, a := range svc.Activities(models.ModeReal, false) {
		if a.CancellationData != nil {
			found = a.CancellationData
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, orderID, found.OrderID)
	assert.Equal(t, "setup invalidated", found.Reason)
	assert.Equal(t, 22480.0, found.PriceAtTime)
}

func TestEditActivityPreservesOriginal(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.RecordActivity(models.ModeReal, "Note", models.ActivityData, "first draft"))
	activities := svc.Activities(models.ModeReal, false)
	require.Len(t, activities, 1)

	require.NoError(t, svc.EditActivity(models.ModeReal, activities[0].ID, "second draft"))

	edited := svc.Activities(models.ModeReal, false)
	require.Len(t, edited, 1)
	assert.Equal(t, "second draft", edited[0].Details)
	assert.True(t, edited[0].IsEdited)
	assert.Contains(t, edited[0].OriginalState, "first draft")

	// A second edit keeps the first original, not the intermediate.
	require.NoError(t, svc.EditActivity(models.ModeReal, activities[0].ID, "third draft"))
	again := svc.Activities(models.ModeReal, false)
	assert.Contains(t, again[0].OriginalState, "first draft")
	assert.NotContains(t, again[0].OriginalState, "second draft")
}

func TestArchiveActivitiesFlagsAndCopies(t *testing.T) {
	svc := newTestService(t)
	archive, err := store.OpenActivityArchive(t.TempDir() + "/archive.db")
	require.NoError(t, err)
	defer archive.Close()

	require.NoError(t, svc.RecordActivity(models.ModeReal, "Old", models.ActivityData, "old entry"))
	require.NoError(t, svc.RecordActivity(models.ModeReal, "New", models.ActivityData, "new entry"))

	ctx := context.Background()
	count, err := svc.ArchiveActivities(ctx, models.ModeReal, archive, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Archived entries hidden by default, still present when included.
	assert.Empty(t, svc.Activities(models.ModeReal, false))
	assert.Len(t, svc.Activities(models.ModeReal, true), 2)

	archived, err := archive.Query(ctx, store.ActivityFilter{Mode: models.ModeReal})
	require.NoError(t, err)
	assert.Len(t, archived, 2)
}

func TestArchiveActivitiesFailedWriteLeavesEntriesRetryable(t *testing.T) {
	svc := newTestService(t)
	dbPath := t.TempDir() + "/archive.db"

	archive, err := store.OpenActivityArchive(dbPath)
	require.NoError(t, err)
	require.NoError(t, archive.Close())

	require.NoError(t, svc.RecordActivity(models.ModeReal, "Old", models.ActivityData, "old entry"))
	require.NoError(t, svc.RecordActivity(models.ModeReal, "Older", models.ActivityData, "older entry"))

	ctx := context.Background()
	cutoff := time.Now().Add(time.Minute)

	count, err := svc.ArchiveActivities(ctx, models.ModeReal, archive, cutoff)
	require.Error(t, err)
	assert.Zero(t, count)

	// The failed write must not hide the entries from the log.
	assert.Len(t, svc.Activities(models.ModeReal, false), 2)

	// A retry against a working archive picks them all up.
	archive, err = store.OpenActivityArchive(dbPath)
	require.NoError(t, err)
	defer archive.Close()

	count, err = svc.ArchiveActivities(ctx, models.ModeReal, archive, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, svc.Activities(models.ModeReal, false))

	archived, err := archive.Query(ctx, store.ActivityFilter{Mode: models.ModeReal})
	require.NoError(t, err)
	assert.Len(t, archived, 2)
}

func TestProperty_WriteLegsMirrors(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("legs follow the execution mode and mirror exactly", prop.ForAll(
		func(symbol string, qty int, price float64, short bool, mode string) bool {
			trade := models.Trade{
				ID:            "t1",
				Symbol:        symbol,
				Quantity:      qty,
				EntryPrice:    price,
				ExecutionMode: models.ExecutionMode(mode),
			}
			if short {
				trade.PositionType = models.PositionShort
			} else {
				trade.PositionType = models.PositionLong
			}

			rec := recordFor(trade)
			switch trade.ExecutionMode {
			case models.ModeBoth:
				if rec.Real == nil || rec.Theoretical == nil {
					return false
				}
				if !reflect.DeepEqual(*rec.Real, *rec.Theoretical) {
					return false
				}
				// The legs are independent copies.
				rec.Real.Symbol = "MUTATED"
				return rec.Theoretical.Symbol == symbol
			case models.ModeReal:
				return rec.Real != nil && rec.Theoretical == nil
			default:
				return rec.Real == nil && rec.Theoretical != nil
			}
		},
		gen.AlphaString(),
		gen.IntRange(0, 10000),
		gen.Float64Range(0, 100000),
		gen.Bool(),
		gen.OneConstOf("real", "theoretical", "both"),
	))

	properties.TestingRun(t)
}
