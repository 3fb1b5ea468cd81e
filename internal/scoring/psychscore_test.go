package scoring

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"tradevision/internal/models"
)

func closedTrade(exit time.Time, rules models.RulesFollowedStatus) models.Trade {
	pnl := 100.0
	return models.Trade{
		ID:            "t-" + exit.Format("150405"),
		Outcome:       models.OutcomeWin,
		ExitTime:      &exit,
		PnL:           &pnl,
		RulesFollowed: rules,
	}
}

func TestDelta(t *testing.T) {
	assert.Equal(t, 10, Delta(models.RulesFollow, -10))
	assert.Equal(t, -10, Delta(models.RulesNotFollow, -10))
	assert.Equal(t, -5, Delta(models.RulesPartially, -10))
	assert.Equal(t, -10, Delta(models.RulesMissEntry, -10))
	assert.Equal(t, -5, Delta(models.RulesEntryMiss, -5))
	assert.Equal(t, 0, Delta(models.RulesEntryMiss, 0))
	assert.Equal(t, 0, Delta(models.RulesUnlabelled, -10))
	assert.Equal(t, 0, Delta("SOMETHING ELSE", -10))
}

func TestCurveCumulative(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedTrade(base, models.RulesFollow),
		closedTrade(base.Add(time.Hour), models.RulesNotFollow),
		closedTrade(base.Add(2*time.Hour), models.RulesPartially),
	}

	curve := Curve(trades, -10)
	if assert.Len(t, curve, 3) {
		assert.Equal(t, 10, curve[0].Score)
		assert.Equal(t, 0, curve[1].Score)
		assert.Equal(t, -5, curve[2].Score)
	}
	assert.Equal(t, -5, FinalScore(trades, -10))
}

func TestCurveOrdersByExitTime(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	// Deliberately out of chronological order.
	trades := []models.Trade{
		closedTrade(base.Add(2*time.Hour), models.RulesPartially),
		closedTrade(base, models.RulesFollow),
		closedTrade(base.Add(time.Hour), models.RulesNotFollow),
	}

	curve := Curve(trades, -10)
	if assert.Len(t, curve, 3) {
		assert.True(t, curve[0].Time.Before(curve[1].Time))
		assert.True(t, curve[1].Time.Before(curve[2].Time))
		assert.Equal(t, 10, curve[0].Score)
		assert.Equal(t, -5, curve[2].Score)
	}
}

func TestCurveSkipsOpenTrades(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	open := models.Trade{ID: "open", Outcome: models.OutcomeOpen, RulesFollowed: models.RulesFollow}
	trades := []models.Trade{open, closedTrade(base, models.RulesFollow)}

	curve := Curve(trades, -10)
	assert.Len(t, curve, 1)
	assert.Equal(t, 10, FinalScore(trades, -10))
}

func TestCandlesBracketEachMove(t *testing.T) {
	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		closedTrade(base, models.RulesFollow),
		closedTrade(base.Add(time.Hour), models.RulesNotFollow),
	}

	candles := Candles(trades, -10)
	if assert.Len(t, candles, 2) {
		assert.Equal(t, Candle{Time: base, Open: 0, High: 10, Low: 0, Close: 10}, candles[0])
		assert.Equal(t, Candle{Time: base.Add(time.Hour), Open: 10, High: 10, Low: 0, Close: 0}, candles[1])
	}
}

// Property: the final score is order-invariant. Shuffling the same
// closed trades changes the intermediate curve but never the final
// cumulative score.
func TestProperty_FinalScoreOrderInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	statuses := []models.RulesFollowedStatus{
		models.RulesFollow, models.RulesNotFollow, models.RulesPartially,
		models.RulesMissEntry, models.RulesEntryMiss, models.RulesUnlabelled,
	}

	properties.Property("final score survives reordering", prop.ForAll(
		func(picks []int, penalty int) bool {
			base := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
			trades := make([]models.Trade, 0, len(picks))
			for i, p := range picks {
				status := statuses[((p%len(statuses))+len(statuses))%len(statuses)]
				trades = append(trades, closedTrade(base.Add(time.Duration(i)*time.Minute), status))
			}

			want := FinalScore(trades, penalty)

			// Reverse order.
			reversed := make([]models.Trade, len(trades))
			for i, tr := range trades {
				reversed[len(trades)-1-i] = tr
			}
			if FinalScore(reversed, penalty) != want {
				return false
			}

			curve := Curve(reversed, penalty)
			if len(curve) == 0 {
				return want == 0
			}
			return curve[len(curve)-1].Score == want
		},
		gen.SliceOf(gen.IntRange(0, 5)),
		gen.OneConstOf(-10, -5, 0),
	))

	properties.TestingRun(t)
}
