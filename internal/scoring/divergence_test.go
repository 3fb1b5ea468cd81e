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

func TestClassifyTable(t *testing.T) {
	tests := []struct {
		name  string
		mode  models.ExecutionMode
		close models.CloseMode
		want  Alignment
	}{
		{"both closed both", models.ModeBoth, models.CloseBoth, Aligned},
		{"real closed real", models.ModeReal, models.CloseReal, FullyDiverged},
		{"theoretical closed theoretical", models.ModeTheoretical, models.CloseTheoretical, TheoreticalOnly},
		{"both closed real", models.ModeBoth, models.CloseReal, PartialRealClose},
		{"both closed theoretical", models.ModeBoth, models.CloseTheoretical, PartialTheoreticalClose},
		{"real closed both", models.ModeReal, models.CloseBoth, PartialRealEntry},
		{"theoretical closed both", models.ModeTheoretical, models.CloseBoth, PartialTheoreticalEntry},
		{"real closed theoretical", models.ModeReal, models.CloseTheoretical, Unknown},
		{"theoretical closed real", models.ModeTheoretical, models.CloseReal, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.mode, tt.close, models.OutcomeWin)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyOpenTrade(t *testing.T) {
	assert.Equal(t, NotApplicable, Classify(models.ModeBoth, models.CloseBoth, models.OutcomeOpen))
	assert.Equal(t, NotApplicable, Classify(models.ModeReal, "", models.OutcomeOpen))
}

func TestClassifyUnrecognizedValues(t *testing.T) {
	assert.Equal(t, Unknown, Classify("paper", "both", models.OutcomeWin))
	assert.Equal(t, Unknown, Classify(models.ModeBoth, "half", models.OutcomeLoss))
	assert.Equal(t, Unknown, Classify(models.ModeReal, "", models.OutcomeWin))
}

func TestClassifyTrade(t *testing.T) {
	exit := time.Now()
	pnl := 150.0
	trade := models.Trade{
		ExecutionMode: models.ModeBoth,
		CloseMode:     models.CloseReal,
		Outcome:       models.OutcomeWin,
		ExitTime:      &exit,
		PnL:           &pnl,
	}
	assert.Equal(t, PartialRealClose, ClassifyTrade(trade))
}

func TestDivergence(t *testing.T) {
	assert.Equal(t, 0.0, Divergence(500, 500))
	assert.Equal(t, -300.0, Divergence(200, 500))
	assert.Equal(t, 1200.0, Divergence(200, -1000))
}

// Property: classification is total. Any combination of mode, close
// mode and outcome maps to exactly one category without panicking, and
// every open trade maps to NotApplicable.
func TestProperty_ClassifyIsTotal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	modeGen := gen.OneConstOf(
		string(models.ModeReal), string(models.ModeTheoretical), string(models.ModeBoth),
		"", "paper", "live",
	)
	closeGen := gen.OneConstOf(
		string(models.CloseReal), string(models.CloseTheoretical), string(models.CloseBoth),
		"", "half", "manual",
	)
	outcomeGen := gen.OneConstOf(
		string(models.OutcomeOpen), string(models.OutcomeWin),
		string(models.OutcomeLoss), string(models.OutcomeBreakeven),
	)

	known := map[Alignment]bool{
		Aligned:                 true,
		FullyDiverged:           true,
		TheoreticalOnly:         true,
		PartialRealClose:        true,
		PartialTheoreticalClose: true,
		PartialRealEntry:        true,
		PartialTheoreticalEntry: true,
		NotApplicable:           true,
		Unknown:                 true,
	}

	properties.Property("every combination maps to a known category", prop.ForAll(
		func(mode, close, outcome string) bool {
			got := Classify(models.ExecutionMode(mode), models.CloseMode(close), models.Outcome(outcome))
			if !known[got] {
				return false
			}
			if models.Outcome(outcome) == models.OutcomeOpen {
				return got == NotApplicable
			}
			return got != NotApplicable
		},
		modeGen, closeGen, outcomeGen,
	))

	properties.TestingRun(t)
}
