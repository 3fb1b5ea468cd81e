package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradevision/internal/models"
)

const testDate = "2025-06-02"

func confirmedBlock(id, at string, condType models.ConditionType, conditionID string) models.TimeBlock {
	return models.TimeBlock{
		ID:             id,
		Time:           at,
		ConditionType:  condType,
		DailyOverrides: map[string]string{testDate: conditionID},
		IsRecurring:    true,
	}
}

func condition(condType models.ConditionType, id string) models.FlowCondition {
	return models.FlowCondition{ConditionType: condType, SelectedConditionID: id}
}

func TestConfirmedSequenceOrdersByTime(t *testing.T) {
	blocks := []models.TimeBlock{
		confirmedBlock("b2", "10:30", models.ConditionIBBreak, "ib-high"),
		confirmedBlock("b1", "09:15", models.ConditionDayType, "trending"),
	}

	seq := ConfirmedSequence(blocks, testDate)
	if assert.Len(t, seq, 2) {
		assert.Equal(t, "trending", seq[0].SelectedConditionID)
		assert.Equal(t, "ib-high", seq[1].SelectedConditionID)
	}
}

func TestConfirmedSequenceFallsBackToDefault(t *testing.T) {
	blocks := []models.TimeBlock{
		{ID: "b1", Time: "09:15", ConditionType: models.ConditionDayType, ConditionID: "default-day"},
		{ID: "b2", Time: "10:30", ConditionType: models.ConditionIBBreak},
	}

	seq := ConfirmedSequence(blocks, testDate)
	if assert.Len(t, seq, 1) {
		assert.Equal(t, "default-day", seq[0].SelectedConditionID)
	}
}

func TestMatchExact(t *testing.T) {
	seq := []models.FlowCondition{
		condition(models.ConditionDayType, "trending"),
		condition(models.ConditionIBBreak, "ib-high"),
	}

	matching := models.TradingFlow{ID: "f1", Name: "Trend Break", Conditions: seq}
	reversed := models.TradingFlow{ID: "f2", Name: "Reversed", Conditions: []models.FlowCondition{seq[1], seq[0]}}
	shorter := models.TradingFlow{ID: "f3", Name: "Shorter", Conditions: seq[:1]}
	longer := models.TradingFlow{ID: "f4", Name: "Longer", Conditions: append(append([]models.FlowCondition{}, seq...), condition(models.ConditionCPRSize, "narrow"))}

	matched := MatchExact([]models.TradingFlow{matching, reversed, shorter, longer}, seq)
	if assert.Len(t, matched, 1) {
		assert.Equal(t, "f1", matched[0].ID)
	}
}

func TestMatchExactEmptySequence(t *testing.T) {
	flows := []models.TradingFlow{
		{ID: "f1", Conditions: []models.FlowCondition{condition(models.ConditionDayType, "trending")}},
		{ID: "f2"},
	}
	assert.Nil(t, MatchExact(flows, nil))
}

func TestMatchExactTypeMatters(t *testing.T) {
	seq := []models.FlowCondition{condition(models.ConditionDayType, "x")}
	other := models.TradingFlow{ID: "f1", Conditions: []models.FlowCondition{condition(models.ConditionIBBreak, "x")}}
	assert.Empty(t, MatchExact([]models.TradingFlow{other}, seq))
}

func TestMatchSubset(t *testing.T) {
	ids := map[string]bool{"trending": true, "ib-high": true, "narrow": true}

	contained := models.TradingFlow{ID: "f1", Conditions: []models.FlowCondition{
		condition(models.ConditionIBBreak, "ib-high"),
		condition(models.ConditionDayType, "trending"),
	}}
	partial := models.TradingFlow{ID: "f2", Conditions: []models.FlowCondition{
		condition(models.ConditionDayType, "trending"),
		condition(models.ConditionBreakSide, "upside"),
	}}
	empty := models.TradingFlow{ID: "f3"}

	matched := MatchSubset([]models.TradingFlow{contained, partial, empty}, ids)
	if assert.Len(t, matched, 1) {
		assert.Equal(t, "f1", matched[0].ID)
	}
}

func TestMatchSubsetEmptyConfirmations(t *testing.T) {
	flows := []models.TradingFlow{{ID: "f1", Conditions: []models.FlowCondition{condition(models.ConditionDayType, "x")}}}
	assert.Nil(t, MatchSubset(flows, nil))
	assert.Nil(t, MatchSubset(flows, map[string]bool{}))
}

func TestMatchEdgeFlowsSubset(t *testing.T) {
	ids := map[string]bool{"trending": true}
	flows := []models.LogicalEdgeFlow{
		{ID: "e1", Conditions: []models.FlowCondition{condition(models.ConditionDayType, "trending")}},
		{ID: "e2", Conditions: []models.FlowCondition{condition(models.ConditionDayType, "ranging")}},
		{ID: "e3"},
	}

	matched := MatchEdgeFlowsSubset(flows, ids)
	if assert.Len(t, matched, 1) {
		assert.Equal(t, "e1", matched[0].ID)
	}
}

func TestGroupByName(t *testing.T) {
	flows := []models.TradingFlow{
		{ID: "f1", Name: "Trend Break"},
		{ID: "f2", Name: "Fade"},
		{ID: "f3", Name: "Trend Break"},
	}

	groups := GroupByName(flows)
	if assert.Len(t, groups, 2) {
		assert.Equal(t, "Trend Break", groups[0].Name)
		assert.Len(t, groups[0].Flows, 2)
		assert.Equal(t, "Fade", groups[1].Name)
		assert.Len(t, groups[1].Flows, 1)
	}
}
