// Package flow implements the condition catalog, the trading-flow
// definitions and the flow matcher.
package flow

import (
	"sort"

	"tradevision/internal/models"
)

// ConfirmedSequence derives a day's ordered confirmed-condition
// sequence: effective blocks sorted by scheduled time, each resolving
// to its daily override when confirmed or its default condition
// otherwise, skipping blocks with nothing resolved.
func ConfirmedSequence(blocks []models.TimeBlock, dateKey string) []models.FlowCondition {
	ordered := make([]models.TimeBlock, len(blocks))
	copy(ordered, blocks)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Time < ordered[j].Time })

	var seq []models.FlowCondition
	for _, b := range ordered {
		id, ok := b.ResolvedCondition(dateKey)
		if !ok {
			continue
		}
		seq = append(seq, models.FlowCondition{
			ConditionType:       b.ConditionType,
			SelectedConditionID: id,
		})
	}
	return seq
}

// ConfirmedIDSet collapses a confirmed sequence into its condition-id
// set for subset matching.
func ConfirmedIDSet(seq []models.FlowCondition) map[string]bool {
	ids := make(map[string]bool, len(seq))
	for _, c := range seq {
		ids[c.SelectedConditionID] = true
	}
	return ids
}

// MatchExact returns the flows whose condition sequence equals the
// confirmed sequence position by position: same length, same
// (type, id) pair at every index. An empty confirmed sequence matches
// nothing.
func MatchExact(flows []models.TradingFlow, seq []models.FlowCondition) []models.TradingFlow {
	if len(seq) == 0 {
		return nil
	}

	var matched []models.TradingFlow
	for _, f := range flows {
		if sequenceEqual(f.Conditions, seq) {
			matched = append(matched, f)
		}
	}
	return matched
}

// MatchSubset returns the flows whose every declared condition id is
// present anywhere in the day's confirmed id set, regardless of order
// or extra confirmations. Used for the same-day quick match against
// recurring blocks without requiring a full daily plan.
func MatchSubset(flows []models.TradingFlow, ids map[string]bool) []models.TradingFlow {
	if len(ids) == 0 {
		return nil
	}

	var matched []models.TradingFlow
	for _, f := range flows {
		if len(f.Conditions) == 0 {
			continue
		}
		if conditionsSubset(f.Conditions, ids) {
			matched = append(matched, f)
		}
	}
	return matched
}

// MatchEdgeFlowsSubset applies the subset policy to logical edge flows.
func MatchEdgeFlowsSubset(flows []models.LogicalEdgeFlow, ids map[string]bool) []models.LogicalEdgeFlow {
	if len(ids) == 0 {
		return nil
	}

	var matched []models.LogicalEdgeFlow
	for _, f := range flows {
		if len(f.Conditions) == 0 {
			continue
		}
		if conditionsSubset(f.Conditions, ids) {
			matched = append(matched, f)
		}
	}
	return matched
}

func sequenceEqual(a, b []models.FlowCondition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ConditionType != b[i].ConditionType || a[i].SelectedConditionID != b[i].SelectedConditionID {
			return false
		}
	}
	return true
}

func conditionsSubset(conditions []models.FlowCondition, ids map[string]bool) bool {
	for _, c := range conditions {
		if !ids[c.SelectedConditionID] {
			return false
		}
	}
	return true
}

// Group is the set of matched flows sharing one name. Same-named flows
// are alternate branches of the same setup and are surfaced together,
// unranked.
type Group struct {
	Name  string
	Flows []models.TradingFlow
}

// GroupByName groups matched flows by name, preserving first-seen
// order.
func GroupByName(flows []models.TradingFlow) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, f := range flows {
		i, ok := index[f.Name]
		if !ok {
			i = len(groups)
			index[f.Name] = i
			groups = append(groups, Group{Name: f.Name})
		}
		groups[i].Flows = append(groups[i].Flows, f)
	}
	return groups
}
