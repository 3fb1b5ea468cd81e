// Package store provides the authoritative application state container
// and its persistence.
package store

import (
	"sort"

	"tradevision/internal/models"
)

// SchemaVersion is the current snapshot schema version.
const SchemaVersion = 1

// TradeRecord is the authoritative record for one trade id. A trade
// tagged "both" carries two identical legs; single-mode trades carry
// one. Keeping both legs under one key removes the risk of the two
// ledgers drifting apart on update.
type TradeRecord struct {
	Real        *models.Trade `json:"real,omitempty"`
	Theoretical *models.Trade `json:"theoretical,omitempty"`
}

// Leg returns the leg for the given ledger mode, nil when absent.
func (r *TradeRecord) Leg(mode models.ExecutionMode) *models.Trade {
	switch mode {
	case models.ModeReal:
		return r.Real
	case models.ModeTheoretical:
		return r.Theoretical
	}
	return nil
}

// RealPnL returns the realized P&L of the real leg, zero when absent.
func (r *TradeRecord) RealPnL() float64 {
	if r.Real == nil {
		return 0
	}
	return r.Real.RealizedPnL()
}

// TheoreticalPnL returns the realized P&L of the theoretical leg. When
// no theoretical leg exists it falls back to the real leg's P&L so that
// missing theoretical data never counts as divergence.
func (r *TradeRecord) TheoreticalPnL() float64 {
	if r.Theoretical != nil {
		return r.Theoretical.RealizedPnL()
	}
	return r.RealPnL()
}

// ModeData holds every per-ledger entity collection. The application
// keeps two of these, one per trading mode.
type ModeData struct {
	Catalog         map[models.ConditionType][]models.Condition `json:"conditions"`
	RecurringBlocks []models.TimeBlock                          `json:"timeBlocks"`
	DailyPlans      map[string]*models.DailyPlan                `json:"dailyPlans"`
	Flows           []models.TradingFlow                        `json:"tradingFlows"`
	EdgeFlows       []models.LogicalEdgeFlow                    `json:"logicalEdgeFlows"`
	Edges           []models.Edge                               `json:"edges"`
	Formulas        []models.Formula                            `json:"formulas"`
	PsychologyRules []models.PsychologyRule                     `json:"psychologyRules"`
	Orders          []models.LiveOrder                          `json:"liveOrders"`
	Alerts          []models.EntryAlert                         `json:"entryAlerts"`
	Pullbacks       []models.PendingPullbackOrder               `json:"pendingPullbackOrders"`
	Activities      []models.DayActivity                        `json:"dayActivities"`
}

// NewModeData returns an empty per-mode collection set.
func NewModeData() *ModeData {
	return &ModeData{
		Catalog:    make(map[models.ConditionType][]models.Condition),
		DailyPlans: make(map[string]*models.DailyPlan),
	}
}

// Settings holds the scalar settings shared across both modes.
type Settings struct {
	LongTradeLimit  float64 `json:"longTradeLimit"`
	ShortTradeLimit float64 `json:"shortTradeLimit"`
}

// State is the whole application state. All mutation goes through
// Store.Apply so multi-collection writes stay atomic.
type State struct {
	Trades   map[string]*TradeRecord
	Modes    map[models.ExecutionMode]*ModeData
	Settings Settings
}

// NewState returns an empty state with both mode workspaces allocated.
func NewState() *State {
	return &State{
		Trades: make(map[string]*TradeRecord),
		Modes: map[models.ExecutionMode]*ModeData{
			models.ModeReal:        NewModeData(),
			models.ModeTheoretical: NewModeData(),
		},
	}
}

// Mode returns the collection set for a ledger mode, allocating it on
// first use. ModeBoth has no workspace of its own.
func (s *State) Mode(mode models.ExecutionMode) *ModeData {
	if mode == models.ModeBoth {
		mode = models.ModeReal
	}
	data, ok := s.Modes[mode]
	if !ok {
		data = NewModeData()
		s.Modes[mode] = data
	}
	return data
}

// Record returns the trade record for id, nil when unknown.
func (s *State) Record(id string) *TradeRecord {
	return s.Trades[id]
}

// TradesFor returns the derived ledger view for one mode: every leg
// recorded under that mode, ordered by entry time then id.
func (s *State) TradesFor(mode models.ExecutionMode) []models.Trade {
	var trades []models.Trade
	for _, rec := range s.Trades {
		if leg := rec.Leg(mode); leg != nil {
			trades = append(trades, *leg)
		}
	}
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].EntryTime.Equal(trades[j].EntryTime) {
			return trades[i].EntryTime.Before(trades[j].EntryTime)
		}
		return trades[i].ID < trades[j].ID
	})
	return trades
}

// ClosedTradesOn returns the closed trades of one ledger for a calendar
// day, ascending by exit time. The scorer depends on this ordering.
func (s *State) ClosedTradesOn(mode models.ExecutionMode, dateKey string) []models.Trade {
	var trades []models.Trade
	for _, t := range s.TradesFor(mode) {
		if !t.Closed() {
			continue
		}
		if t.ExitTime.Format(models.DateKeyLayout) != dateKey {
			continue
		}
		trades = append(trades, t)
	}
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].ExitTime.Equal(*trades[j].ExitTime) {
			return trades[i].ExitTime.Before(*trades[j].ExitTime)
		}
		return trades[i].ID < trades[j].ID
	})
	return trades
}

// ConditionReferenced reports whether a condition id is referenced by
// any flow or time block in the given mode workspace.
func (s *State) ConditionReferenced(mode models.ExecutionMode, conditionID string) bool {
	data := s.Mode(mode)

	for _, f := range data.Flows {
		for _, c := range f.Conditions {
			if c.SelectedConditionID == conditionID {
				return true
			}
		}
	}
	for _, f := range data.EdgeFlows {
		for _, c := range f.Conditions {
			if c.SelectedConditionID == conditionID {
				return true
			}
		}
	}
	for _, b := range data.RecurringBlocks {
		if b.ConditionID == conditionID {
			return true
		}
		for _, id := range b.DailyOverrides {
			if id == conditionID {
				return true
			}
		}
	}
	for _, plan := range data.DailyPlans {
		for _, b := range plan.Blocks {
			if b.ConditionID == conditionID {
				return true
			}
			for _, id := range b.DailyOverrides {
				if id == conditionID {
					return true
				}
			}
		}
	}
	return false
}
