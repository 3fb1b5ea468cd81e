package flow

import (
	"time"

	"github.com/rs/zerolog"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/ids"
	"tradevision/internal/logging"
	"tradevision/internal/models"
	"tradevision/internal/schedule"
	"tradevision/internal/store"
)

// MatchPolicy selects which of the two coexisting matching behaviors a
// dashboard uses.
type MatchPolicy string

const (
	// PolicyExact is the order- and length-sensitive sequence match.
	PolicyExact MatchPolicy = "exact"
	// PolicySubset is the order-insensitive quick match on the day's
	// confirmed id set.
	PolicySubset MatchPolicy = "subset"
)

// Service runs flow CRUD, day matching and entry suggestions on top of
// the state container.
type Service struct {
	store  *store.Store
	logger zerolog.Logger
}

// NewService creates a flow service.
func NewService(st *store.Store, logger zerolog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// List returns all trading flows of a mode workspace.
func (s *Service) List(mode models.ExecutionMode) []models.TradingFlow {
	var flows []models.TradingFlow
	s.store.View(func(state *store.State) {
		flows = append(flows, state.Mode(mode).Flows...)
	})
	return flows
}

// Add stores a new trading flow and returns its id.
func (s *Service) Add(mode models.ExecutionMode, f models.TradingFlow) (string, error) {
	if f.Name == "" {
		return "", apperrors.NewValidationError("name", f.Name, "flow name is required")
	}

	f.ID = ids.New()
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		data.Flows = append(data.Flows, f)
		return nil
	})
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// Delete removes a trading flow by id.
func (s *Service) Delete(mode models.ExecutionMode, id string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i, f := range data.Flows {
			if f.ID == id {
				data.Flows = append(data.Flows[:i:i], data.Flows[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrFlowNotFound
	})
}

// MatchDay runs the flow matcher for a date under the chosen policy and
// returns the matches grouped by flow name. An empty confirmed set
// yields an empty result, never an error.
func (s *Service) MatchDay(mode models.ExecutionMode, dateKey string, policy MatchPolicy) ([]Group, error) {
	var groups []Group
	var confirmed, matched int

	s.store.View(func(state *store.State) {
		data := state.Mode(mode)
		seq := ConfirmedSequence(schedule.EffectiveBlocks(data, dateKey), dateKey)
		confirmed = len(seq)

		var hits []models.TradingFlow
		switch policy {
		case PolicySubset:
			hits = MatchSubset(data.Flows, ConfirmedIDSet(seq))
		default:
			hits = MatchExact(data.Flows, seq)
		}
		matched = len(hits)
		groups = GroupByName(hits)
	})

	logging.LogFlowMatch(s.logger, dateKey, string(policy), confirmed, matched)
	return groups, nil
}

// SuggestEntries turns a day's matches into entry alerts and records
// them, skipping flows that already have an alert for the date. The
// alerts are ephemeral: acting on or dismissing one clears it.
func (s *Service) SuggestEntries(mode models.ExecutionMode, dateKey string, policy MatchPolicy, now time.Time) ([]models.EntryAlert, error) {
	groups, err := s.MatchDay(mode, dateKey, policy)
	if err != nil {
		return nil, err
	}

	var created []models.EntryAlert
	err = s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		existing := make(map[string]bool)
		for _, a := range data.Alerts {
			if a.DateKey == dateKey {
				existing[a.FlowID] = true
			}
		}

		for _, g := range groups {
			for _, f := range g.Flows {
				if existing[f.ID] {
					continue
				}
				alert := models.EntryAlert{
					ID:        ids.New(),
					FlowID:    f.ID,
					FlowName:  f.Name,
					EdgeIDs:   append(append([]string{}, f.TrendEdgeIDs...), f.OppositeEdgeIDs...),
					DateKey:   dateKey,
					CreatedAt: now,
				}
				data.Alerts = append(data.Alerts, alert)
				created = append(created, alert)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DismissAlert clears one entry alert.
func (s *Service) DismissAlert(mode models.ExecutionMode, alertID string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i, a := range data.Alerts {
			if a.ID == alertID {
				data.Alerts = append(data.Alerts[:i:i], data.Alerts[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrAlertNotFound
	})
}

// FollowUpFor picks the follow-up branch a logical edge flow prescribes
// after a trade resolves: win, loss, or the opposite branch when the
// flow expected the other side.
func FollowUpFor(f models.LogicalEdgeFlow, outcome models.Outcome) *models.FollowUp {
	switch outcome {
	case models.OutcomeWin:
		return f.WinFollowUp
	case models.OutcomeLoss:
		if f.LossFollowUp != nil {
			return f.LossFollowUp
		}
		return f.OppositeFollowUp
	}
	return nil
}

// SuggestPullbacks emits pending pullback orders for a closed trade:
// every logical edge flow matching the day's conditions whose follow-up
// branch applies to the trade's outcome produces one suggestion.
func (s *Service) SuggestPullbacks(mode models.ExecutionMode, dateKey string, trade models.Trade, now time.Time) ([]models.PendingPullbackOrder, error) {
	if !trade.Closed() {
		return nil, nil
	}

	var created []models.PendingPullbackOrder
	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		seq := ConfirmedSequence(schedule.EffectiveBlocks(data, dateKey), dateKey)
		matched := MatchEdgeFlowsSubset(data.EdgeFlows, ConfirmedIDSet(seq))

		for _, f := range matched {
			followUp := FollowUpFor(f, trade.Outcome)
			if followUp == nil {
				continue
			}
			order := models.PendingPullbackOrder{
				ID:          ids.New(),
				FlowID:      f.ID,
				FlowName:    f.Name,
				SourceTrade: trade.ID,
				EdgeIDs:     append([]string{}, followUp.EdgeIDs...),
				BreakTime:   followUp.BreakTime,
				CreatedAt:   now,
			}
			data.Pullbacks = append(data.Pullbacks, order)
			created = append(created, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DismissPullback clears one pending pullback suggestion.
func (s *Service) DismissPullback(mode models.ExecutionMode, orderID string) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)
		for i, p := range data.Pullbacks {
			if p.ID == orderID {
				data.Pullbacks = append(data.Pullbacks[:i:i], data.Pullbacks[i+1:]...)
				return nil
			}
		}
		return apperrors.ErrPullbackNotFound
	})
}
