// Package ledger mutates the real and theoretical trade ledgers while
// keeping mirrored trades consistent.
package ledger

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/ids"
	"tradevision/internal/logging"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// Service applies ledger mutations through the state container. Every
// operation is a single state transaction; a trade tagged "both" is
// written to, updated in and removed from both ledgers atomically.
type Service struct {
	store  *store.Store
	logger zerolog.Logger
}

// NewService creates a ledger service.
func NewService(st *store.Store, logger zerolog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// AddTrade records a new trade. An empty id gets a generated one; the
// id is returned either way.
func (s *Service) AddTrade(t models.Trade) (string, error) {
	if !t.ExecutionMode.Valid() {
		return "", apperrors.ErrInvalidMode
	}
	if t.ID == "" {
		t.ID = ids.New()
	}
	if t.Outcome == "" {
		t.Outcome = models.OutcomeOpen
	}

	err := s.store.Apply(func(state *store.State) error {
		if _, ok := state.Trades[t.ID]; ok {
			return apperrors.NewLedgerError(t.ID, "add", apperrors.ErrTradeExists)
		}
		state.Trades[t.ID] = recordFor(t)
		appendActivity(state, t.ExecutionMode, models.ActivityTrade,
			"TRADE_ADDED", fmt.Sprintf("%s %s @ %.2f [%s]", t.Symbol, t.PositionType, t.EntryPrice, t.ExecutionMode))
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.LogTrade(s.logger, "add", t.ID, t.Symbol, string(t.ExecutionMode))
	return t.ID, nil
}

// UpdateTrade replaces a trade's fields. A both-tagged trade updates
// both legs identically; a single-mode trade touches only its ledger.
func (s *Service) UpdateTrade(t models.Trade) error {
	if !t.ExecutionMode.Valid() {
		return apperrors.ErrInvalidMode
	}

	err := s.store.Apply(func(state *store.State) error {
		rec, ok := state.Trades[t.ID]
		if !ok {
			return apperrors.NewLedgerError(t.ID, "update", apperrors.ErrTradeNotFound)
		}
		writeLegs(rec, t)
		return nil
	})
	if err != nil {
		return err
	}

	logging.LogTrade(s.logger, "update", t.ID, t.Symbol, string(t.ExecutionMode))
	return nil
}

// DeleteTrade removes a trade from the ledgers its mode names. Removing
// the last leg drops the record entirely.
func (s *Service) DeleteTrade(id string, mode models.ExecutionMode) error {
	if !mode.Valid() {
		return apperrors.ErrInvalidMode
	}

	err := s.store.Apply(func(state *store.State) error {
		rec, ok := state.Trades[id]
		if !ok {
			return apperrors.NewLedgerError(id, "delete", apperrors.ErrTradeNotFound)
		}

		switch mode {
		case models.ModeBoth:
			rec.Real, rec.Theoretical = nil, nil
		case models.ModeReal:
			rec.Real = nil
		case models.ModeTheoretical:
			rec.Theoretical = nil
		}
		if rec.Real == nil && rec.Theoretical == nil {
			delete(state.Trades, id)
		}

		appendActivity(state, mode, models.ActivityTrade, "TRADE_DELETED", id)
		return nil
	})
	if err != nil {
		return err
	}

	logging.LogTrade(s.logger, "delete", id, "", string(mode))
	return nil
}

// CloseTrade closes a trade: exit time and price, realized P&L, the
// win/loss outcome and the close-mode label. All legs named by the
// trade's execution mode close identically in one transaction.
func (s *Service) CloseTrade(id string, exitTime time.Time, exitPrice float64, closeMode models.CloseMode, rules models.RulesFollowedStatus) error {
	err := s.store.Apply(func(state *store.State) error {
		rec, ok := state.Trades[id]
		if !ok {
			return apperrors.NewLedgerError(id, "close", apperrors.ErrTradeNotFound)
		}

		leg := firstLeg(rec)
		if leg == nil {
			return apperrors.NewLedgerError(id, "close", apperrors.ErrTradeNotFound)
		}
		if leg.Closed() {
			return apperrors.NewLedgerError(id, "close", apperrors.ErrTradeClosed)
		}

		closed := *leg
		closed.ExitTime = &exitTime
		closed.ExitPrice = &exitPrice
		pnl := realizedPnL(closed, exitPrice)
		closed.PnL = &pnl
		closed.Outcome = outcomeFor(pnl)
		closed.CloseMode = closeMode
		closed.RulesFollowed = rules

		writeLegs(rec, closed)
		appendActivity(state, closed.ExecutionMode, models.ActivityTrade,
			"TRADE_CLOSED", fmt.Sprintf("%s pnl %.2f [%s]", closed.Symbol, pnl, closeMode))
		return nil
	})
	if err != nil {
		return err
	}

	logging.LogTrade(s.logger, "close", id, "", string(closeMode))
	return nil
}

// LabelTrade sets a closed trade's discipline label and its psychology
// review references.
func (s *Service) LabelTrade(id string, rules models.RulesFollowedStatus, technicalErrorIDs, emotionIDs []string) error {
	return s.store.Apply(func(state *store.State) error {
		rec, ok := state.Trades[id]
		if !ok {
			return apperrors.NewLedgerError(id, "label", apperrors.ErrTradeNotFound)
		}
		leg := firstLeg(rec)
		if leg == nil {
			return apperrors.NewLedgerError(id, "label", apperrors.ErrTradeNotFound)
		}

		labelled := *leg
		labelled.RulesFollowed = rules
		labelled.TechnicalErrorIDs = technicalErrorIDs
		labelled.EmotionIDs = emotionIDs
		writeLegs(rec, labelled)
		return nil
	})
}

// AppendLog adds a timestamped note to a trade's log.
func (s *Service) AppendLog(id string, at time.Time, note string) error {
	return s.store.Apply(func(state *store.State) error {
		rec, ok := state.Trades[id]
		if !ok {
			return apperrors.NewLedgerError(id, "log", apperrors.ErrTradeNotFound)
		}
		leg := firstLeg(rec)
		if leg == nil {
			return apperrors.NewLedgerError(id, "log", apperrors.ErrTradeNotFound)
		}

		updated := *leg
		updated.Log = append(updated.Log, models.TradeLogEntry{Timestamp: at, Note: note})
		writeLegs(rec, updated)
		return nil
	})
}

// Trades returns one ledger's derived view.
func (s *Service) Trades(mode models.ExecutionMode) []models.Trade {
	var trades []models.Trade
	s.store.View(func(state *store.State) {
		trades = state.TradesFor(mode)
	})
	return trades
}

// Trade returns the leg of a trade visible in the given ledger.
func (s *Service) Trade(id string, mode models.ExecutionMode) (models.Trade, error) {
	var trade models.Trade
	err := apperrors.ErrTradeNotFound
	s.store.View(func(state *store.State) {
		if rec, ok := state.Trades[id]; ok {
			if leg := rec.Leg(mode); leg != nil {
				trade = *leg
				err = nil
			}
		}
	})
	return trade, err
}

// recordFor builds the authoritative record for a new trade: mirrored
// legs for "both", a single leg otherwise.
func recordFor(t models.Trade) *store.TradeRecord {
	rec := &store.TradeRecord{}
	writeLegs(rec, t)
	return rec
}

// writeLegs writes a trade into every leg its execution mode names,
// keeping mirrored legs field-for-field identical.
func writeLegs(rec *store.TradeRecord, t models.Trade) {
	switch t.ExecutionMode {
	case models.ModeBoth:
		real, theo := t, t
		rec.Real = &real
		rec.Theoretical = &theo
	case models.ModeReal:
		real := t
		rec.Real = &real
	case models.ModeTheoretical:
		theo := t
		rec.Theoretical = &theo
	}
}

func firstLeg(rec *store.TradeRecord) *models.Trade {
	if rec.Real != nil {
		return rec.Real
	}
	return rec.Theoretical
}

func realizedPnL(t models.Trade, exitPrice float64) float64 {
	qty := float64(t.Quantity)
	if qty == 0 {
		qty = 1
	}
	if t.PositionType == models.PositionShort {
		return (t.EntryPrice - exitPrice) * qty
	}
	return (exitPrice - t.EntryPrice) * qty
}

func outcomeFor(pnl float64) models.Outcome {
	switch {
	case pnl > 0:
		return models.OutcomeWin
	case pnl < 0:
		return models.OutcomeLoss
	}
	return models.OutcomeBreakeven
}

// appendActivity writes an audit entry into the workspace the mutation
// belongs to; both-mode mutations audit under the real workspace.
func appendActivity(state *store.State, mode models.ExecutionMode, category models.ActivityCategory, event, details string) {
	data := state.Mode(mode)
	data.Activities = append(data.Activities, models.DayActivity{
		ID:        ids.New(),
		Timestamp: time.Now(),
		Event:     event,
		Category:  category,
		Details:   details,
	})
}
