package ledger

import (
	"fmt"
	"time"

	apperrors "tradevision/internal/errors"
	"tradevision/internal/ids"
	"tradevision/internal/models"
	"tradevision/internal/store"
)

// PlaceOrder queues a live order awaiting execution or cancellation.
func (s *Service) PlaceOrder(o models.LiveOrder) (string, error) {
	if !o.ExecutionMode.Valid() {
		return "", apperrors.ErrInvalidMode
	}
	if o.ID == "" {
		o.ID = ids.New()
	}
	o.Status = models.OrderPending
	o.PlacedAt = time.Now()

	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(o.ExecutionMode)
		data.Orders = append(data.Orders, o)
		appendActivity(state, o.ExecutionMode, models.ActivityOrder,
			"ORDER_PLACED", fmt.Sprintf("%s %s @ %.2f", o.Symbol, o.PositionType, o.Price))
		return nil
	})
	if err != nil {
		return "", err
	}
	return o.ID, nil
}

// Orders returns the pending orders of a workspace.
func (s *Service) Orders(mode models.ExecutionMode) []models.LiveOrder {
	var orders []models.LiveOrder
	s.store.View(func(state *store.State) {
		for _, o := range state.Mode(mode).Orders {
			if o.Status == models.OrderPending {
				orders = append(orders, o)
			}
		}
	})
	return orders
}

// ExecuteOrder turns a pending order into a trade. The order leaves the
// queue and the trade lands in its ledgers inside one transaction, so a
// failed execution leaves the order queued for another attempt.
func (s *Service) ExecuteOrder(mode models.ExecutionMode, orderID string, at time.Time) (string, error) {
	var tradeID string

	err := s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		idx := -1
		for i, o := range data.Orders {
			if o.ID == orderID {
				idx = i
				break
			}
		}
		if idx == -1 {
			return apperrors.ErrOrderNotFound
		}
		order := data.Orders[idx]
		if order.Status != models.OrderPending {
			return apperrors.ErrOrderNotPending
		}

		trade := models.Trade{
			ID:                 ids.At(at),
			Symbol:             order.Symbol,
			PositionType:       order.PositionType,
			Quantity:           order.Quantity,
			EntryTime:          at,
			EntryPrice:         order.Price,
			Outcome:            models.OutcomeOpen,
			ExecutionMode:      order.ExecutionMode,
			StrategyID:         order.StrategyID,
			EntryFormulaID:     order.EntryFormulaID,
			StopLossFormulaIDs: order.StopLossFormulaIDs,
			TargetFormulaIDs:   order.TargetFormulaIDs,
		}
		if _, ok := state.Trades[trade.ID]; ok {
			return apperrors.NewLedgerError(trade.ID, "execute", apperrors.ErrTradeExists)
		}
		state.Trades[trade.ID] = recordFor(trade)
		tradeID = trade.ID

		data.Orders = append(data.Orders[:idx:idx], data.Orders[idx+1:]...)
		appendActivity(state, order.ExecutionMode, models.ActivityOrder,
			"ORDER_EXECUTED", fmt.Sprintf("%s -> trade %s", order.ID, trade.ID))
		return nil
	})
	if err != nil {
		return "", err
	}
	return tradeID, nil
}

// CancelOrder removes a pending order from the queue, recording the
// cancellation context in the day activity log.
func (s *Service) CancelOrder(mode models.ExecutionMode, orderID, reason string, priceAtTime float64) error {
	return s.store.Apply(func(state *store.State) error {
		data := state.Mode(mode)

		for i, o := range data.Orders {
			if o.ID != orderID {
				continue
			}
			if o.Status != models.OrderPending {
				return apperrors.ErrOrderNotPending
			}

			data.Orders = append(data.Orders[:i:i], data.Orders[i+1:]...)
			data.Activities = append(data.Activities, models.DayActivity{
				ID:        ids.New(),
				Timestamp: time.Now(),
				Event:     "ORDER_CANCELLED",
				Category:  models.ActivityOrder,
				Details:   o.Symbol,
				CancellationData: &models.CancellationData{
					OrderID:     o.ID,
					Reason:      reason,
					PriceAtTime: priceAtTime,
				},
			})
			return nil
		}
		return apperrors.ErrOrderNotFound
	})
}
