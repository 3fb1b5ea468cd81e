package models

import "time"

// OrderStatus is the lifecycle state of a live order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderExecuted  OrderStatus = "EXECUTED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// LiveOrder is a pending order awaiting execution or cancellation.
// Executing it produces a Trade carrying the same formula references.
type LiveOrder struct {
	ID                 string        `json:"id"`
	Symbol             string        `json:"symbol"`
	PositionType       PositionType  `json:"positionType"`
	Quantity           int           `json:"quantity"`
	Price              float64       `json:"price"`
	ExecutionMode      ExecutionMode `json:"executionMode"`
	StrategyID         string        `json:"strategyId,omitempty"`
	EntryFormulaID     string        `json:"entryFormulaId,omitempty"`
	StopLossFormulaIDs []string      `json:"stopLossFormulaIds,omitempty"`
	TargetFormulaIDs   []string      `json:"targetFormulaIds,omitempty"`
	Status             OrderStatus   `json:"status"`
	PlacedAt           time.Time     `json:"placedAt"`
}

// EntryAlert is an ephemeral suggestion emitted when a day's confirmed
// conditions match a flow. Cleared once acted upon or dismissed.
type EntryAlert struct {
	ID        string    `json:"id"`
	FlowID    string    `json:"flowId"`
	FlowName  string    `json:"flowName"`
	EdgeIDs   []string  `json:"edgeIds"`
	DateKey   string    `json:"dateKey"`
	CreatedAt time.Time `json:"createdAt"`
}

// PendingPullbackOrder is an ephemeral second-entry suggestion produced
// by a flow's follow-up branch after a win or loss.
type PendingPullbackOrder struct {
	ID          string    `json:"id"`
	FlowID      string    `json:"flowId"`
	FlowName    string    `json:"flowName"`
	SourceTrade string    `json:"sourceTradeId"`
	EdgeIDs     []string  `json:"edgeIds"`
	BreakTime   string    `json:"breakTime,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
