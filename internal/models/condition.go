// Package models provides domain models for the trading journal.
package models

// ConditionType identifies a category of discrete market observations.
type ConditionType string

const (
	ConditionDayType            ConditionType = "DAY TYPE"
	ConditionEMA15              ConditionType = "E(15)"
	ConditionCandleConfirmation ConditionType = "CANDLE CONFIRMATION"
	ConditionIBClose            ConditionType = "IB CLOSE"
	ConditionIBBreak            ConditionType = "IB BREAK"
	ConditionCPRSize            ConditionType = "CPR SIZE"
	ConditionBreakSide          ConditionType = "BREAK SIDE"
)

// ConditionTypes lists every known condition type in display order.
// Catalog lookups index off this list so a new type only needs a new
// constant and an entry here.
func ConditionTypes() []ConditionType {
	return []ConditionType{
		ConditionDayType,
		ConditionEMA15,
		ConditionCandleConfirmation,
		ConditionIBClose,
		ConditionIBBreak,
		ConditionCPRSize,
		ConditionBreakSide,
	}
}

// Valid reports whether t is a known condition type.
func (t ConditionType) Valid() bool {
	for _, known := range ConditionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Condition is a single named market observation within a category.
// A condition is immutable once a flow or time block references it.
type Condition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
