package models

import "time"

// ExecutionMode records which ledger(s) a trade belongs to.
type ExecutionMode string

const (
	ModeReal        ExecutionMode = "real"
	ModeTheoretical ExecutionMode = "theoretical"
	ModeBoth        ExecutionMode = "both"
)

// Valid reports whether m is a recognized execution mode.
func (m ExecutionMode) Valid() bool {
	return m == ModeReal || m == ModeTheoretical || m == ModeBoth
}

// LedgerModes lists the two concrete ledgers. ModeBoth is a tag on
// trades, not a ledger of its own.
func LedgerModes() []ExecutionMode {
	return []ExecutionMode{ModeReal, ModeTheoretical}
}

// CloseMode records how a trade was closed relative to the two ledgers.
type CloseMode string

const (
	CloseReal        CloseMode = "real"
	CloseTheoretical CloseMode = "theoretical"
	CloseBoth        CloseMode = "both"
)

// Outcome is the open/closed result of a trade.
type Outcome string

const (
	OutcomeOpen      Outcome = "Open"
	OutcomeWin       Outcome = "Win"
	OutcomeLoss      Outcome = "Loss"
	OutcomeBreakeven Outcome = "Breakeven"
)

// RulesFollowedStatus is a trade's post-hoc discipline label.
type RulesFollowedStatus string

const (
	RulesFollow     RulesFollowedStatus = "RULES FOLLOW"
	RulesNotFollow  RulesFollowedStatus = "NOT FOLLOW"
	RulesPartially  RulesFollowedStatus = "PARTIALLY FOLLOW"
	RulesMissEntry  RulesFollowedStatus = "MISS THE ENTRY"
	RulesEntryMiss  RulesFollowedStatus = "ENTRY MISS"
	RulesUnlabelled RulesFollowedStatus = ""
)

// TradeLogEntry is one timestamped note on a trade.
type TradeLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// Trade is one journal entry in a ledger. A trade tagged ModeBoth is
// mirrored into the real and theoretical ledgers under the same id and
// kept identical on every write.
type Trade struct {
	ID                 string              `json:"id"`
	Symbol             string              `json:"symbol"`
	PositionType       PositionType        `json:"positionType"`
	Quantity           int                 `json:"quantity"`
	EntryTime          time.Time           `json:"entryTime"`
	ExitTime           *time.Time          `json:"exitTime,omitempty"`
	EntryPrice         float64             `json:"entryPrice"`
	ExitPrice          *float64            `json:"exitPrice,omitempty"`
	PnL                *float64            `json:"pnl,omitempty"`
	Outcome            Outcome             `json:"outcome"`
	RulesFollowed      RulesFollowedStatus `json:"rulesFollowed,omitempty"`
	ExecutionMode      ExecutionMode       `json:"executionMode"`
	CloseMode          CloseMode           `json:"closeMode,omitempty"`
	StrategyID         string              `json:"strategyId,omitempty"`
	EntryFormulaID     string              `json:"entryFormulaId,omitempty"`
	StopLossFormulaIDs []string            `json:"stopLossFormulaIds,omitempty"`
	TargetFormulaIDs   []string            `json:"targetFormulaIds,omitempty"`
	TechnicalErrorIDs  []string            `json:"technicalErrorIds,omitempty"`
	EmotionIDs         []string            `json:"emotionIds,omitempty"`
	Log                []TradeLogEntry     `json:"log,omitempty"`
}

// Closed reports whether the trade has been closed out.
func (t Trade) Closed() bool {
	return t.Outcome != OutcomeOpen && t.ExitTime != nil
}

// RealizedPnL returns the trade's P&L, zero when still open.
func (t Trade) RealizedPnL() float64 {
	if t.PnL == nil {
		return 0
	}
	return *t.PnL
}
