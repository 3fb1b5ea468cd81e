package models

// EdgeCategory classifies which side of the market an edge trades.
type EdgeCategory string

const (
	EdgeTrendSide    EdgeCategory = "Trend Side"
	EdgeOppositeSide EdgeCategory = "Opposite Side"
	EdgeShortEdge    EdgeCategory = "Short Edge"
)

// EdgeEntry bundles the formulas for one entry configuration of an edge.
type EdgeEntry struct {
	EntryFormulaIDs    []string `json:"entryFormulaIds"`
	StopLossFormulaIDs []string `json:"stopLossFormulaIds"`
	TargetFormulaIDs   []string `json:"targetFormulaIds"`
}

// Edge is a named trading setup with one or more entry configurations.
type Edge struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Category EdgeCategory `json:"category"`
	Entries  []EdgeEntry  `json:"entries"`
}

// FormulaType distinguishes what a formula computes.
type FormulaType string

const (
	FormulaEntry    FormulaType = "ENTRY"
	FormulaStopLoss FormulaType = "STOP_LOSS"
	FormulaTarget   FormulaType = "TARGET"
)

// PositionType is the direction of a trade or formula.
type PositionType string

const (
	PositionLong  PositionType = "Long"
	PositionShort PositionType = "Short"
)

// Formula is a named rule governing entry, stop-loss or target
// computation, attached to an edge entry or a trade.
type Formula struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         FormulaType  `json:"type"`
	PositionType PositionType `json:"positionType,omitempty"`
}
