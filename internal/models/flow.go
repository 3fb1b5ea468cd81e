package models

// FlowCondition is one position in a trading flow's confirmed-condition
// sequence.
type FlowCondition struct {
	ConditionType       ConditionType `json:"conditionType"`
	SelectedConditionID string        `json:"selectedConditionId"`
}

// TargetStatus describes whether a target slot is active for a flow.
type TargetStatus string

const (
	TargetActive   TargetStatus = "ACTIVE"
	TargetInactive TargetStatus = "INACTIVE"
)

// TargetConfig is one target slot on a flow: the formulas that compute
// the target plus free-form parameters.
type TargetConfig struct {
	Status     TargetStatus      `json:"status"`
	FormulaIDs []string          `json:"formulaIds"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

// FlowResultType tags what result a flow is expected to produce.
type FlowResultType string

const (
	FlowResultWin      FlowResultType = "WIN"
	FlowResultLoss     FlowResultType = "LOSS"
	FlowResultOpposite FlowResultType = "OPPOSITE"
	FlowResultNeutral  FlowResultType = "NEUTRAL"
)

// TradingFlow is a declarative rule: if this condition sequence is
// confirmed, apply this edge and target configuration. Flows sharing a
// name represent alternate branches of the same setup.
type TradingFlow struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Conditions      []FlowCondition `json:"conditions"`
	TrendEdgeIDs    []string        `json:"trendEdgeIds"`
	OppositeEdgeIDs []string        `json:"oppositeEdgeIds"`
	TrendTarget1    TargetConfig    `json:"trendTarget1"`
	TrendTarget2    TargetConfig    `json:"trendTarget2"`
	OppositeTarget1 TargetConfig    `json:"oppositeTarget1"`
	OppositeTarget2 TargetConfig    `json:"oppositeTarget2"`
	ResultType      FlowResultType  `json:"resultType"`
}

// FollowUp describes the second-entry logic applied after a flow's
// first entry resolves.
type FollowUp struct {
	EdgeIDs    []string     `json:"edgeIds"`
	Target     TargetConfig `json:"target"`
	BreakTime  string       `json:"breakTime,omitempty"`
	Commentary string       `json:"commentary,omitempty"`
}

// LogicalEdgeFlow is the richer flow variant carrying option/day-type
// tags, structural-path selections and win/loss/opposite follow-up
// branches.
type LogicalEdgeFlow struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Conditions       []FlowCondition `json:"conditions"`
	OptionType       string          `json:"optionType,omitempty"`
	DayType          string          `json:"dayType,omitempty"`
	BreakTime        string          `json:"breakTime,omitempty"`
	StructuralPaths  []string        `json:"structuralPaths,omitempty"`
	TrendEdgeIDs     []string        `json:"trendEdgeIds"`
	OppositeEdgeIDs  []string        `json:"oppositeEdgeIds"`
	WinFollowUp      *FollowUp       `json:"winFollowUp,omitempty"`
	LossFollowUp     *FollowUp       `json:"lossFollowUp,omitempty"`
	OppositeFollowUp *FollowUp       `json:"oppositeFollowUp,omitempty"`
}
