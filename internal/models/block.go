package models

// DateKeyLayout is the layout for calendar date keys used across the
// schedule and daily plans.
const DateKeyLayout = "2006-01-02"

// BlockTimeLayout is the layout for a time block's scheduled time of day.
const BlockTimeLayout = "15:04"

// TimeBlock is a scheduled daily checkpoint at which a market condition
// must be observed and confirmed. A recurring block acts as a template;
// DailyOverrides records the as-confirmed condition per calendar date,
// keyed by yyyy-MM-dd. A block is confirmed for a day iff an override
// exists for that day's key.
type TimeBlock struct {
	ID             string            `json:"id"`
	Time           string            `json:"time"` // HH:mm
	ConditionType  ConditionType     `json:"conditionType"`
	ConditionID    string            `json:"conditionId"`
	DailyOverrides map[string]string `json:"dailyOverrides"`
	IsAlarmOn      bool              `json:"isAlarmOn"`
	IsRecurring    bool              `json:"isRecurring,omitempty"`
}

// ConfirmedFor reports whether the block has a confirmation recorded
// for the given date key.
func (b TimeBlock) ConfirmedFor(dateKey string) bool {
	_, ok := b.DailyOverrides[dateKey]
	return ok
}

// ResolvedCondition returns the effective condition id for the given
// date key: the daily override if present, else the block's default.
// The second result is false when neither resolves.
func (b TimeBlock) ResolvedCondition(dateKey string) (string, bool) {
	if id, ok := b.DailyOverrides[dateKey]; ok && id != "" {
		return id, true
	}
	if b.ConditionID != "" {
		return b.ConditionID, true
	}
	return "", false
}

// DailyPlan is a per-day materialization of the schedule. It can
// diverge from the recurring template; ad hoc blocks only exist inside
// a plan.
type DailyPlan struct {
	Date   string      `json:"date"`
	Blocks []TimeBlock `json:"blocks"`
}
