package models

import "time"

// ActivityCategory groups day-activity entries for filtering.
type ActivityCategory string

const (
	ActivityTrade        ActivityCategory = "TRADE"
	ActivityOrder        ActivityCategory = "ORDER"
	ActivityConfirmation ActivityCategory = "CONFIRMATION"
	ActivityData         ActivityCategory = "DATA"
)

// CancellationData captures why and how a live order was cancelled.
type CancellationData struct {
	OrderID     string  `json:"orderId"`
	Reason      string  `json:"reason"`
	PriceAtTime float64 `json:"priceAtTime,omitempty"`
}

// DayActivity is one append-only audit record. Entries are never
// destructively mutated: edits keep OriginalState and archiving sets a
// flag instead of deleting.
type DayActivity struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Event            string            `json:"event"`
	Category         ActivityCategory  `json:"category"`
	Details          string            `json:"details,omitempty"`
	CancellationData *CancellationData `json:"cancellationData,omitempty"`
	IsArchived       bool              `json:"isArchived"`
	IsEdited         bool              `json:"isEdited"`
	OriginalState    string            `json:"originalState,omitempty"`
}

// PsychologyRuleCategory splits psychology rules into the two review
// checklists.
type PsychologyRuleCategory string

const (
	RuleTechnicalErrors PsychologyRuleCategory = "TECHNICAL ERRORS"
	RuleEmotions        PsychologyRuleCategory = "EMOTIONS"
)

// PsychologyRule is one reviewable technical-error or emotion item that
// trades reference via TechnicalErrorIDs / EmotionIDs.
type PsychologyRule struct {
	ID       string                 `json:"id"`
	Text     string                 `json:"text"`
	Category PsychologyRuleCategory `json:"category"`
}
