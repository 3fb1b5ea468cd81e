package notify

import (
	"fmt"
	"sync"
	"time"

	"tradevision/internal/models"
	"tradevision/internal/schedule"
)

// AlarmMonitor watches a day's blocks and notifies each firing alarm
// once. The fired set is keyed by block and date, so the same alarm can
// fire again on the next trading day.
type AlarmMonitor struct {
	notifier *Notifier
	fired    map[string]bool
	mu       sync.Mutex
}

// NewAlarmMonitor creates an alarm monitor delivering through n.
func NewAlarmMonitor(n *Notifier) *AlarmMonitor {
	return &AlarmMonitor{
		notifier: n,
		fired:    make(map[string]bool),
	}
}

// Check evaluates the alarm rule for every block and notifies the ones
// firing in the current minute that have not fired yet today.
func (m *AlarmMonitor) Check(blocks []models.TimeBlock, dateKey string, now time.Time) int {
	var count int
	for _, b := range blocks {
		if !schedule.AlarmDue(b, now) {
			continue
		}

		key := b.ID + "@" + dateKey
		m.mu.Lock()
		seen := m.fired[key]
		if !seen {
			m.fired[key] = true
		}
		m.mu.Unlock()
		if seen {
			continue
		}

		m.notifier.Notify(Notification{
			Kind:     KindAlarm,
			Title:    fmt.Sprintf("%s block at %s", b.ConditionType, b.Time),
			Message:  fmt.Sprintf("confirm block %s", b.ID),
			Priority: 2,
		})
		count++
	}
	return count
}

// Reset clears the fired set, re-arming every alarm.
func (m *AlarmMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fired = make(map[string]bool)
}

// NotifyEntryAlert announces a fresh flow entry suggestion.
func (n *Notifier) NotifyEntryAlert(alert models.EntryAlert) {
	n.Notify(Notification{
		Kind:     KindEntry,
		Title:    fmt.Sprintf("Flow matched: %s", alert.FlowName),
		Message:  fmt.Sprintf("%d edge(s) in play for %s", len(alert.EdgeIDs), alert.DateKey),
		Priority: 2,
	})
}

// NotifyPullback announces a pending pullback suggestion.
func (n *Notifier) NotifyPullback(p models.PendingPullbackOrder) {
	msg := fmt.Sprintf("after trade %s", p.SourceTrade)
	if p.BreakTime != "" {
		msg += " around " + p.BreakTime
	}
	n.Notify(Notification{
		Kind:     KindPullback,
		Title:    fmt.Sprintf("Pullback setup: %s", p.FlowName),
		Message:  msg,
		Priority: 1,
	})
}
