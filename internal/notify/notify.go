// Package notify delivers terminal notifications for schedule alarms
// and flow suggestions.
package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Kind classifies a notification.
type Kind int

const (
	KindAlarm Kind = iota
	KindEntry
	KindPullback
	KindInfo
)

// Notification is one message queued for terminal delivery.
type Notification struct {
	Kind      Kind
	Title     string
	Message   string
	Timestamp time.Time
	Priority  int // higher rings the bell
}

// Handler consumes a delivered notification.
type Handler func(n Notification)

// Notifier queues notifications and fans them out to handlers. The
// buffer drops the oldest entry when full; a slow terminal never blocks
// the producer.
type Notifier struct {
	notifications chan Notification
	handlers      []Handler
	mu            sync.RWMutex
	bellEnabled   bool
	colorEnabled  bool
}

// NewNotifier creates a notifier with the given buffer size.
func NewNotifier(bufferSize int) *Notifier {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &Notifier{
		notifications: make(chan Notification, bufferSize),
		bellEnabled:   true,
		colorEnabled:  true,
	}
}

// SetBellEnabled enables or disables the terminal bell.
func (n *Notifier) SetBellEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bellEnabled = enabled
}

// SetColorEnabled enables or disables colored output.
func (n *Notifier) SetColorEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.colorEnabled = enabled
}

// AddHandler registers a delivery handler.
func (n *Notifier) AddHandler(h Handler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, h)
}

// Notify queues a notification.
func (n *Notifier) Notify(notif Notification) {
	if notif.Timestamp.IsZero() {
		notif.Timestamp = time.Now()
	}

	select {
	case n.notifications <- notif:
	default:
		// Buffer full, drop the oldest.
		select {
		case <-n.notifications:
		default:
		}
		n.notifications <- notif
	}
}

// Start processes queued notifications until the context ends.
func (n *Notifier) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case notif := <-n.notifications:
				n.deliver(notif)
			}
		}
	}()
}

func (n *Notifier) deliver(notif Notification) {
	n.mu.RLock()
	handlers := n.handlers
	bellEnabled := n.bellEnabled
	n.mu.RUnlock()

	if bellEnabled && notif.Priority > 0 {
		fmt.Print("\a")
	}
	for _, h := range handlers {
		h(notif)
	}
}

// Format renders a notification for terminal display.
func Format(n Notification, colorEnabled bool) string {
	var label, color, reset string
	if colorEnabled {
		reset = "\033[0m"
	}

	switch n.Kind {
	case KindAlarm:
		label = "ALARM"
		if colorEnabled {
			color = "\033[33m"
		}
	case KindEntry:
		label = "ENTRY"
		if colorEnabled {
			color = "\033[36m"
		}
	case KindPullback:
		label = "PULLBACK"
		if colorEnabled {
			color = "\033[35m"
		}
	default:
		label = "INFO"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s[%s] %-8s%s %s", color, n.Timestamp.Format("15:04:05"), label, reset, n.Title))
	if n.Message != "" {
		sb.WriteString(" | ")
		sb.WriteString(n.Message)
	}
	return sb.String()
}

// DefaultHandler prints notifications to stdout.
func DefaultHandler(colorEnabled bool) Handler {
	return func(n Notification) {
		fmt.Println(Format(n, colorEnabled))
	}
}
