// Package notify holds the local notification capability: where pending
// reminders wait and how due ones get delivered.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrInvalidNotification = errors.New("invalid notification")

// Notification is one pending local notification. Identifier is unique
// within a center; scheduling the same identifier again replaces the entry.
type Notification struct {
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	TriggerAt  time.Time `json:"trigger_at"`
}

// Center is the platform notification capability.
type Center interface {
	// RequestAuthorization reports whether notifications may be shown.
	RequestAuthorization(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, notification Notification) error
	// Cancel removes the identifiers that exist and ignores the rest.
	Cancel(ctx context.Context, identifiers ...string) error
	// ListPending returns every pending entry, including ones other
	// schedulers added.
	ListPending(ctx context.Context) ([]Notification, error)
}

// DueSource hands out entries whose trigger has passed. An entry returned by
// PopDue has left the pending set.
type DueSource interface {
	PopDue(ctx context.Context, now time.Time) ([]Notification, error)
}

// Queue is a center that the Dispatcher can drain.
type Queue interface {
	Center
	DueSource
}

func validate(notification Notification) error {
	if strings.TrimSpace(notification.Identifier) == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidNotification)
	}
	if notification.TriggerAt.IsZero() {
		return fmt.Errorf("%w: missing trigger time", ErrInvalidNotification)
	}
	return nil
}

func sortByTrigger(notifications []Notification) {
	sort.Slice(notifications, func(i, j int) bool {
		if notifications[i].TriggerAt.Equal(notifications[j].TriggerAt) {
			return notifications[i].Identifier < notifications[j].Identifier
		}
		return notifications[i].TriggerAt.Before(notifications[j].TriggerAt)
	})
}
