package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryCenter keeps pending notifications in process memory. It suits a
// single process; entries do not survive a restart.
type MemoryCenter struct {
	granted bool

	mu      sync.Mutex
	pending map[string]Notification
}

func NewMemoryCenter(granted bool) *MemoryCenter {
	return &MemoryCenter{
		granted: granted,
		pending: make(map[string]Notification),
	}
}

func (center *MemoryCenter) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return center.granted, nil
}

func (center *MemoryCenter) Schedule(ctx context.Context, notification Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(notification); err != nil {
		return err
	}

	center.mu.Lock()
	defer center.mu.Unlock()
	notification.TriggerAt = notification.TriggerAt.UTC()
	center.pending[notification.Identifier] = notification
	return nil
}

func (center *MemoryCenter) Cancel(ctx context.Context, identifiers ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	center.mu.Lock()
	defer center.mu.Unlock()
	for _, identifier := range identifiers {
		delete(center.pending, identifier)
	}
	return nil
}

func (center *MemoryCenter) ListPending(ctx context.Context) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	center.mu.Lock()
	result := make([]Notification, 0, len(center.pending))
	for _, notification := range center.pending {
		result = append(result, notification)
	}
	center.mu.Unlock()

	sortByTrigger(result)
	return result, nil
}

func (center *MemoryCenter) PopDue(ctx context.Context, now time.Time) ([]Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	center.mu.Lock()
	due := make([]Notification, 0)
	for identifier, notification := range center.pending {
		if notification.TriggerAt.After(now) {
			continue
		}
		due = append(due, notification)
		delete(center.pending, identifier)
	}
	center.mu.Unlock()

	sortByTrigger(due)
	return due, nil
}
