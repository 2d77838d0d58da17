package reminders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/notify"
	"github.com/terraincognita07/pitchlog/internal/services"
)

// ActivityReader is the part of the entity store the scheduler reads.
type ActivityReader interface {
	GetActivity(ctx context.Context, id string) (models.Activity, error)
	JoinDetail(ctx context.Context, activityID string) (services.Detail, bool, error)
}

// Scheduler maps each activity to at most one pending notification in a
// Center. It talks to the center directly; store writes do not pass through
// it, so callers pair activity deletes with Cancel and Reconcile repairs what
// a failed pairing leaves behind.
type Scheduler struct {
	center     notify.Center
	activities ActivityReader
	composer   *Composer
	log        logrus.FieldLogger
	now        func() time.Time
	locks      *keyedMutex

	authMu     sync.Mutex
	authorized bool
	authAsked  bool

	stateMu sync.Mutex
	settled map[string]Status
}

type Option func(*Scheduler)

func WithLogger(log logrus.FieldLogger) Option {
	return func(scheduler *Scheduler) {
		if log != nil {
			scheduler.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(scheduler *Scheduler) {
		if now != nil {
			scheduler.now = now
		}
	}
}

func NewScheduler(center notify.Center, activities ActivityReader, composer *Composer, opts ...Option) *Scheduler {
	scheduler := &Scheduler{
		center:     center,
		activities: activities,
		composer:   composer,
		log:        logrus.StandardLogger(),
		now:        time.Now,
		locks:      newKeyedMutex(),
		settled:    make(map[string]Status),
	}
	for _, opt := range opts {
		opt(scheduler)
	}
	scheduler.log = scheduler.log.WithField("component", "reminders")
	return scheduler
}

// Schedule sets the activity's reminder to fire at triggerAt, replacing any
// pending one. If adding the new entry fails the previous one is restored.
func (scheduler *Scheduler) Schedule(ctx context.Context, activityID string, triggerAt time.Time) (Reminder, error) {
	if strings.TrimSpace(activityID) == "" {
		return Reminder{}, &services.ValidationError{Field: "activity_id", Reason: services.ReasonRequired}
	}
	// Same resolution as stored activity dates, so the ordering check compares
	// like with like.
	triggerAt = services.NormalizeInstant(triggerAt)
	now := scheduler.now().UTC()
	if !triggerAt.After(now) {
		scheduleFailures.WithLabelValues("invalid_time").Inc()
		return Reminder{}, fmt.Errorf("%w: %s", ErrInvalidTime, triggerAt.Format(time.RFC3339))
	}

	activity, err := scheduler.activities.GetActivity(ctx, activityID)
	if err != nil {
		scheduleFailures.WithLabelValues("activity").Inc()
		return Reminder{}, err
	}
	if triggerAt.After(activity.Date) {
		scheduleFailures.WithLabelValues("ordering").Inc()
		return Reminder{}, fmt.Errorf("%w: %s is after %s", ErrOrdering, triggerAt.Format(time.RFC3339), activity.Date.UTC().Format(time.RFC3339))
	}

	if err := scheduler.authorize(ctx); err != nil {
		scheduleFailures.WithLabelValues("permission").Inc()
		return Reminder{}, err
	}

	detail, hasDetail, err := scheduler.activities.JoinDetail(ctx, activityID)
	if err != nil {
		scheduleFailures.WithLabelValues("activity").Inc()
		return Reminder{}, err
	}
	title, body := scheduler.composer.Compose(activity, detail, hasDetail)

	identifier := Identifier(activityID)
	notification := notify.Notification{
		Identifier: identifier,
		Title:      title,
		Body:       body,
		TriggerAt:  triggerAt,
	}

	unlock := scheduler.locks.Lock(identifier)
	defer unlock()

	previous, hadPrevious, err := scheduler.pending(ctx, identifier)
	if err != nil {
		scheduleFailures.WithLabelValues("center").Inc()
		return Reminder{}, err
	}
	if err := scheduler.center.Cancel(ctx, identifier); err != nil {
		scheduleFailures.WithLabelValues("center").Inc()
		return Reminder{}, fmt.Errorf("replace reminder %s: %w", identifier, err)
	}
	if err := scheduler.center.Schedule(ctx, notification); err != nil {
		scheduleFailures.WithLabelValues("center").Inc()
		if hadPrevious {
			if restoreErr := scheduler.center.Schedule(context.WithoutCancel(ctx), previous); restoreErr != nil {
				scheduler.log.WithError(restoreErr).WithField("identifier", identifier).Error("restore previous reminder failed")
			}
		}
		return Reminder{}, fmt.Errorf("schedule reminder %s: %w", identifier, err)
	}

	scheduler.settle(identifier, StatusPending)
	scheduledTotal.Inc()
	scheduler.log.WithFields(logrus.Fields{"identifier": identifier, "trigger_at": triggerAt}).Info("reminder scheduled")
	return reminderFrom(notification, activityID), nil
}

// Cancel removes the activity's pending reminder. No pending reminder is not
// an error.
func (scheduler *Scheduler) Cancel(ctx context.Context, activityID string) error {
	identifier := Identifier(activityID)
	unlock := scheduler.locks.Lock(identifier)
	defer unlock()

	_, wasPending, err := scheduler.pending(ctx, identifier)
	if err != nil {
		return err
	}
	if !wasPending {
		return nil
	}
	if err := scheduler.center.Cancel(ctx, identifier); err != nil {
		return fmt.Errorf("cancel reminder %s: %w", identifier, err)
	}

	scheduler.settle(identifier, StatusCancelled)
	cancelledTotal.Inc()
	scheduler.log.WithField("identifier", identifier).Info("reminder cancelled")
	return nil
}

// ListPending returns this journal's pending reminders ordered by trigger
// time. Entries under other naming conventions are left out.
func (scheduler *Scheduler) ListPending(ctx context.Context) ([]Reminder, error) {
	pending, err := scheduler.center.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending reminders: %w", err)
	}

	result := make([]Reminder, 0, len(pending))
	for _, notification := range pending {
		activityID, ok := ActivityID(notification.Identifier)
		if !ok {
			continue
		}
		result = append(result, reminderFrom(notification, activityID))
	}
	pendingGauge.Set(float64(len(result)))
	return result, nil
}

// State reports the activity's reminder state. Cancelled and Fired are only
// known for reminders this process saw settle.
func (scheduler *Scheduler) State(ctx context.Context, activityID string) (State, error) {
	identifier := Identifier(activityID)
	notification, found, err := scheduler.pending(ctx, identifier)
	if err != nil {
		return State{}, err
	}
	if found {
		return State{Status: StatusPending, TriggerAt: notification.TriggerAt.UTC()}, nil
	}

	scheduler.stateMu.Lock()
	defer scheduler.stateMu.Unlock()
	switch status := scheduler.settled[identifier]; status {
	case StatusCancelled, StatusFired:
		return State{Status: status}, nil
	default:
		return State{Status: StatusNoReminder}, nil
	}
}

// MarkFired records that a notification left the pending set by firing. It
// matches the dispatcher's fired hook and ignores foreign identifiers.
func (scheduler *Scheduler) MarkFired(notification notify.Notification) {
	if _, ok := ActivityID(notification.Identifier); !ok {
		return
	}
	scheduler.settle(notification.Identifier, StatusFired)
	firedTotal.Inc()
}

func (scheduler *Scheduler) authorize(ctx context.Context) error {
	scheduler.authMu.Lock()
	defer scheduler.authMu.Unlock()

	if !scheduler.authAsked {
		granted, err := scheduler.center.RequestAuthorization(ctx)
		if err != nil {
			return fmt.Errorf("request notification permission: %w", err)
		}
		scheduler.authorized = granted
		scheduler.authAsked = true
	}
	if !scheduler.authorized {
		return ErrPermissionDenied
	}
	return nil
}

func (scheduler *Scheduler) pending(ctx context.Context, identifier string) (notify.Notification, bool, error) {
	pending, err := scheduler.center.ListPending(ctx)
	if err != nil {
		return notify.Notification{}, false, fmt.Errorf("list pending reminders: %w", err)
	}
	for _, notification := range pending {
		if notification.Identifier == identifier {
			return notification, true, nil
		}
	}
	return notify.Notification{}, false, nil
}

func (scheduler *Scheduler) settle(identifier string, status Status) {
	scheduler.stateMu.Lock()
	defer scheduler.stateMu.Unlock()
	if status == StatusPending {
		delete(scheduler.settled, identifier)
		return
	}
	scheduler.settled[identifier] = status
}

func reminderFrom(notification notify.Notification, activityID string) Reminder {
	return Reminder{
		ActivityID: activityID,
		Identifier: notification.Identifier,
		Title:      notification.Title,
		Body:       notification.Body,
		TriggerAt:  notification.TriggerAt.UTC(),
	}
}
