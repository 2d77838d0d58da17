package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/pitchlog/internal/services"
)

type ReconcileReport struct {
	Checked   int `json:"checked"`
	Cancelled int `json:"cancelled"`
}

// Reconcile cancels pending reminders the store no longer supports: the
// activity is gone, or it moved to before the trigger time. Running it
// again changes nothing.
func (scheduler *Scheduler) Reconcile(ctx context.Context) (ReconcileReport, error) {
	pending, err := scheduler.ListPending(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}

	report := ReconcileReport{}
	for _, reminder := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		cancelled, err := scheduler.reconcileOne(ctx, reminder)
		if err != nil {
			return report, err
		}
		if cancelled {
			report.Cancelled++
		}
	}
	return report, nil
}

// ReconcileActivity applies the same check to one activity's reminder, for
// callers that just changed that activity. It reports whether a reminder was
// cancelled.
func (scheduler *Scheduler) ReconcileActivity(ctx context.Context, activityID string) (bool, error) {
	notification, found, err := scheduler.pending(ctx, Identifier(activityID))
	if err != nil || !found {
		return false, err
	}
	return scheduler.reconcileOne(ctx, reminderFrom(notification, activityID))
}

func (scheduler *Scheduler) reconcileOne(ctx context.Context, reminder Reminder) (bool, error) {
	stale, reason, err := scheduler.isStale(ctx, reminder)
	if err != nil || !stale {
		return false, err
	}
	if err := scheduler.Cancel(ctx, reminder.ActivityID); err != nil {
		return false, err
	}
	scheduler.log.WithFields(logrus.Fields{"identifier": reminder.Identifier, "reason": reason}).Info("stale reminder cancelled")
	return true, nil
}

func (scheduler *Scheduler) isStale(ctx context.Context, reminder Reminder) (bool, string, error) {
	activity, err := scheduler.activities.GetActivity(ctx, reminder.ActivityID)
	if errors.Is(err, services.ErrNotFound) {
		return true, "activity_deleted", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("reconcile %s: %w", reminder.Identifier, err)
	}
	if reminder.TriggerAt.After(activity.Date) {
		return true, "after_activity", nil
	}
	return false, "", nil
}

// StartReconciler runs Reconcile once and then every interval until ctx ends.
func (scheduler *Scheduler) StartReconciler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		scheduler.reconcileAndLog(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scheduler.reconcileAndLog(ctx)
			}
		}
	}()
}

func (scheduler *Scheduler) reconcileAndLog(ctx context.Context) {
	report, err := scheduler.Reconcile(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		scheduler.log.WithError(err).Warn("reminder reconciliation failed")
		return
	}
	if report.Cancelled > 0 {
		scheduler.log.WithFields(logrus.Fields{"checked": report.Checked, "cancelled": report.Cancelled}).Info("reminders reconciled")
	}
}
