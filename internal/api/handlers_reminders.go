package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListReminders(c *fiber.Ctx) error {
	pending, err := handler.reminders.ListPending(c.UserContext())
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(fiber.Map{"items": pending})
}

func (handler *Handler) GetReminderState(c *fiber.Ctx) error {
	state, err := handler.reminders.State(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(state)
}

// ScheduleReminder sets or replaces the reminder for an activity. Without a
// trigger_at in the body it fires reminderLead before the activity starts.
func (handler *Handler) ScheduleReminder(c *fiber.Ctx) error {
	payload := reminderPayload{}
	if len(c.Body()) > 0 {
		if err := parseBody(c, &payload); err != nil {
			return handler.writeError(c, err)
		}
	}

	ctx := c.UserContext()
	id := c.Params("id")
	var triggerAt time.Time
	if payload.TriggerAt != nil {
		triggerAt = *payload.TriggerAt
	} else {
		activity, err := handler.store.GetActivity(ctx, id)
		if err != nil {
			return handler.writeError(c, err)
		}
		triggerAt = activity.Date.Add(-handler.reminderLead)
	}

	reminder, err := handler.reminders.Schedule(ctx, id, triggerAt)
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(reminder)
}

func (handler *Handler) CancelReminder(c *fiber.Ctx) error {
	if err := handler.reminders.Cancel(c.UserContext(), c.Params("id")); err != nil {
		return handler.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ReconcileReminders(c *fiber.Ctx) error {
	report, err := handler.reminders.Reconcile(c.UserContext())
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(report)
}
