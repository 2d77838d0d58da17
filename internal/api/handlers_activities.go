package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

func (handler *Handler) ListActivities(c *fiber.Ctx) error {
	query := services.ActivityQuery{
		Kind:   strings.ToLower(strings.TrimSpace(c.Query("kind"))),
		Search: c.Query("q"),
	}
	var err error
	if query.From, err = parseTimeQuery(c, "from"); err != nil {
		return handler.writeError(c, err)
	}
	if query.To, err = parseTimeQuery(c, "to"); err != nil {
		return handler.writeError(c, err)
	}
	if query.Sort, err = parseSort(c); err != nil {
		return handler.writeError(c, err)
	}
	if query.Limit, err = parseLimit(c); err != nil {
		return handler.writeError(c, err)
	}

	activities, err := services.Collect(handler.store.FetchActivities(c.UserContext(), query))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": mapViews(activities, newActivityView),
		"seq":   handler.journal.CurrentSeq(),
	})
}

func (handler *Handler) GetActivity(c *fiber.Ctx) error {
	activity, err := handler.store.GetActivity(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(newActivityView(activity))
}

func (handler *Handler) GetActivityDetail(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	detail, found, err := handler.store.JoinDetail(ctx, id)
	if err != nil {
		return handler.writeError(c, err)
	}
	if !found {
		// Distinguish a missing activity from one without a detail yet.
		if _, err := handler.store.GetActivity(ctx, id); err != nil {
			return handler.writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(newDetailView(detail))
}

func (handler *Handler) CreateActivity(c *fiber.Ctx) error {
	payload := activityPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}

	mutation, err := journal.CreateActivity(payload.input(), payload.Match.input(), payload.Practice.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusCreated)
}

func (handler *Handler) UpdateActivity(c *fiber.Ctx) error {
	payload := activityPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}

	id := c.Params("id")
	mutation, err := journal.UpdateActivity(id, payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	ctx := c.UserContext()
	commit, err := handler.journal.Submit(ctx, mutation)
	if err != nil {
		return handler.writeError(c, err)
	}

	// A date moved before the pending trigger makes the reminder stale.
	if _, err := handler.reminders.ReconcileActivity(ctx, id); err != nil {
		handler.log.WithError(err).WithField("activity_id", id).Warn("reconcile reminder after update failed")
	}
	return mutationResponse(c, fiber.StatusOK, commit)
}

// DeleteActivity removes the activity and then its reminder. A failed
// cancel does not fail the request; reconciliation removes the orphan.
func (handler *Handler) DeleteActivity(c *fiber.Ctx) error {
	id := c.Params("id")
	mutation, err := journal.DeleteActivity(id)
	if err != nil {
		return handler.writeError(c, err)
	}
	ctx := c.UserContext()
	commit, err := handler.journal.Submit(ctx, mutation)
	if err != nil {
		return handler.writeError(c, err)
	}

	if err := handler.reminders.Cancel(ctx, id); err != nil {
		handler.log.WithError(err).WithField("activity_id", id).Warn("cancel reminder after delete failed")
	}
	return mutationResponse(c, fiber.StatusOK, commit)
}

func (handler *Handler) SaveMatchDetail(c *fiber.Ctx) error {
	payload := matchPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}

	mutation, err := journal.SaveMatchDetail(c.Params("id"), *payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}

func (handler *Handler) SavePracticeDetail(c *fiber.Ctx) error {
	payload := practicePayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}

	mutation, err := journal.SavePracticeDetail(c.Params("id"), *payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}

func (handler *Handler) ListMatches(c *fiber.Ctx) error {
	query, err := detailQueryFrom[models.MatchDetail](c)
	if err != nil {
		return handler.writeError(c, err)
	}
	matches, err := services.Collect(handler.store.FetchMatches(c.UserContext(), query))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": mapViews(matches, newMatchView),
		"seq":   handler.journal.CurrentSeq(),
	})
}

func (handler *Handler) ListPractices(c *fiber.Ctx) error {
	query, err := detailQueryFrom[models.PracticeDetail](c)
	if err != nil {
		return handler.writeError(c, err)
	}
	practices, err := services.Collect(handler.store.FetchPractices(c.UserContext(), query))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": mapViews(practices, newPracticeView),
		"seq":   handler.journal.CurrentSeq(),
	})
}

func detailQueryFrom[T any](c *fiber.Ctx) (services.DetailQuery[T], error) {
	query := services.DetailQuery[T]{Search: c.Query("q")}
	var err error
	if query.From, err = parseTimeQuery(c, "from"); err != nil {
		return query, err
	}
	if query.To, err = parseTimeQuery(c, "to"); err != nil {
		return query, err
	}
	if query.Sort, err = parseSort(c); err != nil {
		return query, err
	}
	if query.Limit, err = parseLimit(c); err != nil {
		return query, err
	}
	return query, nil
}
