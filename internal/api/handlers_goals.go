package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/services"
)

func (handler *Handler) ListGoals(c *fiber.Ctx) error {
	query := services.GoalQuery{Search: c.Query("q")}
	var err error
	if query.Completed, err = parseOptionalBool(c, "completed"); err != nil {
		return handler.writeError(c, err)
	}
	if query.DueBefore, err = parseTimeQuery(c, "due_before"); err != nil {
		return handler.writeError(c, err)
	}
	if query.Sort, err = parseSort(c); err != nil {
		return handler.writeError(c, err)
	}
	if query.Limit, err = parseLimit(c); err != nil {
		return handler.writeError(c, err)
	}

	goals, err := services.Collect(handler.store.FetchGoals(c.UserContext(), query))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": mapViews(goals, newGoalView),
		"seq":   handler.journal.CurrentSeq(),
	})
}

func (handler *Handler) GetGoal(c *fiber.Ctx) error {
	goal, err := handler.store.GetGoal(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(newGoalView(goal))
}

func (handler *Handler) CreateGoal(c *fiber.Ctx) error {
	payload := goalPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}
	mutation, err := journal.CreateGoal(payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusCreated)
}

func (handler *Handler) UpdateGoal(c *fiber.Ctx) error {
	payload := goalPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}
	mutation, err := journal.UpdateGoal(c.Params("id"), payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}

func (handler *Handler) UpdateGoalProgress(c *fiber.Ctx) error {
	payload := progressPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}
	mutation, err := journal.UpdateGoalProgress(c.Params("id"), payload.Progress)
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}

func (handler *Handler) DeleteGoal(c *fiber.Ctx) error {
	mutation, err := journal.DeleteGoal(c.Params("id"))
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}
