package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/services"
)

func (handler *Handler) ListReflections(c *fiber.Ctx) error {
	query := services.ReflectionQuery{ActivityID: strings.TrimSpace(c.Query("activity_id"))}
	var err error
	if query.From, err = parseTimeQuery(c, "from"); err != nil {
		return handler.writeError(c, err)
	}
	if query.To, err = parseTimeQuery(c, "to"); err != nil {
		return handler.writeError(c, err)
	}
	if raw := strings.TrimSpace(c.Query("min_mood")); raw != "" {
		if query.MinMood, err = strconv.Atoi(raw); err != nil {
			return handler.writeError(c, errInvalidQuery)
		}
	}
	if query.Sort, err = parseSort(c); err != nil {
		return handler.writeError(c, err)
	}
	if query.Limit, err = parseLimit(c); err != nil {
		return handler.writeError(c, err)
	}

	reflections, err := services.Collect(handler.store.FetchReflections(c.UserContext(), query))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": mapViews(reflections, newReflectionView),
		"seq":   handler.journal.CurrentSeq(),
	})
}

func (handler *Handler) GetReflection(c *fiber.Ctx) error {
	reflection, err := handler.store.GetReflection(c.UserContext(), c.Params("id"))
	if err != nil {
		return handler.writeError(c, err)
	}
	return c.JSON(newReflectionView(reflection))
}

func (handler *Handler) CreateReflection(c *fiber.Ctx) error {
	payload := reflectionPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}
	mutation, err := journal.CreateReflection(payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusCreated)
}

func (handler *Handler) UpdateReflection(c *fiber.Ctx) error {
	payload := reflectionPayload{}
	if err := parseBody(c, &payload); err != nil {
		return handler.writeError(c, err)
	}
	mutation, err := journal.UpdateReflection(c.Params("id"), payload.input())
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}

func (handler *Handler) DeleteReflection(c *fiber.Ctx) error {
	mutation, err := journal.DeleteReflection(c.Params("id"))
	if err != nil {
		return handler.writeError(c, err)
	}
	return handler.submit(c, mutation, fiber.StatusOK)
}
