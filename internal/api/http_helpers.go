package api

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/reminders"
	"github.com/terraincognita07/pitchlog/internal/services"
)

var (
	errInvalidQuery   = errors.New("invalid query")
	errInvalidPayload = errors.New("invalid payload")
)

func apiError(c *fiber.Ctx, status int, code string) error {
	return c.Status(status).JSON(fiber.Map{"error": code})
}

// writeError maps a core error onto a status and a machine-readable code.
func (handler *Handler) writeError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation",
			"field":  validation.Field,
			"reason": validation.Reason,
		})
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not_found")
	case errors.Is(err, reminders.ErrInvalidTime):
		return apiError(c, fiber.StatusUnprocessableEntity, "invalid_time")
	case errors.Is(err, reminders.ErrOrdering):
		return apiError(c, fiber.StatusUnprocessableEntity, "ordering")
	case errors.Is(err, reminders.ErrPermissionDenied):
		return apiError(c, fiber.StatusForbidden, "permission_denied")
	case errors.Is(err, errInvalidQuery):
		return apiError(c, fiber.StatusBadRequest, "invalid_query")
	case errors.Is(err, errInvalidPayload):
		return apiError(c, fiber.StatusBadRequest, "invalid_payload")
	case errors.Is(err, journal.ErrStopped):
		return apiError(c, fiber.StatusServiceUnavailable, "unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return apiError(c, fiber.StatusGatewayTimeout, "timeout")
	default:
		handler.log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return apiError(c, fiber.StatusInternalServerError, "storage")
	}
}

// mutationResponse reports the commit seq so clients can wait for views to
// catch up.
func mutationResponse(c *fiber.Ctx, status int, commit journal.Commit) error {
	payload := fiber.Map{"seq": commit.Seq}
	if len(commit.IDs) > 0 {
		payload["id"] = commit.IDs[0]
	}
	return c.Status(status).JSON(payload)
}

func (handler *Handler) submit(c *fiber.Ctx, mutation journal.Mutation, status int) error {
	commit, err := handler.journal.Submit(c.UserContext(), mutation)
	if err != nil {
		return handler.writeError(c, err)
	}
	return mutationResponse(c, status, commit)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return &parsed, nil
	}
	return nil, errInvalidQuery
}

func parseLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errInvalidQuery
	}
	return min(limit, maxListLimit), nil
}

// parseSort reads ?sort=<key>&order=asc|desc. A missing key or order keeps
// the listing's default for that part.
func parseSort(c *fiber.Ctx) (*services.SortOrder, error) {
	key := strings.TrimSpace(c.Query("sort"))
	order := strings.ToLower(strings.TrimSpace(c.Query("order")))
	if key == "" && order == "" {
		return nil, nil
	}
	sort := &services.SortOrder{Key: key}
	switch order {
	case "":
	case "asc":
		sort.Direction = services.SortAscending
	case "desc":
		sort.Direction = services.SortDescending
	default:
		return nil, errInvalidQuery
	}
	return sort, nil
}

func parseOptionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errInvalidQuery
	}
	return &value, nil
}

func parseInt64Query(c *fiber.Ctx, key string) (int64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 0 {
		return 0, errInvalidQuery
	}
	return value, nil
}

func parseBody(c *fiber.Ctx, target any) error {
	if err := c.BodyParser(target); err != nil {
		return errInvalidPayload
	}
	return nil
}
