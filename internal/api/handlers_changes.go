package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetChanges long-polls for commits after ?after=<seq>. It answers as soon as
// one exists, or with an empty batch once ?wait=<duration> runs out.
func (handler *Handler) GetChanges(c *fiber.Ctx) error {
	after, err := parseInt64Query(c, "after")
	if err != nil {
		return handler.writeError(c, err)
	}
	wait := handler.changesWait
	if raw := c.Query("wait"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			return handler.writeError(c, errInvalidQuery)
		}
		wait = min(parsed, maxChangesWait)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), wait)
	defer cancel()

	batch, err := handler.journal.ChangesSince(ctx, after)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return handler.writeError(c, err)
	}
	return c.JSON(batch)
}
