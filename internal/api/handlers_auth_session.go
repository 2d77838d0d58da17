package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pitchlog/internal/services"
)

type passcodeInput struct {
	Passcode string `json:"passcode" form:"passcode"`
}

func (handler *Handler) SessionStatus(c *fiber.Ctx) error {
	configured, err := handler.passcodes.IsConfigured(c.UserContext())
	if err != nil {
		return handler.writeError(c, err)
	}
	_, authErr := handler.authenticateRequest(c)
	return c.JSON(fiber.Map{
		"configured":    configured,
		"authenticated": authErr == nil,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	limiterKey := requestLimiterKey(c)
	now := handler.now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too_many_attempts")
	}

	input := passcodeInput{}
	if err := parseBody(c, &input); err != nil {
		return handler.writeError(c, err)
	}

	ctx := c.UserContext()
	if err := handler.passcodes.Verify(ctx, input.Passcode); err != nil {
		switch {
		case errors.Is(err, services.ErrPasscodeNotSet):
			return apiError(c, fiber.StatusConflict, "passcode_not_set")
		case errors.Is(err, services.ErrPasscodeMismatch):
			handler.loginLimiter.fail(limiterKey, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid_passcode")
		default:
			return handler.writeError(c, err)
		}
	}
	handler.loginLimiter.reset(limiterKey)

	return handler.startSession(c, fiber.StatusOK)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// SetPasscode sets the first passcode without a session. Once one exists,
// changing it needs a valid session.
func (handler *Handler) SetPasscode(c *fiber.Ctx) error {
	ctx := c.UserContext()
	configured, err := handler.passcodes.IsConfigured(ctx)
	if err != nil {
		return handler.writeError(c, err)
	}
	if configured {
		if _, err := handler.authenticateRequest(c); err != nil {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
	}

	input := passcodeInput{}
	if err := parseBody(c, &input); err != nil {
		return handler.writeError(c, err)
	}
	if err := handler.passcodes.Set(ctx, input.Passcode); err != nil {
		if errors.Is(err, services.ErrWeakPasscode) {
			return apiError(c, fiber.StatusBadRequest, "weak_passcode")
		}
		return handler.writeError(c, err)
	}

	status := fiber.StatusOK
	if !configured {
		status = fiber.StatusCreated
	}
	return handler.startSession(c, status)
}

func (handler *Handler) startSession(c *fiber.Ctx, status int) error {
	fingerprint, err := handler.passcodes.Fingerprint(c.UserContext())
	if err != nil {
		return handler.writeError(c, err)
	}
	token, err := handler.issueSessionToken(fingerprint)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "session")
	}
	handler.setSessionCookie(c, token)
	return c.Status(status).JSON(fiber.Map{"token": token})
}
