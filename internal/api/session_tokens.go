package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "pitchlog"

var (
	errMissingSession = errors.New("missing session")
	errInvalidSession = errors.New("invalid session")
	errStaleSession   = errors.New("passcode changed since sign-in")
)

func (handler *Handler) setSessionCookie(c *fiber.Ctx, token string) {
	handler.writeSessionCookie(c, token, handler.now().Add(defaultSessionTTL))
}

func (handler *Handler) clearSessionCookie(c *fiber.Ctx) {
	handler.writeSessionCookie(c, "", handler.now().Add(-time.Hour))
}

func (handler *Handler) writeSessionCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// issueSessionToken signs a token bound to the current passcode
// fingerprint, so changing the passcode invalidates it.
func (handler *Handler) issueSessionToken(fingerprint string) (string, error) {
	issued := handler.now()
	claims := sessionClaims{
		Fingerprint: fingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   "owner",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(defaultSessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
}

// sessionToken prefers the cookie and falls back to a bearer header.
func sessionToken(c *fiber.Ctx) string {
	if raw := strings.TrimSpace(c.Cookies(sessionCookieName)); raw != "" {
		return raw
	}
	bearer, _ := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	return strings.TrimSpace(bearer)
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*sessionClaims, error) {
	raw := sessionToken(c)
	if raw == "" {
		return nil, errMissingSession
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return handler.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(handler.now),
	)
	if err != nil {
		return nil, errInvalidSession
	}

	fingerprint, err := handler.passcodes.Fingerprint(c.UserContext())
	if err != nil {
		return nil, err
	}
	if claims.Fingerprint != fingerprint {
		return nil, errStaleSession
	}
	return claims, nil
}
