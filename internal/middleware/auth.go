// Package middleware provides request-scoped HTTP middleware: logging, auth,
// rate limiting, tracing and metrics.
package middleware

import (
	"context"
	"strings"

	"instaclone/internal/auth"
	"instaclone/internal/models"

	"github.com/gofiber/fiber/v2"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthRequired rejects requests without a valid bearer token. On success the
// caller identity is stored in locals "userID" (uint) and "username", and the
// user id and token id are added to the request context for logging.
func AuthRequired(issuer *auth.Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		token, ok := BearerToken(header)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		claims, err := issuer.Validate(token)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, TokenIDKey, claims.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
