package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/internal/pkg/token"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

// BearerAuth parses an Authorization: Bearer header and, when the access
// token verifies, attaches the user context. It never rejects by itself;
// RequireAuth does that for protected routes.
func BearerAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return c.Next()
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return c.Next()
	}

	claims, err := token.Verify(parts[1], token.TypeAccess)
	if err != nil {
		return c.Next()
	}

	usercontext.Set(c, usercontext.UserContext{
		UserID:     claims.UserID,
		IsLoggedIn: true,
	})
	return c.Next()
}

// RequireAuth ensures a valid access token and returns JSON 401 otherwise.
func RequireAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "Missing or invalid authentication",
		})
	}
	return c.Next()
}
