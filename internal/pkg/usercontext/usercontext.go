package usercontext

import "github.com/gofiber/fiber/v2"

const contextKey = "USER_CONTEXT"

// UserContext represents the authenticated user for a request
type UserContext struct {
	UserID     uint `json:"user_id"`
	IsLoggedIn bool `json:"is_logged_in"`
	IsPremium  bool `json:"is_premium"`
}

// Set stores the user context on the fiber context.
func Set(c *fiber.Ctx, ctx UserContext) {
	c.Locals(contextKey, ctx)
}

// GetUserContext retrieves the user context from fiber context.
// Returns a default anonymous context if none is set.
func GetUserContext(c *fiber.Ctx) UserContext {
	if ctx := c.Locals(contextKey); ctx != nil {
		if uc, ok := ctx.(UserContext); ok {
			return uc
		}
	}
	return UserContext{IsLoggedIn: false}
}

// IsLoggedIn checks if the current user is logged in
func IsLoggedIn(c *fiber.Ctx) bool {
	return GetUserContext(c).IsLoggedIn
}

// GetUserID returns the current user's ID, or 0 if not logged in
func GetUserID(c *fiber.Ctx) uint {
	return GetUserContext(c).UserID
}
