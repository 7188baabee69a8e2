package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/token"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func userJSON(user *models.User) fiber.Map {
	return fiber.Map{
		"id":                 user.ID,
		"email":              user.Email,
		"isPremium":          user.IsPremium,
		"premiumPurchasedAt": formatTimePtr(user.PremiumPurchasedAt),
		"createdAt":          user.CreatedAt,
	}
}

func categoriesJSON(categories []models.Category) []fiber.Map {
	out := make([]fiber.Map, 0, len(categories))
	for _, c := range categories {
		out = append(out, fiber.Map{
			"id":       c.ID,
			"name":     c.Name,
			"color":    c.Color,
			"icon":     c.Icon,
			"isPreset": c.IsPreset,
		})
	}
	return out
}

// HandleRegister creates an account and returns the first token pair plus
// the preset categories the client seeds its UI with.
func HandleRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	email := strings.ToLower(sanitizeString(req.Email))

	repos := repository.GetGlobalRepositories()
	if _, err := repos.User.GetByEmail(email); err == nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "User with this email already exists")
	} else if !isNotFound(err) {
		return internalError(c, "Failed to check existing user")
	}

	user, err := models.CreateUser(email, req.Password)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := repos.User.Create(user); err != nil {
		return internalError(c, "Failed to create user")
	}

	access, refresh, err := token.GeneratePair(user.ID)
	if err != nil {
		return internalError(c, "Failed to issue tokens")
	}

	presets, err := repos.Category.ListPresets()
	if err != nil {
		return internalError(c, "Failed to load preset categories")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "User registered successfully",
		"user":       userJSON(user),
		"categories": categoriesJSON(presets),
		"tokens": fiber.Map{
			"accessToken":  access,
			"refreshToken": refresh,
		},
	})
}

// HandleLogin verifies credentials and returns a token pair plus the user's
// categories (presets and custom).
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	email := strings.ToLower(sanitizeString(req.Email))

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByEmail(email)
	if err != nil {
		if isNotFound(err) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
		}
		return internalError(c, "Failed to load user")
	}

	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid email or password")
	}

	access, refresh, err := token.GeneratePair(user.ID)
	if err != nil {
		return internalError(c, "Failed to issue tokens")
	}

	presets, err := repos.Category.ListPresets()
	if err != nil {
		return internalError(c, "Failed to load categories")
	}
	custom, err := repos.Category.ListByUser(user.ID)
	if err != nil {
		return internalError(c, "Failed to load categories")
	}

	return c.JSON(fiber.Map{
		"message":    "Login successful",
		"user":       userJSON(user),
		"categories": categoriesJSON(append(presets, custom...)),
		"tokens": fiber.Map{
			"accessToken":  access,
			"refreshToken": refresh,
		},
	})
}

// HandleRefresh exchanges a valid refresh token for a new pair.
func HandleRefresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	claims, err := token.Verify(req.RefreshToken, token.TypeRefresh)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Invalid or expired refresh token")
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	access, refresh, err := token.GeneratePair(user.ID)
	if err != nil {
		return internalError(c, "Failed to issue tokens")
	}

	return c.JSON(fiber.Map{
		"message": "Token refreshed successfully",
		"tokens": fiber.Map{
			"accessToken":  access,
			"refreshToken": refresh,
		},
	})
}

// HandleLogout acknowledges the logout; the client discards its tokens.
func HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}
