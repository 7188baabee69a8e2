package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/finance"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

// accountArchiveDays is how long a deleted account stays recoverable.
const accountArchiveDays = 30

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// HandleProfile returns the caller's account details together with a couple
// of usage numbers for the settings page.
func HandleProfile(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	activeCount, err := repos.Subscription.CountActiveByUser(userID)
	if err != nil {
		return internalError(c, "Failed to count subscriptions")
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	spentThisMonth, err := repos.Payment.TotalSince(userID, monthStart)
	if err != nil {
		return internalError(c, "Failed to load payment history")
	}

	return c.JSON(fiber.Map{
		"user": userJSON(user),
		"stats": fiber.Map{
			"activeSubscriptions": activeCount,
			"spentThisMonth":      finance.Round2(spentThisMonth),
		},
	})
}

// HandleChangePassword swaps the caller's password after checking the
// current one.
func HandleChangePassword(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req changePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	repos := repository.GetGlobalRepositories()
	user, err := repos.User.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return internalError(c, "Failed to update password")
	}
	if err := repos.User.Update(user); err != nil {
		return internalError(c, "Failed to update password")
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// HandleDeleteAccount soft-deletes the account. The row is archived for a
// grace period and all subscriptions are deactivated immediately.
func HandleDeleteAccount(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	archivedUntil := time.Now().AddDate(0, 0, accountArchiveDays)
	if err := repository.GetGlobalRepositories().User.SoftDelete(userID, archivedUntil); err != nil {
		return internalError(c, "Failed to delete account")
	}

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
