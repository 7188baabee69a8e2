package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/csvexport"
	"github.com/subtrackerapp/subtracker/internal/pkg/entitlements"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

// HandleExportCSV streams all of the caller's subscriptions as a CSV
// attachment. Export is a premium feature.
func HandleExportCSV(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}
	if !entitlements.CanExport(entitlements.PlanFor(user.IsPremium)) {
		return jsonError(c, fiber.StatusForbidden, "forbidden",
			"CSV export is a Premium feature. Upgrade to Premium to export your subscriptions.")
	}

	subs, err := repos.Subscription.ListByUser(userID)
	if err != nil {
		return internalError(c, "Failed to load subscriptions")
	}

	data, err := csvexport.Subscriptions(subs)
	if err != nil {
		return internalError(c, "Failed to generate export")
	}

	filename := fmt.Sprintf("subtracker-export-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
