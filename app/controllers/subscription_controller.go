package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/entitlements"
	"github.com/subtrackerapp/subtracker/internal/pkg/finance"
	"github.com/subtrackerapp/subtracker/internal/pkg/ordering"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

var orderingEngine *ordering.Engine

// InitializeSubscriptionController wires the ordering engine used by the
// reorder endpoint.
func InitializeSubscriptionController(engine *ordering.Engine) {
	orderingEngine = engine
}

type createSubscriptionRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=255"`
	Cost            float64 `json:"cost" validate:"required,gt=0"`
	Currency        string  `json:"currency" validate:"omitempty,len=3"`
	BillingCycle    string  `json:"billing_cycle" validate:"required,oneof=weekly monthly quarterly yearly"`
	NextPaymentDate string  `json:"next_payment_date" validate:"required"`
	CategoryID      *string `json:"category_id" validate:"omitempty,uuid"`
	Color           string  `json:"color" validate:"omitempty,hexcolor"`
	Icon            string  `json:"icon" validate:"omitempty,max=50"`
	Notes           string  `json:"notes" validate:"omitempty,max=1000"`
	IsActive        *bool   `json:"is_active"`
}

// updateSubscriptionRequest is a typed partial update: only non-nil fields
// are applied. Field names are fixed here, never assembled from request keys.
type updateSubscriptionRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Cost            *float64 `json:"cost" validate:"omitempty,gt=0"`
	Currency        *string  `json:"currency" validate:"omitempty,len=3"`
	BillingCycle    *string  `json:"billing_cycle" validate:"omitempty,oneof=weekly monthly quarterly yearly"`
	NextPaymentDate *string  `json:"next_payment_date"`
	CategoryID      *string  `json:"category_id" validate:"omitempty,uuid"`
	Color           *string  `json:"color" validate:"omitempty,hexcolor"`
	Icon            *string  `json:"icon" validate:"omitempty,max=50"`
	Notes           *string  `json:"notes" validate:"omitempty,max=1000"`
	IsActive        *bool    `json:"is_active"`
}

type reorderRequest struct {
	NewIndex *int `json:"newIndex" validate:"required"`
}

func subscriptionJSON(sub *models.Subscription) fiber.Map {
	out := fiber.Map{
		"id":              sub.ID,
		"name":            sub.Name,
		"cost":            sub.Cost,
		"currency":        sub.Currency,
		"billingCycle":    sub.BillingCycle,
		"nextPaymentDate": formatDate(sub.NextPaymentDate),
		"color":           sub.Color,
		"icon":            sub.Icon,
		"notes":           sub.Notes,
		"isActive":        sub.IsActive,
		"orderIndex":      sub.OrderIndex,
		"createdAt":       sub.CreatedAt,
	}
	if sub.Category != nil {
		out["category"] = fiber.Map{
			"id":    sub.Category.ID,
			"name":  sub.Category.Name,
			"color": sub.Category.Color,
			"icon":  sub.Category.Icon,
		}
	} else {
		out["category"] = nil
	}
	return out
}

// HandleListSubscriptions returns every subscription of the caller, active
// and inactive, in manual order.
func HandleListSubscriptions(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	subs, err := repository.GetGlobalRepositories().Subscription.ListByUser(userID)
	if err != nil {
		return internalError(c, "Failed to load subscriptions")
	}

	out := make([]fiber.Map, 0, len(subs))
	for i := range subs {
		out = append(out, subscriptionJSON(&subs[i]))
	}
	return c.JSON(fiber.Map{"subscriptions": out})
}

// HandleCreateSubscription creates a subscription at the end of the manual
// order. Free-tier accounts are capped by entitlements.
func HandleCreateSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}

	plan := entitlements.PlanFor(user.IsPremium)
	activeCount, err := repos.Subscription.CountActiveByUser(userID)
	if err != nil {
		return internalError(c, "Failed to count subscriptions")
	}
	if !entitlements.CanAddSubscription(plan, activeCount) {
		return jsonError(c, fiber.StatusForbidden, "forbidden",
			fmt.Sprintf("Free tier limit reached. You can have max %d subscriptions. Upgrade to Premium for unlimited subscriptions.",
				entitlements.FreeTierSubscriptionLimit))
	}

	var req createSubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	nextPayment, err := time.Parse("2006-01-02", req.NextPaymentDate)
	if err != nil {
		return badRequest(c, "next_payment_date must be an ISO date (YYYY-MM-DD)")
	}

	maxIndex, err := repos.Subscription.MaxOrderIndex(userID)
	if err != nil {
		return internalError(c, "Failed to determine order index")
	}

	sub := &models.Subscription{
		UserID:          userID,
		Name:            sanitizeString(req.Name),
		Cost:            req.Cost,
		Currency:        req.Currency,
		BillingCycle:    req.BillingCycle,
		NextPaymentDate: nextPayment,
		CategoryID:      req.CategoryID,
		Color:           req.Color,
		Icon:            sanitizeString(req.Icon),
		Notes:           sanitizeString(req.Notes),
		IsActive:        true,
		OrderIndex:      maxIndex + 1,
	}
	if sub.Currency == "" {
		sub.Currency = models.DefaultCurrency
	}
	if sub.Color == "" {
		sub.Color = models.DefaultSubscriptionColor
	}
	if sub.Icon == "" {
		sub.Icon = models.DefaultSubscriptionIcon
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := repos.Subscription.Create(sub); err != nil {
		return internalError(c, "Failed to create subscription")
	}

	created, err := repos.Subscription.GetByID(userID, sub.ID)
	if err != nil {
		created = sub
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscription created successfully",
		"subscription": subscriptionJSON(created),
	})
}

// HandleUpdateSubscription applies a typed partial update to an owned
// subscription.
func HandleUpdateSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	subID := c.Params("id")

	var req updateSubscriptionRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	repos := repository.GetGlobalRepositories()
	sub, err := repos.Subscription.GetByID(userID, subID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Subscription not found")
		}
		return internalError(c, "Failed to load subscription")
	}

	if req.Name != nil {
		sub.Name = sanitizeString(*req.Name)
	}
	if req.Cost != nil {
		sub.Cost = *req.Cost
	}
	if req.Currency != nil {
		sub.Currency = *req.Currency
	}
	if req.BillingCycle != nil {
		sub.BillingCycle = *req.BillingCycle
	}
	if req.NextPaymentDate != nil {
		nextPayment, err := time.Parse("2006-01-02", *req.NextPaymentDate)
		if err != nil {
			return badRequest(c, "next_payment_date must be an ISO date (YYYY-MM-DD)")
		}
		sub.NextPaymentDate = nextPayment
	}
	if req.CategoryID != nil {
		sub.CategoryID = req.CategoryID
		sub.Category = nil
	}
	if req.Color != nil {
		sub.Color = *req.Color
	}
	if req.Icon != nil {
		sub.Icon = sanitizeString(*req.Icon)
	}
	if req.Notes != nil {
		sub.Notes = sanitizeString(*req.Notes)
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	if err := repos.Subscription.Update(sub); err != nil {
		return internalError(c, "Failed to update subscription")
	}

	updated, err := repos.Subscription.GetByID(userID, subID)
	if err != nil {
		updated = sub
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription updated successfully",
		"subscription": subscriptionJSON(updated),
	})
}

// HandleDeleteSubscription removes an owned subscription. Remaining order
// indices are left untouched; the gap is tolerated.
func HandleDeleteSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	subID := c.Params("id")

	err := repository.GetGlobalRepositories().Subscription.Delete(userID, subID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Subscription not found")
		}
		return internalError(c, "Failed to delete subscription")
	}

	return c.JSON(fiber.Map{"message": "Subscription deleted successfully"})
}

// HandleReorderSubscription moves one subscription to a new position in the
// caller's manual order.
func HandleReorderSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	subID := c.Params("id")

	var req reorderRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "Invalid newIndex")
	}

	err := orderingEngine.Reorder(userID, subID, *req.NewIndex)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"message": "Subscription reordered successfully"})
	case errors.Is(err, ordering.ErrNotFound):
		return notFound(c, "Subscription not found")
	case errors.Is(err, ordering.ErrInvalidIndex):
		return badRequest(c, "Invalid newIndex")
	default:
		return internalError(c, "Failed to reorder subscription")
	}
}

// HandleMarkSubscriptionPaid records the current charge in the payment
// history and advances the next payment date by one billing cycle.
func HandleMarkSubscriptionPaid(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	subID := c.Params("id")

	repos := repository.GetGlobalRepositories()
	sub, err := repos.Subscription.GetByID(userID, subID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Subscription not found")
		}
		return internalError(c, "Failed to load subscription")
	}
	if !finance.IsValidCycle(finance.Cycle(sub.BillingCycle)) {
		return internalError(c, "Subscription has an invalid billing cycle")
	}

	payment := &models.Payment{
		UserID:         userID,
		SubscriptionID: &sub.ID,
		Amount:         sub.Cost,
		Currency:       sub.Currency,
		PaymentDate:    sub.NextPaymentDate,
	}
	if err := repos.Payment.Create(payment); err != nil {
		return internalError(c, "Failed to record payment")
	}

	sub.NextPaymentDate = finance.NextDate(sub.NextPaymentDate, finance.Cycle(sub.BillingCycle))
	if err := repos.Subscription.Update(sub); err != nil {
		return internalError(c, "Failed to update subscription")
	}

	return c.JSON(fiber.Map{
		"message":      "Payment recorded successfully",
		"subscription": subscriptionJSON(sub),
	})
}
