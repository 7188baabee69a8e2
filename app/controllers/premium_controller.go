package controllers

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/token"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

// Premium is a one-time purchase paid by a manual SBP bank transfer. The
// short uid ties the transfer comment back to the pending payment row.
const (
	premiumPrice    = 10.00
	premiumCurrency = "RUB"
)

type verifyPremiumRequest struct {
	PaymentUID string `json:"paymentUid" validate:"required,min=5,max=50"`
}

func newPaymentUID() string {
	return "ST-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// HandleGeneratePremiumPayment creates a pending payment record and returns
// the transfer details the user needs to pay it.
func HandleGeneratePremiumPayment(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	user, err := repos.User.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to load user")
	}
	if user.IsPremium {
		return badRequest(c, "User already has premium access")
	}

	paymentUID := newPaymentUID()
	payment := &models.PremiumPayment{
		UserID:     userID,
		PaymentUID: paymentUID,
		Amount:     premiumPrice,
		Currency:   premiumCurrency,
		Status:     models.PremiumPaymentPending,
	}
	if err := repos.PremiumPayment.Create(payment); err != nil {
		return internalError(c, "Failed to create payment")
	}

	comment := fmt.Sprintf("SubTracker Premium - %s", paymentUID)
	qrPayload := fmt.Sprintf(
		"ST00012|Name=SubTracker|Purpose=SubTracker Premium %s|Sum=%d",
		paymentUID, int(premiumPrice*100))

	return c.JSON(fiber.Map{
		"message": "Payment ID generated successfully",
		"payment": fiber.Map{
			"uid":      paymentUID,
			"amount":   premiumPrice,
			"currency": premiumCurrency,
			"comment":  comment,
			"qrData": fiber.Map{
				"version":   "0001",
				"encoding":  "UTF-8",
				"merchant":  "SubTracker Premium",
				"amount":    fmt.Sprintf("%.2f", premiumPrice),
				"currency":  premiumCurrency,
				"paymentId": paymentUID,
				"comment":   comment,
			},
			"staticQrUrl": "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" +
				url.QueryEscape(qrPayload),
		},
	})
}

// HandleVerifyPremiumPayment confirms a pending payment, flips the buyer to
// premium and hands back fresh tokens carrying the new status. Verification
// is the simulated manual flow; there is no payment-provider callback.
func HandleVerifyPremiumPayment(c *fiber.Ctx) error {
	var req verifyPremiumRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	repos := repository.GetGlobalRepositories()
	payment, err := repos.PremiumPayment.GetByUID(strings.TrimSpace(req.PaymentUID))
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Payment not found. Please check the payment ID and try again.")
		}
		return internalError(c, "Failed to load payment")
	}

	switch payment.Status {
	case models.PremiumPaymentCancelled:
		return badRequest(c, "This payment has been cancelled.")
	case models.PremiumPaymentCompleted:
		owner, err := repos.User.GetByID(payment.UserID)
		if err == nil && owner.IsPremium {
			return badRequest(c, "This payment has already been processed. Premium is already active.")
		}
	}

	if payment.Status != models.PremiumPaymentCompleted {
		if err := repos.PremiumPayment.MarkCompleted(payment.ID, time.Now()); err != nil {
			return internalError(c, "Failed to confirm payment")
		}
	}

	user, err := repos.User.GetByID(payment.UserID)
	if err != nil {
		return internalError(c, "Failed to load user")
	}
	now := time.Now()
	user.IsPremium = true
	user.PremiumPurchasedAt = &now
	user.PremiumPaymentID = payment.PaymentUID
	if err := repos.User.Update(user); err != nil {
		return internalError(c, "Failed to activate premium")
	}

	accessToken, refreshToken, err := token.GeneratePair(user.ID)
	if err != nil {
		return internalError(c, "Failed to issue tokens")
	}

	return c.JSON(fiber.Map{
		"message": "Premium activated successfully!",
		"user":    userJSON(user),
		"tokens": fiber.Map{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
	})
}
