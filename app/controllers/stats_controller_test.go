package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrackerapp/subtracker/app/models"
)

type statsResponse struct {
	Summary struct {
		ActiveSubscriptions int     `json:"activeSubscriptions"`
		MonthlyCost         float64 `json:"monthlyCost"`
	} `json:"summary"`
	CategoryBreakdown []struct {
		Name        string  `json:"name"`
		MonthlyCost float64 `json:"monthlyCost"`
	} `json:"categoryBreakdown"`
	UpcomingPayments []struct {
		ID string `json:"id"`
	} `json:"upcomingPayments"`
	MonthlyTrend []struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	} `json:"monthlyTrend"`
}

func getStats(t *testing.T, app *fiber.App) statsResponse {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/stats", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body statsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestStatsCapsUpcomingPaymentsAtTen(t *testing.T) {
	stores := newMemStores()
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("sub-%02d", i)
		stores.subscriptions[id] = &models.Subscription{
			ID:              id,
			UserID:          1,
			Name:            fmt.Sprintf("Service %d", i),
			Cost:            100,
			Currency:        "RUB",
			BillingCycle:    "monthly",
			NextPaymentDate: time.Now().AddDate(0, 0, i+1),
			IsActive:        true,
			OrderIndex:      i,
		}
	}
	stores.install()

	app := newHandlerTestApp(1, func(a *fiber.App) {
		a.Get("/api/stats", HandleStats)
	})
	body := getStats(t, app)

	// All twelve count toward the totals, but the upcoming list is capped.
	assert.Equal(t, 12, body.Summary.ActiveSubscriptions)
	assert.Len(t, body.UpcomingPayments, 10)
}

func TestStatsMonthlyTrendCoversSixMonths(t *testing.T) {
	stores := newMemStores()
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	stores.payments = append(stores.payments,
		&models.Payment{ID: "p1", UserID: 1, Amount: 500, Currency: "RUB", PaymentDate: monthStart.AddDate(0, 0, 3)},
		&models.Payment{ID: "p2", UserID: 1, Amount: 250, Currency: "RUB", PaymentDate: monthStart.AddDate(0, -1, 5)},
		&models.Payment{ID: "p3", UserID: 2, Amount: 999, Currency: "RUB", PaymentDate: monthStart.AddDate(0, 0, 3)},
	)
	stores.install()

	app := newHandlerTestApp(1, func(a *fiber.App) {
		a.Get("/api/stats", HandleStats)
	})
	body := getStats(t, app)

	require.Len(t, body.MonthlyTrend, 6)
	assert.Equal(t, monthStart.AddDate(0, -5, 0).Format("2006-01"), body.MonthlyTrend[0].Month)
	assert.Equal(t, monthStart.Format("2006-01"), body.MonthlyTrend[5].Month)
	// Other users' payments stay out; months without payments report zero.
	assert.Equal(t, 500.0, body.MonthlyTrend[5].Total)
	assert.Equal(t, 250.0, body.MonthlyTrend[4].Total)
	assert.Equal(t, 0.0, body.MonthlyTrend[3].Total)
}

func TestStatsBreakdownSortedByMonthlyCost(t *testing.T) {
	uid := uint(1)
	cheapID, spendyID := "cat-cheap", "cat-spendy"
	stores := newMemStores()
	stores.categories[cheapID] = &models.Category{ID: cheapID, UserID: &uid, Name: "Cheap", Color: "#111111"}
	stores.categories[spendyID] = &models.Category{ID: spendyID, UserID: &uid, Name: "Spendy", Color: "#222222"}
	stores.subscriptions["s1"] = &models.Subscription{
		ID: "s1", UserID: 1, Name: "Small", Cost: 100, Currency: "RUB",
		BillingCycle: "monthly", NextPaymentDate: time.Now().AddDate(0, 2, 0),
		CategoryID: &cheapID, IsActive: true,
	}
	stores.subscriptions["s2"] = &models.Subscription{
		ID: "s2", UserID: 1, Name: "Big", Cost: 900, Currency: "RUB",
		BillingCycle: "monthly", NextPaymentDate: time.Now().AddDate(0, 2, 0),
		CategoryID: &spendyID, IsActive: true,
	}
	stores.install()

	app := newHandlerTestApp(1, func(a *fiber.App) {
		a.Get("/api/stats", HandleStats)
	})
	body := getStats(t, app)

	require.Len(t, body.CategoryBreakdown, 2)
	assert.Equal(t, "Spendy", body.CategoryBreakdown[0].Name)
	assert.Equal(t, "Cheap", body.CategoryBreakdown[1].Name)
}
