package controllers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/finance"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

// maxUpcomingRows caps the upcoming-payments list in the stats response.
const maxUpcomingRows = 10

// trendMonths is how far back the monthly spending trend reaches.
const trendMonths = 6

func financeSnapshot(subs []models.Subscription) []finance.Subscription {
	out := make([]finance.Subscription, 0, len(subs))
	for i := range subs {
		sub := &subs[i]
		snap := finance.Subscription{
			ID:          sub.ID,
			Name:        sub.Name,
			Cost:        sub.Cost,
			Currency:    sub.Currency,
			Cycle:       finance.Cycle(sub.BillingCycle),
			NextPayment: sub.NextPaymentDate,
			Color:       sub.Color,
			Icon:        sub.Icon,
		}
		if sub.Category != nil {
			snap.CategoryName = sub.Category.Name
			snap.CategoryColor = sub.Category.Color
		}
		out = append(out, snap)
	}
	return out
}

// HandleStats recomputes the aggregation snapshot for the caller's active
// subscriptions. Nothing here is cached or persisted.
func HandleStats(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	repos := repository.GetGlobalRepositories()

	subs, err := repos.Subscription.ListActiveByUser(userID)
	if err != nil {
		return internalError(c, "Failed to load subscriptions")
	}

	now := time.Now()
	result, err := finance.Aggregate(financeSnapshot(subs), now)
	if err != nil {
		return internalError(c, "Failed to compute statistics")
	}

	breakdown := result.CategoryBreakdown
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].MonthlyCost > breakdown[j].MonthlyCost
	})

	upcoming := result.UpcomingPayments
	if len(upcoming) > maxUpcomingRows {
		upcoming = upcoming[:maxUpcomingRows]
	}

	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(trendMonths - 1), 0)
	totals, err := repos.Payment.MonthlyTotals(userID, since)
	if err != nil {
		return internalError(c, "Failed to load payment history")
	}

	trend := make([]fiber.Map, 0, trendMonths)
	byMonth := make(map[string]float64, len(totals))
	for _, t := range totals {
		byMonth[t.Month.Format("2006-01")] = t.Total
	}
	for i := 0; i < trendMonths; i++ {
		month := since.AddDate(0, i, 0)
		key := month.Format("2006-01")
		trend = append(trend, fiber.Map{
			"month": key,
			"label": month.Format("January 2006"),
			"total": finance.Round2(byMonth[key]),
		})
	}

	return c.JSON(fiber.Map{
		"summary":           result.Summary,
		"categoryBreakdown": breakdown,
		"upcomingPayments":  upcoming,
		"monthlyTrend":      trend,
	})
}

// HandleTimeline projects upcoming charges over the next six months, grouped
// by calendar month.
func HandleTimeline(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	subs, err := repository.GetGlobalRepositories().Subscription.ListActiveByUser(userID)
	if err != nil {
		return internalError(c, "Failed to load subscriptions")
	}

	occurrences, err := finance.Timeline(financeSnapshot(subs), time.Now())
	if err != nil {
		return internalError(c, "Failed to compute timeline")
	}

	groups := finance.GroupByMonth(occurrences)
	if groups == nil {
		groups = []finance.MonthGroup{}
	}
	return c.JSON(fiber.Map{"timeline": groups})
}
