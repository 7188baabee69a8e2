package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aggregateNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestAggregateEmptyInput(t *testing.T) {
	result, err := Aggregate(nil, aggregateNow)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.ActiveSubscriptions)
	assert.Zero(t, result.Summary.MonthlyCost)
	assert.Zero(t, result.Summary.YearlyCost)
	assert.Zero(t, result.Summary.AveragePerSubscription)
	assert.Nil(t, result.Summary.MostExpensive)
	assert.Empty(t, result.CategoryBreakdown)
	assert.Empty(t, result.UpcomingPayments)
}

func TestAggregateTotals(t *testing.T) {
	subs := []Subscription{
		{ID: "a", Name: "Streaming", Cost: 10, Cycle: CycleMonthly, NextPayment: day(60)},
		{ID: "b", Name: "Hosting", Cost: 120, Cycle: CycleYearly, NextPayment: day(60)},
		{ID: "c", Name: "Coffee club", Cost: 5, Cycle: CycleWeekly, NextPayment: day(60)},
	}

	result, err := Aggregate(subs, aggregateNow)
	require.NoError(t, err)

	// 10 + 120/12 + 5*4.33 = 41.65
	assert.InDelta(t, 41.65, result.Summary.MonthlyCost, 0.001)
	assert.InDelta(t, 499.8, result.Summary.YearlyCost, 0.001)
	assert.InDelta(t, 13.88, result.Summary.AveragePerSubscription, 0.001)
	assert.Equal(t, 3, result.Summary.ActiveSubscriptions)

	require.NotNil(t, result.Summary.MostExpensive)
	assert.Equal(t, "c", result.Summary.MostExpensive.ID)
	assert.InDelta(t, 21.65, result.Summary.MostExpensive.MonthlyCost, 0.001)
}

func TestAggregateMostExpensiveTieBreak(t *testing.T) {
	subs := []Subscription{
		{ID: "first", Name: "First", Cost: 120, Cycle: CycleYearly, NextPayment: day(90)},
		{ID: "second", Name: "Second", Cost: 10, Cycle: CycleMonthly, NextPayment: day(90)},
	}

	result, err := Aggregate(subs, aggregateNow)
	require.NoError(t, err)
	require.NotNil(t, result.Summary.MostExpensive)

	// Identical monthly cost: the first subscription in input order wins.
	assert.Equal(t, "first", result.Summary.MostExpensive.ID)
}

func TestAggregateCategoryBreakdown(t *testing.T) {
	subs := []Subscription{
		{ID: "a", Cost: 30, Cycle: CycleMonthly, NextPayment: day(90), CategoryName: "Entertainment", CategoryColor: "#ef4444"},
		{ID: "b", Cost: 10, Cycle: CycleMonthly, NextPayment: day(90), CategoryName: "Entertainment", CategoryColor: "#ef4444"},
		{ID: "c", Cost: 60, Cycle: CycleMonthly, NextPayment: day(90)},
	}

	result, err := Aggregate(subs, aggregateNow)
	require.NoError(t, err)
	require.Len(t, result.CategoryBreakdown, 2)

	entertainment := result.CategoryBreakdown[0]
	assert.Equal(t, "Entertainment", entertainment.Name)
	assert.Equal(t, "#ef4444", entertainment.Color)
	assert.Equal(t, 2, entertainment.SubscriptionCount)
	assert.InDelta(t, 40.0, entertainment.MonthlyCost, 0.001)
	assert.InDelta(t, 40.0, entertainment.Percentage, 0.001)

	uncategorized := result.CategoryBreakdown[1]
	assert.Equal(t, UncategorizedName, uncategorized.Name)
	assert.Equal(t, UncategorizedColor, uncategorized.Color)
	assert.InDelta(t, 60.0, uncategorized.Percentage, 0.001)

	total := 0.0
	for _, slice := range result.CategoryBreakdown {
		total += slice.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.2)
}

func TestAggregatePercentagesSumToHundred(t *testing.T) {
	subs := []Subscription{
		{ID: "a", Cost: 9.99, Cycle: CycleMonthly, NextPayment: day(90), CategoryName: "Music", CategoryColor: "#22c55e"},
		{ID: "b", Cost: 17.50, Cycle: CycleQuarterly, NextPayment: day(90), CategoryName: "Cloud", CategoryColor: "#3b82f6"},
		{ID: "c", Cost: 4.25, Cycle: CycleWeekly, NextPayment: day(90), CategoryName: "Food", CategoryColor: "#f59e0b"},
	}

	result, err := Aggregate(subs, aggregateNow)
	require.NoError(t, err)

	total := 0.0
	for _, slice := range result.CategoryBreakdown {
		total += slice.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.2)
}

func TestAggregateUpcomingWindow(t *testing.T) {
	subs := []Subscription{
		{ID: "today", Name: "Today", Cost: 5, Cycle: CycleMonthly, NextPayment: day(0)},
		{ID: "edge", Name: "Edge", Cost: 5, Cycle: CycleMonthly, NextPayment: day(30)},
		{ID: "outside", Name: "Outside", Cost: 5, Cycle: CycleMonthly, NextPayment: day(31)},
		{ID: "past", Name: "Past", Cost: 5, Cycle: CycleMonthly, NextPayment: day(-1)},
	}

	result, err := Aggregate(subs, aggregateNow)
	require.NoError(t, err)
	require.Len(t, result.UpcomingPayments, 2)

	assert.Equal(t, "today", result.UpcomingPayments[0].ID)
	assert.Equal(t, 0, result.UpcomingPayments[0].DaysUntil)
	assert.Equal(t, "edge", result.UpcomingPayments[1].ID)
	assert.Equal(t, 30, result.UpcomingPayments[1].DaysUntil)
}

func TestAggregateUpcomingSortedByDate(t *testing.T) {
	subs := []Subscription{
		{ID: "later", Cost: 5, Cycle: CycleMonthly, NextPayment: day(20)},
		{ID: "sooner", Cost: 5, Cycle: CycleMonthly, NextPayment: day(3)},
		{ID: "middle", Cost: 5, Cycle: CycleMonthly, NextPayment: day(10)},
	}

	result, err := Aggregate(subs, aggregateNow)
	require.NoError(t, err)
	require.Len(t, result.UpcomingPayments, 3)

	assert.Equal(t, "sooner", result.UpcomingPayments[0].ID)
	assert.Equal(t, "middle", result.UpcomingPayments[1].ID)
	assert.Equal(t, "later", result.UpcomingPayments[2].ID)
}

func TestAggregateUnknownCycle(t *testing.T) {
	subs := []Subscription{
		{ID: "a", Cost: 5, Cycle: Cycle("daily"), NextPayment: day(1)},
	}

	_, err := Aggregate(subs, aggregateNow)
	assert.ErrorIs(t, err, ErrUnknownCycle)
}
