package finance

import (
	"math"
	"sort"
	"time"
)

// Sentinel bucket for subscriptions without a category.
const (
	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#6b7280"
)

// upcomingWindowDays is the horizon for the upcoming-payments list.
const upcomingWindowDays = 30

// Subscription is the read-only snapshot the aggregation engine consumes.
// The category fields are already resolved by the caller; empty means
// uncategorized.
type Subscription struct {
	ID            string
	Name          string
	Cost          float64
	Currency      string
	Cycle         Cycle
	NextPayment   time.Time
	Color         string
	Icon          string
	CategoryName  string
	CategoryColor string
}

// MostExpensive identifies the active subscription with the largest
// monthly-equivalent cost.
type MostExpensive struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MonthlyCost float64 `json:"monthlyCost"`
}

// Summary holds the normalized spending totals.
type Summary struct {
	ActiveSubscriptions    int            `json:"activeSubscriptions"`
	MonthlyCost            float64        `json:"monthlyCost"`
	YearlyCost             float64        `json:"yearlyCost"`
	AveragePerSubscription float64        `json:"averagePerSubscription"`
	MostExpensive          *MostExpensive `json:"mostExpensive"`
}

// CategorySlice is one bucket of the per-category breakdown.
type CategorySlice struct {
	Name              string  `json:"name"`
	Color             string  `json:"color"`
	MonthlyCost       float64 `json:"monthlyCost"`
	SubscriptionCount int     `json:"subscriptionCount"`
	Percentage        float64 `json:"percentage"`
}

// UpcomingPayment is one charge due within the 30-day window.
type UpcomingPayment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cost      float64   `json:"cost"`
	Currency  string    `json:"currency"`
	Date      time.Time `json:"date"`
	DaysUntil int       `json:"daysUntil"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
}

// Result is the derived aggregation snapshot. It is recomputed per request
// and never persisted.
type Result struct {
	Summary           Summary           `json:"summary"`
	CategoryBreakdown []CategorySlice   `json:"categoryBreakdown"`
	UpcomingPayments  []UpcomingPayment `json:"upcomingPayments"`
}

// Aggregate computes totals, the category breakdown and the upcoming-payments
// list for a user's active subscriptions. Empty input yields zeroed totals,
// empty lists and a nil most-expensive entry. The only possible error is an
// unknown billing cycle in the input, which indicates a validation bug
// upstream.
func Aggregate(subs []Subscription, now time.Time) (Result, error) {
	today := truncateToDay(now)
	windowEnd := today.AddDate(0, 0, upcomingWindowDays)

	var (
		monthlyTotal float64
		mostExp      *MostExpensive
		bucketOrder  []string
		buckets      = make(map[string]*CategorySlice)
		upcoming     []UpcomingPayment
	)

	for _, sub := range subs {
		monthly, err := MonthlyCost(sub.Cost, sub.Cycle)
		if err != nil {
			return Result{}, err
		}
		monthlyTotal += monthly

		// Strict > keeps the first-encountered subscription on ties.
		if mostExp == nil || monthly > mostExp.MonthlyCost {
			mostExp = &MostExpensive{ID: sub.ID, Name: sub.Name, MonthlyCost: monthly}
		}

		name := sub.CategoryName
		color := sub.CategoryColor
		if name == "" {
			name = UncategorizedName
			color = UncategorizedColor
		}
		bucket, ok := buckets[name]
		if !ok {
			bucket = &CategorySlice{Name: name, Color: color}
			buckets[name] = bucket
			bucketOrder = append(bucketOrder, name)
		}
		bucket.MonthlyCost += monthly
		bucket.SubscriptionCount++

		due := truncateToDay(sub.NextPayment)
		if !due.Before(today) && !due.After(windowEnd) {
			upcoming = append(upcoming, UpcomingPayment{
				ID:        sub.ID,
				Name:      sub.Name,
				Cost:      sub.Cost,
				Currency:  sub.Currency,
				Date:      due,
				DaysUntil: daysUntil(today, due),
				Color:     sub.Color,
				Icon:      sub.Icon,
			})
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})

	breakdown := make([]CategorySlice, 0, len(bucketOrder))
	for _, name := range bucketOrder {
		bucket := *buckets[name]
		if monthlyTotal > 0 {
			bucket.Percentage = roundPercent(bucket.MonthlyCost / monthlyTotal)
		}
		bucket.MonthlyCost = Round2(bucket.MonthlyCost)
		breakdown = append(breakdown, bucket)
	}

	if mostExp != nil {
		mostExp.MonthlyCost = Round2(mostExp.MonthlyCost)
	}

	average := 0.0
	if len(subs) > 0 {
		average = Round2(monthlyTotal / float64(len(subs)))
	}

	return Result{
		Summary: Summary{
			ActiveSubscriptions:    len(subs),
			MonthlyCost:            Round2(monthlyTotal),
			YearlyCost:             Round2(monthlyTotal * 12),
			AveragePerSubscription: average,
			MostExpensive:          mostExp,
		},
		CategoryBreakdown: breakdown,
		UpcomingPayments:  upcoming,
	}, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysUntil(today, due time.Time) int {
	return int(math.Ceil(due.Sub(today).Hours() / 24))
}
