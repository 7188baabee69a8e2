package finance

import (
	"sort"
	"time"
)

const (
	// timelineHorizonMonths bounds the projection horizon.
	timelineHorizonMonths = 6
	// maxOccurrencesPerSubscription caps how far a single subscription is
	// projected regardless of cycle length.
	maxOccurrencesPerSubscription = 12
)

// Occurrence is one projected future charge of a subscription.
type Occurrence struct {
	SubscriptionID string    `json:"subscriptionId"`
	Name           string    `json:"name"`
	Cost           float64   `json:"cost"`
	Currency       string    `json:"currency"`
	Color          string    `json:"color"`
	Icon           string    `json:"icon"`
	Date           time.Time `json:"date"`
}

// MonthGroup bundles a month's projected charges for display.
type MonthGroup struct {
	Month    time.Time    `json:"month"`
	Label    string       `json:"label"`
	Payments []Occurrence `json:"payments"`
}

// Timeline projects future charge occurrences for every subscription,
// starting at its next payment date and advancing by the cycle's calendar
// unit, until either the occurrence cap is hit or the date passes the
// six-month horizon. The merged result is sorted ascending by date.
//
// Calendar advancement uses time.AddDate, so advancing Jan 31 by one month
// normalizes past the end of February into early March.
func Timeline(subs []Subscription, now time.Time) ([]Occurrence, error) {
	today := truncateToDay(now)
	horizon := today.AddDate(0, timelineHorizonMonths, 0)

	var occurrences []Occurrence
	for _, sub := range subs {
		if !IsValidCycle(sub.Cycle) {
			_, err := MonthlyFactor(sub.Cycle)
			return nil, err
		}
		date := truncateToDay(sub.NextPayment)
		for i := 0; i < maxOccurrencesPerSubscription; i++ {
			if date.After(horizon) {
				break
			}
			occurrences = append(occurrences, Occurrence{
				SubscriptionID: sub.ID,
				Name:           sub.Name,
				Cost:           sub.Cost,
				Currency:       sub.Currency,
				Color:          sub.Color,
				Icon:           sub.Icon,
				Date:           date,
			})
			date = NextDate(date, sub.Cycle)
		}
	}

	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Date.Before(occurrences[j].Date)
	})
	return occurrences, nil
}

// GroupByMonth buckets sorted occurrences by calendar month, preserving
// chronological group order.
func GroupByMonth(occurrences []Occurrence) []MonthGroup {
	var groups []MonthGroup
	index := make(map[string]int)

	for _, occ := range occurrences {
		month := time.Date(occ.Date.Year(), occ.Date.Month(), 1, 0, 0, 0, 0, occ.Date.Location())
		key := month.Format("2006-01")
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, MonthGroup{
				Month: month,
				Label: month.Format("January 2006"),
			})
		}
		groups[i].Payments = append(groups[i].Payments, occ)
	}
	return groups
}

// NextDate advances a charge date by one cycle using calendar units.
// Callers are expected to have validated the cycle.
func NextDate(date time.Time, c Cycle) time.Time {
	switch c {
	case CycleWeekly:
		return date.AddDate(0, 0, 7)
	case CycleMonthly:
		return date.AddDate(0, 1, 0)
	case CycleQuarterly:
		return date.AddDate(0, 3, 0)
	default: // CycleYearly
		return date.AddDate(1, 0, 0)
	}
}
