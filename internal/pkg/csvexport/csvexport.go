// Package csvexport renders a user's subscriptions as a CSV document for the
// premium export endpoint.
package csvexport

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/internal/pkg/finance"
)

var header = []string{
	"Name", "Cost", "Currency", "Billing Cycle", "Next Payment",
	"Category", "Notes", "Active", "Created At",
}

// Subscriptions writes all subscriptions, one row each, with the resolved
// category name or the uncategorized sentinel.
func Subscriptions(subs []models.Subscription) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, sub := range subs {
		category := finance.UncategorizedName
		if sub.Category != nil {
			category = sub.Category.Name
		}
		active := "No"
		if sub.IsActive {
			active = "Yes"
		}
		row := []string{
			sub.Name,
			formatAmount(sub.Cost),
			sub.Currency,
			sub.BillingCycle,
			sub.NextPaymentDate.Format("2006-01-02"),
			category,
			sub.Notes,
			active,
			sub.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(finance.Round2(v), 'f', 2, 64)
}
