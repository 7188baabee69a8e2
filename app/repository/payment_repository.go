package repository

import (
	"time"

	"github.com/subtrackerapp/subtracker/app/models"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository backed by GORM.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// MonthlyTotals sums payments per calendar month since the given date,
// oldest month first.
func (r *paymentRepository) MonthlyTotals(userID uint, since time.Time) ([]MonthlyTotal, error) {
	type row struct {
		Month string
		Total float64
	}
	var rows []row
	err := r.db.Model(&models.Payment{}).
		Select("DATE_FORMAT(payment_date, '%Y-%m-01') AS month, SUM(amount) AS total").
		Where("user_id = ? AND payment_date >= ?", userID, since).
		Group("DATE_FORMAT(payment_date, '%Y-%m-01')").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]MonthlyTotal, 0, len(rows))
	for _, rec := range rows {
		month, err := time.Parse("2006-01-02", rec.Month)
		if err != nil {
			return nil, err
		}
		totals = append(totals, MonthlyTotal{Month: month, Total: rec.Total})
	}
	return totals, nil
}

func (r *paymentRepository) TotalSince(userID uint, since time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND payment_date >= ?", userID, since).
		Scan(&total).Error
	return total, err
}
