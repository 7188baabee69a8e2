package repository

import (
	"time"

	"github.com/subtrackerapp/subtracker/app/models"
	"gorm.io/gorm"
)

type premiumPaymentRepository struct {
	db *gorm.DB
}

// NewPremiumPaymentRepository creates a new premium payment repository backed by GORM.
func NewPremiumPaymentRepository(db *gorm.DB) PremiumPaymentRepository {
	return &premiumPaymentRepository{db: db}
}

func (r *premiumPaymentRepository) Create(payment *models.PremiumPayment) error {
	return r.db.Create(payment).Error
}

func (r *premiumPaymentRepository) GetByUID(paymentUID string) (*models.PremiumPayment, error) {
	var payment models.PremiumPayment
	err := r.db.Where("payment_uid = ?", paymentUID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *premiumPaymentRepository) MarkCompleted(id string, paidAt time.Time) error {
	return r.db.Model(&models.PremiumPayment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  models.PremiumPaymentCompleted,
			"paid_at": paidAt,
		}).Error
}
