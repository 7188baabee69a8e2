package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment records a charge that already happened. The stats endpoint
// aggregates these into the monthly spend trend.
type Payment struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	SubscriptionID *string   `gorm:"type:char(36);index;default:null" json:"subscription_id,omitempty"`
	Amount         float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency       string    `gorm:"type:char(3);not null;default:'RUB'" json:"currency"`
	PaymentDate    time.Time `gorm:"type:date;not null;index" json:"payment_date"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
