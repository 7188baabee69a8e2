package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PremiumPaymentPending   = "pending"
	PremiumPaymentCompleted = "completed"
	PremiumPaymentCancelled = "cancelled"
)

// PremiumPayment tracks one manually verified premium purchase attempt,
// identified by the short payment uid the user puts into the bank transfer
// comment.
type PremiumPayment struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	PaymentUID string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"payment_uid"`
	Amount     float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency   string     `gorm:"type:char(3);not null;default:'RUB'" json:"currency"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaidAt     *time.Time `gorm:"type:timestamp;default:null" json:"paid_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (p *PremiumPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
