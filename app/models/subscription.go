package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultSubscriptionColor = "#6366f1"
	DefaultSubscriptionIcon  = "credit-card"
	DefaultCurrency          = "RUB"
)

// Subscription is one recurring charge owned by exactly one user. For a
// given user the order_index values of all subscriptions stay dense
// (0..n-1); only deletes may leave gaps.
type Subscription struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=1,max=255"`
	Cost            float64   `gorm:"type:decimal(10,2);not null" json:"cost" validate:"required,gt=0"`
	Currency        string    `gorm:"type:char(3);not null;default:'RUB'" json:"currency" validate:"required,len=3"`
	BillingCycle    string    `gorm:"type:varchar(16);not null" json:"billing_cycle" validate:"required,oneof=weekly monthly quarterly yearly"`
	NextPaymentDate time.Time `gorm:"type:date;not null" json:"next_payment_date" validate:"required"`
	CategoryID      *string   `gorm:"type:char(36);index;default:null" json:"category_id,omitempty"`
	Category        *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Color           string    `gorm:"type:varchar(7);not null;default:'#6366f1'" json:"color" validate:"omitempty,hexcolor"`
	Icon            string    `gorm:"type:varchar(50);not null;default:'credit-card'" json:"icon" validate:"max=50"`
	Notes           string    `gorm:"type:text" json:"notes" validate:"max=1000"`
	IsActive        bool      `gorm:"not null;default:true;index" json:"is_active"`
	OrderIndex      int       `gorm:"not null;default:0;index" json:"order_index"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (s *Subscription) Validate() error {
	v := validator.New()

	return v.Struct(s)
}
