package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCategoryIcon = "tag"

// Category groups subscriptions. Presets have no owner and are immutable;
// custom categories belong to one user.
type Category struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    *uint     `gorm:"index;default:null" json:"user_id,omitempty"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=1,max=100"`
	Color     string    `gorm:"type:varchar(7);not null;default:'#6366f1'" json:"color" validate:"omitempty,hexcolor"`
	Icon      string    `gorm:"type:varchar(50);not null;default:'tag'" json:"icon" validate:"max=50"`
	IsPreset  bool      `gorm:"not null;default:false;index" json:"is_preset"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (c *Category) Validate() error {
	v := validator.New()

	return v.Struct(c)
}
