package repository

import (
	"time"

	"github.com/subtrackerapp/subtracker/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	SoftDelete(id uint, archivedUntil time.Time) error
}

// SubscriptionRepository defines the interface for subscription-related
// database operations. List results carry the resolved category.
type SubscriptionRepository interface {
	Create(sub *models.Subscription) error
	GetByID(userID uint, id string) (*models.Subscription, error)
	ListByUser(userID uint) ([]models.Subscription, error)
	ListActiveByUser(userID uint) ([]models.Subscription, error)
	Update(sub *models.Subscription) error
	Delete(userID uint, id string) error
	MaxOrderIndex(userID uint) (int, error)
	CountActiveByUser(userID uint) (int64, error)
}

// CategoryRepository defines the interface for category-related operations
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id string) (*models.Category, error)
	ListPresets() ([]models.Category, error)
	ListByUser(userID uint) ([]models.Category, error)
	NameExists(userID uint, name string) (bool, error)
	Update(category *models.Category) error
	Delete(userID uint, id string) error
}

// MonthlyTotal is one month's summed payments.
type MonthlyTotal struct {
	Month time.Time
	Total float64
}

// PaymentRepository defines the interface for payment-history operations
type PaymentRepository interface {
	Create(payment *models.Payment) error
	MonthlyTotals(userID uint, since time.Time) ([]MonthlyTotal, error)
	TotalSince(userID uint, since time.Time) (float64, error)
}

// PremiumPaymentRepository defines the interface for premium payment records
type PremiumPaymentRepository interface {
	Create(payment *models.PremiumPayment) error
	GetByUID(paymentUID string) (*models.PremiumPayment, error)
	MarkCompleted(id string, paidAt time.Time) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User           UserRepository
	Subscription   SubscriptionRepository
	Category       CategoryRepository
	Payment        PaymentRepository
	PremiumPayment PremiumPaymentRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Subscription:   NewSubscriptionRepository(db),
		Category:       NewCategoryRepository(db),
		Payment:        NewPaymentRepository(db),
		PremiumPayment: NewPremiumPaymentRepository(db),
	}
}
