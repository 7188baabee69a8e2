package repository

import (
	"time"

	"github.com/subtrackerapp/subtracker/app/models"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository backed by GORM.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// SoftDelete archives the account and deactivates all of its subscriptions
// in one transaction. The row stays recoverable until archivedUntil.
func (r *userRepository) SoftDelete(id uint, archivedUntil time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", id).
			Update("archived_until", archivedUntil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ?", id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}
