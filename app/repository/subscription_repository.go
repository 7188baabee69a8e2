package repository

import (
	"github.com/subtrackerapp/subtracker/app/models"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository backed by GORM.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *models.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *subscriptionRepository) GetByID(userID uint, id string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) ListByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("order_index ASC, created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) ListActiveByUser(userID uint) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.Preload("Category").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("order_index ASC, created_at DESC").
		Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) Update(sub *models.Subscription) error {
	return r.db.Save(sub).Error
}

func (r *subscriptionRepository) Delete(userID uint, id string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subscriptionRepository) MaxOrderIndex(userID uint) (int, error) {
	var max int
	err := r.db.Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(order_index), -1)").
		Scan(&max).Error
	return max, err
}

func (r *subscriptionRepository) CountActiveByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

