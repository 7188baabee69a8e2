package repository

import (
	"encoding/json"
	"time"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/internal/pkg/cache"
	"gorm.io/gorm"
)

const (
	presetCategoriesCacheKey = "categories:presets"
	presetCategoriesCacheTTL = 30 * time.Minute
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository backed by GORM.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetByID(id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListPresets returns the shared preset categories. Presets are immutable,
// so the result is cached in Redis for 30 minutes.
func (r *categoryRepository) ListPresets() ([]models.Category, error) {
	if cached, err := cache.Get(presetCategoriesCacheKey); err == nil && cached != "" {
		var categories []models.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			return categories, nil
		}
	}

	var categories []models.Category
	if err := r.db.Where("is_preset = ?", true).Find(&categories).Error; err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(categories); err == nil {
		_ = cache.Set(presetCategoriesCacheKey, string(payload), presetCategoriesCacheTTL)
	}

	return categories, nil
}

func (r *categoryRepository) ListByUser(userID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Where("user_id = ?", userID).Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) NameExists(userID uint, name string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Category{}).
		Where("name = ? AND (user_id = ? OR is_preset = ?)", name, userID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *categoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete removes a custom category and clears the reference on the owner's
// subscriptions in one transaction.
func (r *categoryRepository) Delete(userID uint, id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", id, userID).
			Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
