package ordering

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/subtrackerapp/subtracker/app/models"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates the production store backed by GORM. Inside a reorder
// transaction the moving row is read with a FOR UPDATE lock, which serializes
// concurrent reorders for the same user.
func NewGormStore(db *gorm.DB) TxStore {
	return &gormStore{db: db}
}

func (s *gormStore) OrderIndex(userID uint, subscriptionID string) (int, error) {
	var sub models.Subscription
	err := s.db.
		Select("id", "order_index").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", subscriptionID, userID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return sub.OrderIndex, nil
}

func (s *gormStore) Count(userID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.Subscription{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return int(count), err
}

func (s *gormStore) ShiftRange(userID uint, start, end, delta int) error {
	return s.db.Model(&models.Subscription{}).
		Where("user_id = ? AND order_index >= ? AND order_index <= ?", userID, start, end).
		Update("order_index", gorm.Expr("order_index + ?", delta)).Error
}

func (s *gormStore) SetOrderIndex(userID uint, subscriptionID string, index int) error {
	return s.db.Model(&models.Subscription{}).
		Where("id = ? AND user_id = ?", subscriptionID, userID).
		Update("order_index", index).Error
}

func (s *gormStore) InTx(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
