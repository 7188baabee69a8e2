package controllers

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/subtrackerapp/subtracker/app/models"
	"github.com/subtrackerapp/subtracker/app/repository"
	"github.com/subtrackerapp/subtracker/internal/pkg/usercontext"
)

// memStores is the in-memory persistence backing handler tests. The repo
// fakes built on it honor the same contracts as the GORM implementations,
// including gorm.ErrRecordNotFound for missing rows and clearing
// subscription references when a category is deleted.
type memStores struct {
	users         map[uint]*models.User
	subscriptions map[string]*models.Subscription
	categories    map[string]*models.Category
	payments      []*models.Payment
}

func newMemStores() *memStores {
	return &memStores{
		users:         map[uint]*models.User{},
		subscriptions: map[string]*models.Subscription{},
		categories:    map[string]*models.Category{},
	}
}

func (m *memStores) install() {
	repository.SetGlobalRepositories(&repository.Repositories{
		User:         &memUserRepo{m},
		Subscription: &memSubscriptionRepo{m},
		Category:     &memCategoryRepo{m},
		Payment:      &memPaymentRepo{m},
	})
}

// newHandlerTestApp builds a fiber app whose first middleware authenticates
// every request as the given user, mirroring what BearerAuth does after
// token verification.
func newHandlerTestApp(userID uint, register func(app *fiber.App)) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		usercontext.Set(c, usercontext.UserContext{UserID: userID, IsLoggedIn: true})
		return c.Next()
	})
	register(app)
	return app
}

type memUserRepo struct{ s *memStores }

func (r *memUserRepo) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = uint(len(r.s.users) + 1)
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, user := range r.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) Update(user *models.User) error {
	r.s.users[user.ID] = user
	return nil
}

func (r *memUserRepo) SoftDelete(id uint, archivedUntil time.Time) error {
	user, ok := r.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.ArchivedUntil = &archivedUntil
	for _, sub := range r.s.subscriptions {
		if sub.UserID == id {
			sub.IsActive = false
		}
	}
	delete(r.s.users, id)
	return nil
}

type memSubscriptionRepo struct{ s *memStores }

func (r *memSubscriptionRepo) resolve(sub *models.Subscription) *models.Subscription {
	if sub.CategoryID != nil {
		sub.Category = r.s.categories[*sub.CategoryID]
	} else {
		sub.Category = nil
	}
	return sub
}

func (r *memSubscriptionRepo) Create(sub *models.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	r.s.subscriptions[sub.ID] = sub
	return nil
}

func (r *memSubscriptionRepo) GetByID(userID uint, id string) (*models.Subscription, error) {
	sub, ok := r.s.subscriptions[id]
	if !ok || sub.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return r.resolve(sub), nil
}

func (r *memSubscriptionRepo) listByUser(userID uint, activeOnly bool) []models.Subscription {
	var subs []models.Subscription
	for _, sub := range r.s.subscriptions {
		if sub.UserID != userID || (activeOnly && !sub.IsActive) {
			continue
		}
		subs = append(subs, *r.resolve(sub))
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].OrderIndex < subs[j].OrderIndex })
	return subs
}

func (r *memSubscriptionRepo) ListByUser(userID uint) ([]models.Subscription, error) {
	return r.listByUser(userID, false), nil
}

func (r *memSubscriptionRepo) ListActiveByUser(userID uint) ([]models.Subscription, error) {
	return r.listByUser(userID, true), nil
}

func (r *memSubscriptionRepo) Update(sub *models.Subscription) error {
	r.s.subscriptions[sub.ID] = sub
	return nil
}

func (r *memSubscriptionRepo) Delete(userID uint, id string) error {
	sub, ok := r.s.subscriptions[id]
	if !ok || sub.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.subscriptions, id)
	return nil
}

func (r *memSubscriptionRepo) MaxOrderIndex(userID uint) (int, error) {
	max := -1
	for _, sub := range r.s.subscriptions {
		if sub.UserID == userID && sub.OrderIndex > max {
			max = sub.OrderIndex
		}
	}
	return max, nil
}

func (r *memSubscriptionRepo) CountActiveByUser(userID uint) (int64, error) {
	var count int64
	for _, sub := range r.s.subscriptions {
		if sub.UserID == userID && sub.IsActive {
			count++
		}
	}
	return count, nil
}

type memCategoryRepo struct{ s *memStores }

func (r *memCategoryRepo) Create(category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	r.s.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) GetByID(id string) (*models.Category, error) {
	category, ok := r.s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (r *memCategoryRepo) ListPresets() ([]models.Category, error) {
	var categories []models.Category
	for _, category := range r.s.categories {
		if category.IsPreset {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (r *memCategoryRepo) ListByUser(userID uint) ([]models.Category, error) {
	var categories []models.Category
	for _, category := range r.s.categories {
		if category.UserID != nil && *category.UserID == userID {
			categories = append(categories, *category)
		}
	}
	return categories, nil
}

func (r *memCategoryRepo) NameExists(userID uint, name string) (bool, error) {
	for _, category := range r.s.categories {
		if category.Name != name {
			continue
		}
		if category.IsPreset || (category.UserID != nil && *category.UserID == userID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCategoryRepo) Update(category *models.Category) error {
	r.s.categories[category.ID] = category
	return nil
}

func (r *memCategoryRepo) Delete(userID uint, id string) error {
	category, ok := r.s.categories[id]
	if !ok || category.UserID == nil || *category.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	for _, sub := range r.s.subscriptions {
		if sub.UserID == userID && sub.CategoryID != nil && *sub.CategoryID == id {
			sub.CategoryID = nil
			sub.Category = nil
		}
	}
	delete(r.s.categories, id)
	return nil
}

type memPaymentRepo struct{ s *memStores }

func (r *memPaymentRepo) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	r.s.payments = append(r.s.payments, payment)
	return nil
}

func (r *memPaymentRepo) MonthlyTotals(userID uint, since time.Time) ([]repository.MonthlyTotal, error) {
	byMonth := map[time.Time]float64{}
	for _, p := range r.s.payments {
		if p.UserID != userID || p.PaymentDate.Before(since) {
			continue
		}
		month := time.Date(p.PaymentDate.Year(), p.PaymentDate.Month(), 1, 0, 0, 0, 0, time.UTC)
		byMonth[month] += p.Amount
	}
	totals := make([]repository.MonthlyTotal, 0, len(byMonth))
	for month, total := range byMonth {
		totals = append(totals, repository.MonthlyTotal{Month: month, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Month.Before(totals[j].Month) })
	return totals, nil
}

func (r *memPaymentRepo) TotalSince(userID uint, since time.Time) (float64, error) {
	var total float64
	for _, p := range r.s.payments {
		if p.UserID == userID && !p.PaymentDate.Before(since) {
			total += p.Amount
		}
	}
	return total, nil
}
