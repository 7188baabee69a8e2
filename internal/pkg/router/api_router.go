package router

import (
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/subtrackerapp/subtracker/app/controllers"
	"github.com/subtrackerapp/subtracker/internal/pkg/cache"
	"github.com/subtrackerapp/subtracker/internal/pkg/database"
	"github.com/subtrackerapp/subtracker/internal/pkg/env"
	"github.com/subtrackerapp/subtracker/internal/pkg/middleware"
	"github.com/subtrackerapp/subtracker/internal/pkg/ordering"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Resolve user identity for every request before any route runs.
	app.Use(middleware.BearerAuth)

	controllers.InitializeSubscriptionController(
		ordering.NewEngine(ordering.NewGormStore(database.GetDB())))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		Storage:    newLimiterStorage(),
	}))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)
	auth.Post("/refresh", controllers.HandleRefresh)
	auth.Post("/logout", controllers.HandleLogout)

	subs := api.Group("/subscriptions", middleware.RequireAuth)
	subs.Get("/", controllers.HandleListSubscriptions)
	subs.Post("/", controllers.HandleCreateSubscription)
	subs.Put("/:id", controllers.HandleUpdateSubscription)
	subs.Delete("/:id", controllers.HandleDeleteSubscription)
	subs.Patch("/:id/reorder", controllers.HandleReorderSubscription)
	subs.Post("/:id/pay", controllers.HandleMarkSubscriptionPaid)

	categories := api.Group("/categories", middleware.RequireAuth)
	categories.Get("/", controllers.HandleListCategories)
	categories.Post("/", controllers.HandleCreateCategory)
	categories.Put("/:id", controllers.HandleUpdateCategory)
	categories.Delete("/:id", controllers.HandleDeleteCategory)

	stats := api.Group("/stats", middleware.RequireAuth)
	stats.Get("/", controllers.HandleStats)
	stats.Get("/timeline", controllers.HandleTimeline)

	user := api.Group("/user", middleware.RequireAuth)
	user.Get("/profile", controllers.HandleProfile)
	user.Post("/change-password", controllers.HandleChangePassword)
	user.Delete("/account", controllers.HandleDeleteAccount)

	premium := api.Group("/premium")
	premium.Post("/generate", middleware.RequireAuth, controllers.HandleGeneratePremiumPayment)
	premium.Post("/verify", controllers.HandleVerifyPremiumPayment)

	api.Get("/export/csv", middleware.RequireAuth, controllers.HandleExportCSV)
}

// newLimiterStorage backs the rate limiter with redis so limits hold across
// instances. Database 1 keeps limiter keys out of the cache keyspace.
func newLimiterStorage() fiber.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}
	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
	})
}
