// Package routes wires services and handlers onto the Fiber app.
package routes

import (
	"time"

	"vending/internal/handlers"
	"vending/internal/logging"
	"vending/internal/middleware"
	"vending/internal/models"
	"vending/internal/repositories"
	"vending/internal/services/auth"
	"vending/internal/services/product"
	"vending/internal/services/user"
	"vending/internal/services/vending"
	"vending/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Dependencies are the long-lived collaborators the routes are built from.
type Dependencies struct {
	Store  repositories.Store
	Cache  repositories.CacheRepository
	Logger logging.Logger

	Tokens         utils.TokenConfig
	BcryptCost     int
	VendingTimeout time.Duration

	// AuthRateLimit caps /signup and /login requests per IP and minute.
	// Zero disables the limiter.
	AuthRateLimit int

	Metrics vending.MetricsCollector
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authService := auth.NewService(deps.Store.Users(), auth.Config{
		Tokens:     deps.Tokens,
		BcryptCost: deps.BcryptCost,
	})
	userService := user.NewService(deps.Store, deps.Cache)
	productService := product.NewService(deps.Store, deps.Cache)
	vendingService := vending.NewService(deps.Store, deps.Cache, vending.Config{
		ProcessingTimeout: deps.VendingTimeout,
	}, deps.Metrics)

	authHandler := handlers.NewAuthHandler(authService, deps.Logger)
	userHandler := handlers.NewUserHandler(userService, deps.Logger)
	productHandler := handlers.NewProductHandler(productService, deps.Logger)
	vendingHandler := handlers.NewVendingHandler(vendingService, deps.Logger)
	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Cache)

	authenticated := middleware.NewAuthMiddleware(userService, deps.Tokens.AccessSecret, deps.Logger).Handler
	buyerOnly := middleware.RequireRole(models.RoleBuyer)
	sellerOnly := middleware.RequireRole(models.RoleSeller)

	app.Get("/health", healthHandler.Check)

	// Public endpoints
	if deps.AuthRateLimit > 0 {
		app.Use("/signup", authLimiter(deps.AuthRateLimit))
		app.Use("/login", authLimiter(deps.AuthRateLimit))
	}
	app.Post("/signup", authHandler.Signup)
	app.Post("/login", authHandler.Login)
	app.Post("/rf", authHandler.Refresh)

	app.Get("/products", productHandler.List)
	app.Get("/products/:id", productHandler.Get)

	// Users
	users := app.Group("/users", authenticated)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Patch("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)

	// Seller product management
	app.Post("/products", authenticated, sellerOnly, productHandler.Create)
	app.Patch("/products/:id", authenticated, sellerOnly, productHandler.Update)
	app.Delete("/products/:id", authenticated, sellerOnly, productHandler.Delete)

	// Buyer operations
	app.Post("/deposit", authenticated, buyerOnly, vendingHandler.Deposit)
	app.Post("/reset", authenticated, buyerOnly, vendingHandler.Reset)
	app.Post("/buy", authenticated, buyerOnly, vendingHandler.Buy)
}

func authLimiter(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
				"code":  "RATE_LIMITED",
			})
		},
	})
}
