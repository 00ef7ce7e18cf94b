package api

import (
	"errors"

	"wallet-ledger/docs"
	"wallet-ledger/internal/api/handlers"
	"wallet-ledger/pkg/auth"
	"wallet-ledger/pkg/config"
	"wallet-ledger/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Category    *handlers.CategoryHandler
	SubCategory *handlers.SubCategoryHandler
	Transaction *handlers.TransactionHandler
}

func SetupRouter(
	h Handlers,
	jwtManager *auth.JWTManager,
	serverCfg config.ServerConfig,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))
	protected.Get("/me", h.Auth.Me)

	categories := protected.Group("/categories")
	categories.Get("", h.Category.List)
	categories.Get("/count", h.Category.Count)
	categories.Get("/by-name", h.Category.GetByName)
	categories.Get("/:id", h.Category.GetByID)
	categories.Post("", h.Category.Create)
	categories.Patch("/:id", h.Category.Update)
	categories.Delete("/:id", h.Category.Delete)
	categories.Get("/:id/subcategories", h.SubCategory.ListInCategory)

	subCategories := protected.Group("/subcategories")
	subCategories.Get("", h.SubCategory.List)
	subCategories.Get("/count", h.SubCategory.Count)
	subCategories.Get("/by-name", h.SubCategory.GetByName)
	subCategories.Get("/:id", h.SubCategory.GetByID)
	subCategories.Post("", h.SubCategory.Create)
	subCategories.Patch("/:id", h.SubCategory.Update)
	subCategories.Delete("/:id", h.SubCategory.Delete)

	transactions := protected.Group("/transactions")
	transactions.Get("", h.Transaction.List)
	transactions.Get("/net-amount", h.Transaction.NetAmount)
	transactions.Get("/recommendations", h.Transaction.Recommendations)
	transactions.Get("/:id", h.Transaction.GetByID)
	transactions.Post("", h.Transaction.Create)
	transactions.Patch("/:id", h.Transaction.Update)
	transactions.Delete("/:id", h.Transaction.Delete)

	admin := protected.Group("/admin", middleware.RequireAdmin(appLogger))
	admin.Post("/users/:id/admin", h.Auth.AddAdmin)

	return app
}
