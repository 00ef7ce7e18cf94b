package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet-ledger/internal/api"
	"wallet-ledger/internal/api/handlers"
	"wallet-ledger/internal/policy"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/auth"
	"wallet-ledger/pkg/config"
	"wallet-ledger/pkg/logger"
	"wallet-ledger/pkg/postgres"

	"go.uber.org/zap"
)

// @title Wallet Ledger API
// @version 1.0
// @description Personal finance ledger: category taxonomy, wallet transactions and subcategory recommendations
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting wallet ledger service")

	editPolicy, err := policy.ParseEditPolicy(cfg.Policy.Edit)
	if err != nil {
		appLogger.Fatal("Invalid edit policy", zap.Error(err))
	}
	ownerOnUpdate, err := policy.ParseOwnerOnUpdate(cfg.Policy.OwnerOnUpdate)
	if err != nil {
		appLogger.Fatal("Invalid owner-on-update policy", zap.Error(err))
	}

	// Schema first, then the pool
	if err := postgres.MigrateUp(&cfg.Database, appLogger); err != nil {
		appLogger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, logger.Component("user_repository"))
	categoryRepo := repository.NewCategoryRepository(db, logger.Component("category_repository"))
	subCategoryRepo := repository.NewSubCategoryRepository(db, logger.Component("subcategory_repository"))
	txRepo := repository.NewTransactionRepository(db, logger.Component("transaction_repository"))

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, logger.Component("auth"))
	categoryService := service.NewCategoryService(categoryRepo, editPolicy, logger.Component("categories"))
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo, editPolicy, logger.Component("subcategories"))
	txService := service.NewTransactionService(txRepo, subCategoryRepo, editPolicy, ownerOnUpdate, logger.Component("transactions"))
	recService := service.NewRecommendationService(txService, subCategoryRepo, logger.Component("recommendations"))

	app := api.SetupRouter(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService, appLogger),
		Category:    handlers.NewCategoryHandler(categoryService, appLogger),
		SubCategory: handlers.NewSubCategoryHandler(subCategoryService, appLogger),
		Transaction: handlers.NewTransactionHandler(txService, recService, appLogger),
	}, jwtManager, cfg.Server, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting",
			zap.String("address", addr),
			zap.String("edit_policy", string(editPolicy)),
			zap.String("owner_on_update", string(ownerOnUpdate)),
		)
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
