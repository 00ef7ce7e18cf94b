package main

import (
	"fmt"

	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/auth"
	"wallet-ledger/pkg/postgres"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func grantAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-admin <user-id>",
		Short: "Give a registered user the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
			if err != nil {
				return err
			}
			defer db.Close()

			jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)
			authService := service.NewAuthService(repository.NewUserRepository(db, appLogger), jwtManager, appLogger)

			user, err := authService.PromoteToAdmin(ctx, userID)
			if err != nil {
				return err
			}

			appLogger.Info("Admin role granted", zap.String("user_id", user.ID.String()), zap.Strings("roles", user.Roles))
			return nil
		},
	}
}
