package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/service"
	"wallet-ledger/pkg/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

//go:embed taxonomy.json
var defaultTaxonomy []byte

// seedCaller acts for the operator; seeded entries are global and never owned.
var seedCaller = policy.Caller{UserID: "walletctl", IsAdmin: true}

type taxonomyEntry struct {
	Name          string   `json:"name"`
	SubCategories []string `json:"subcategories"`
}

type seedStats struct {
	created int
	skipped int
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the global category taxonomy",
		Long: `Create global categories and subcategories from a JSON taxonomy.

Entries that already exist are skipped, so the command can be re-run safely.`,
		RunE: runSeed,
	}
	cmd.Flags().String("file", "", "taxonomy JSON file (default: built-in taxonomy)")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	raw := defaultTaxonomy
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return fmt.Errorf("failed to read taxonomy: %w", err)
		}
	}

	var taxonomy []taxonomyEntry
	if err := json.Unmarshal(raw, &taxonomy); err != nil {
		return fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	ctx := cmd.Context()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	categoryRepo := repository.NewCategoryRepository(db, appLogger)
	subCategoryRepo := repository.NewSubCategoryRepository(db, appLogger)
	seeder := &taxonomySeeder{
		categoryRepo:  categoryRepo,
		categories:    service.NewCategoryService(categoryRepo, policy.AnyAuthenticatedCallerMayEdit, appLogger),
		subCategories: service.NewSubCategoryService(subCategoryRepo, categoryRepo, policy.AnyAuthenticatedCallerMayEdit, appLogger),
	}

	stats, err := seeder.seed(ctx, taxonomy)
	if err != nil {
		return err
	}

	appLogger.Info("Seeding completed", zap.Int("created", stats.created), zap.Int("skipped", stats.skipped))
	return nil
}

type globalCategoryFinder interface {
	FindActiveByName(ctx context.Context, name string, isCustom bool) (*models.Category, error)
}

type taxonomySeeder struct {
	categoryRepo  globalCategoryFinder
	categories    *service.CategoryService
	subCategories *service.SubCategoryService
}

func (s *taxonomySeeder) seed(ctx context.Context, taxonomy []taxonomyEntry) (seedStats, error) {
	var stats seedStats
	for _, entry := range taxonomy {
		category, err := s.categories.Create(ctx, seedCaller, entry.Name, false)
		switch {
		case err == nil:
			stats.created++
		case errors.Is(err, service.ErrConflict):
			stats.skipped++
			if category, err = s.categoryRepo.FindActiveByName(ctx, entry.Name, false); err != nil {
				return stats, fmt.Errorf("failed to load category %q: %w", entry.Name, err)
			}
		default:
			return stats, fmt.Errorf("failed to seed category %q: %w", entry.Name, err)
		}

		for _, name := range entry.SubCategories {
			_, err := s.subCategories.Create(ctx, seedCaller, category.ID, name, false)
			switch {
			case err == nil:
				stats.created++
			case errors.Is(err, service.ErrConflict):
				stats.skipped++
			default:
				return stats, fmt.Errorf("failed to seed subcategory %q: %w", name, err)
			}
		}
	}
	return stats, nil
}
