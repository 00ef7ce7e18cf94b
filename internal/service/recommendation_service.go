package service

import (
	"context"
	"errors"

	"wallet-ledger/internal/models"
	"wallet-ledger/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecommendationService turns ranked subcategory ids into records a client can show.
type RecommendationService struct {
	transactions  *TransactionService
	subCategories SubCategoryReader
	logger        *zap.Logger
}

func NewRecommendationService(
	transactions *TransactionService,
	subCategories SubCategoryReader,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		transactions:  transactions,
		subCategories: subCategories,
		logger:        logger,
	}
}

// Recommend returns the user's most used active subcategories, most used first.
func (s *RecommendationService) Recommend(ctx context.Context, userID string) ([]*models.SubCategory, error) {
	ids, err := s.transactions.RecommendSubCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	recommendations, err := s.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recommendations generated",
		zap.String("user_id", userID),
		zap.Int("ranked", len(ids)),
		zap.Int("count", len(recommendations)),
	)
	return recommendations, nil
}

// Resolve loads the subcategories in order, skipping ids that are gone or inactive.
func (s *RecommendationService) Resolve(ctx context.Context, ids []uuid.UUID) ([]*models.SubCategory, error) {
	resolved, err := s.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*models.SubCategory, 0, len(resolved))
	for _, sc := range resolved {
		if sc != nil {
			out = append(out, sc)
		}
	}
	return out, nil
}

// lookup returns one slot per id; unresolvable ids leave a nil slot.
func (s *RecommendationService) lookup(ctx context.Context, ids []uuid.UUID) ([]*models.SubCategory, error) {
	resolved := make([]*models.SubCategory, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			sc, err := s.subCategories.GetByID(gctx, id)
			switch {
			case errors.Is(err, repository.ErrNotFound), errors.Is(err, ErrNotFound):
				s.logger.Debug("Skipping unresolved subcategory", zap.String("sub_category_id", id.String()))
				return nil
			case err != nil:
				return err
			case !sc.IsActive:
				s.logger.Debug("Skipping inactive subcategory", zap.String("sub_category_id", id.String()))
				return nil
			}
			resolved[i] = sc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}
