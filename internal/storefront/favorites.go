package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vegist/internal/models"
)

func (s *Service) AddFavorite(ctx context.Context, fav models.Favorite) (models.InsertResult, error) {
	existing, err := s.repo.FindFavoriteByProduct(ctx, fav.ProductID)
	if err != nil {
		return models.InsertResult{}, storeFailure("find favorite", err)
	}
	if existing != nil {
		return models.InsertResult{}, fmt.Errorf("product %q already favorited: %w", fav.ProductID, ErrDuplicate)
	}

	fav.ID = nil
	id, err := s.repo.InsertFavorite(ctx, fav)
	if err != nil {
		return models.InsertResult{}, storeFailure("insert favorite", err)
	}
	return models.Inserted(id), nil
}

// ListFavorites resolves the favorited products. No favorite records at
// all is reported as ErrNotFound, which clients rely on.
func (s *Service) ListFavorites(ctx context.Context, email string) ([]models.Product, error) {
	favs, err := s.repo.ListFavorites(ctx, email)
	if err != nil {
		return nil, storeFailure("list favorites", err)
	}
	if len(favs) == 0 {
		return nil, fmt.Errorf("favorites for %q: %w", email, ErrNotFound)
	}

	ids := make([]primitive.ObjectID, 0, len(favs))
	for _, f := range favs {
		oid, err := primitive.ObjectIDFromHex(f.ProductID)
		if err != nil {
			slog.Warn("Skipping favorite with malformed product id", "favorite_id", f.ID, "product_id", f.ProductID)
			continue
		}
		ids = append(ids, oid)
	}

	products, err := s.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, storeFailure("find favorite products", err)
	}
	return products, nil
}

// RemoveFavorite deletes the favorite recorded for productID.
func (s *Service) RemoveFavorite(ctx context.Context, productID string) (models.DeleteResult, error) {
	fav, err := s.repo.FindFavoriteByProduct(ctx, productID)
	if err != nil {
		return models.DeleteResult{}, storeFailure("find favorite", err)
	}
	if fav == nil {
		return models.DeleteResult{}, fmt.Errorf("favorite for product %q: %w", productID, ErrNotFound)
	}

	n, err := s.repo.DeleteFavorite(ctx, fav.ID)
	if err != nil {
		return models.DeleteResult{}, storeFailure("delete favorite", err)
	}
	return models.Deleted(n), nil
}
