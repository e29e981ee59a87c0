package storefront

import (
	"context"

	"vegist/internal/models"
)

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return readThrough(ctx, s, keyCategories, func(ctx context.Context) ([]models.Category, error) {
		categories, err := s.repo.ListCategories(ctx)
		if err != nil {
			return nil, storeFailure("list categories", err)
		}
		return categories, nil
	})
}

// ListProductsByCategory matches the category field exactly. An unknown
// category yields an empty slice.
func (s *Service) ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return readThrough(ctx, s, keyProductCategory+category, func(ctx context.Context) ([]models.Product, error) {
		products, err := s.repo.ListProducts(ctx, category)
		if err != nil {
			return nil, storeFailure("list products by category", err)
		}
		return products, nil
	})
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	return readThrough(ctx, s, keyProducts, func(ctx context.Context) ([]models.Product, error) {
		products, err := s.repo.ListProducts(ctx, "")
		if err != nil {
			return nil, storeFailure("list products", err)
		}
		return products, nil
	})
}

// GetProductByID returns (nil, nil) for a well-formed id that matches
// nothing, and ErrInvalidID when id is not an ObjectID hex string.
func (s *Service) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindProduct(ctx, oid)
	if err != nil {
		return nil, storeFailure("find product", err)
	}
	return p, nil
}

func (s *Service) CreateProduct(ctx context.Context, p models.Product) (models.InsertResult, error) {
	p.ID = nil
	id, err := s.repo.InsertProduct(ctx, p)
	if err != nil {
		return models.InsertResult{}, storeFailure("insert product", err)
	}
	s.invalidate(ctx, keyProducts, keyProductCategory+p.Category)
	return models.Inserted(id), nil
}
