package storefront

import (
	"context"
	"fmt"

	"vegist/internal/models"
)

// AddToCart rejects a second item for the same product_id. The check is
// global, not per email.
func (s *Service) AddToCart(ctx context.Context, item models.CartItem) (models.InsertResult, error) {
	existing, err := s.repo.FindCartItemByProduct(ctx, item.ProductID)
	if err != nil {
		return models.InsertResult{}, storeFailure("find cart item", err)
	}
	if existing != nil {
		return models.InsertResult{}, fmt.Errorf("product %q already in cart: %w", item.ProductID, ErrDuplicate)
	}

	item.ID = nil
	id, err := s.repo.InsertCartItem(ctx, item)
	if err != nil {
		return models.InsertResult{}, storeFailure("insert cart item", err)
	}
	return models.Inserted(id), nil
}

// ListCartItems returns every cart item when email is empty.
func (s *Service) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	items, err := s.repo.ListCartItems(ctx, email)
	if err != nil {
		return nil, storeFailure("list cart items", err)
	}
	return items, nil
}

// RemoveCartItem deletes by record id. Deleting an absent id reports zero
// deletions.
func (s *Service) RemoveCartItem(ctx context.Context, id string) (models.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return models.DeleteResult{}, err
	}
	n, err := s.repo.DeleteCartItem(ctx, oid)
	if err != nil {
		return models.DeleteResult{}, storeFailure("delete cart item", err)
	}
	return models.Deleted(n), nil
}
