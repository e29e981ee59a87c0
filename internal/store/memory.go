package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vegist/internal/models"
)

// MemoryStore keeps every collection in insertion order. It backs the
// "memory" store driver for local runs and the service tests. Like the
// Mongo store without unique indexes, it enforces no uniqueness itself.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []models.User
	categories []models.Category
	products   []models.Product
	cart       []models.CartItem
	favorites  []models.Favorite
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SeedCategories replaces the category collection; categories have no
// write endpoint and are seeded externally.
func (s *MemoryStore) SeedCategories(categories ...models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = s.categories[:0]
	for _, c := range categories {
		if c.ID == nil {
			c.ID = primitive.NewObjectID()
		}
		s.categories = append(s.categories, c)
	}
}

func filterCopy[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep == nil || keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func firstMatch[T any](items []T, match func(T) bool) *T {
	for _, it := range items {
		if match(it) {
			found := it
			return &found
		}
	}
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return firstMatch(s.users, func(u models.User) bool { return u.Email == email }), nil
}

func (s *MemoryStore) InsertUser(_ context.Context, u models.User) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	u.ID = id
	s.users = append(s.users, u)
	return id, nil
}

func (s *MemoryStore) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterCopy(s.users, nil), nil
}

func (s *MemoryStore) ListCategories(context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterCopy(s.categories, nil), nil
}

func (s *MemoryStore) ListProducts(_ context.Context, category string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if category == "" {
		return filterCopy(s.products, nil), nil
	}
	return filterCopy(s.products, func(p models.Product) bool { return p.Category == category }), nil
}

func (s *MemoryStore) FindProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return firstMatch(s.products, func(p models.Product) bool { return p.ID == id }), nil
}

func (s *MemoryStore) FindProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	want := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterCopy(s.products, func(p models.Product) bool {
		oid, ok := p.ID.(primitive.ObjectID)
		if !ok {
			return false
		}
		_, ok = want[oid]
		return ok
	}), nil
}

func (s *MemoryStore) InsertProduct(_ context.Context, p models.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	p.ID = id
	s.products = append(s.products, p)
	return id, nil
}

func (s *MemoryStore) FindCartItemByProduct(_ context.Context, productID string) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return firstMatch(s.cart, func(c models.CartItem) bool { return c.ProductID == productID }), nil
}

func (s *MemoryStore) InsertCartItem(_ context.Context, item models.CartItem) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	item.ID = id
	s.cart = append(s.cart, item)
	return id, nil
}

func (s *MemoryStore) ListCartItems(_ context.Context, email string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if email == "" {
		return filterCopy(s.cart, nil), nil
	}
	return filterCopy(s.cart, func(c models.CartItem) bool { return c.Email == email }), nil
}

func (s *MemoryStore) DeleteCartItem(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.cart {
		if c.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) FindFavoriteByProduct(_ context.Context, productID string) (*models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return firstMatch(s.favorites, func(f models.Favorite) bool { return f.ProductID == productID }), nil
}

func (s *MemoryStore) InsertFavorite(_ context.Context, fav models.Favorite) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := primitive.NewObjectID()
	fav.ID = id
	s.favorites = append(s.favorites, fav)
	return id, nil
}

func (s *MemoryStore) ListFavorites(_ context.Context, email string) ([]models.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if email == "" {
		return filterCopy(s.favorites, nil), nil
	}
	return filterCopy(s.favorites, func(f models.Favorite) bool { return f.Email == email }), nil
}

func (s *MemoryStore) DeleteFavorite(_ context.Context, id any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.favorites {
		if f.ID == id {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
