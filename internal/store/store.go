package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vegist/internal/models"
)

// ErrDuplicateKey is returned by inserts rejected by a unique index.
var ErrDuplicateKey = errors.New("duplicate key")

// Repository is the collection-level access the storefront needs.
// Find* methods return (nil, nil) when nothing matches. Empty filters
// (email == "", category == "") mean "no filter".
type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	InsertUser(ctx context.Context, u models.User) (primitive.ObjectID, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	ListCategories(ctx context.Context) ([]models.Category, error)

	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	InsertProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error)

	FindCartItemByProduct(ctx context.Context, productID string) (*models.CartItem, error)
	InsertCartItem(ctx context.Context, item models.CartItem) (primitive.ObjectID, error)
	ListCartItems(ctx context.Context, email string) ([]models.CartItem, error)
	DeleteCartItem(ctx context.Context, id primitive.ObjectID) (int64, error)

	FindFavoriteByProduct(ctx context.Context, productID string) (*models.Favorite, error)
	InsertFavorite(ctx context.Context, fav models.Favorite) (primitive.ObjectID, error)
	ListFavorites(ctx context.Context, email string) ([]models.Favorite, error)
	// DeleteFavorite takes the _id as read back from the store, which need
	// not be an ObjectID.
	DeleteFavorite(ctx context.Context, id any) (int64, error)

	Ping(ctx context.Context) error
}

var (
	_ Repository = (*MongoStore)(nil)
	_ Repository = (*MemoryStore)(nil)
)
