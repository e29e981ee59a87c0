package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"vegist/internal/models"
)

type MongoStore struct {
	db        *mongo.Database
	opTimeout time.Duration

	users      *mongo.Collection
	categories *mongo.Collection
	products   *mongo.Collection
	cart       *mongo.Collection
	favorites  *mongo.Collection
}

func NewMongoStore(db *mongo.Database, opTimeout time.Duration) *MongoStore {
	return &MongoStore{
		db:         db,
		opTimeout:  opTimeout,
		users:      db.Collection(models.UsersCollection),
		categories: db.Collection(models.CategoriesCollection),
		products:   db.Collection(models.ProductsCollection),
		cart:       db.Collection(models.CartCollection),
		favorites:  db.Collection(models.FavoritesCollection),
	}
}

func (s *MongoStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", coll.Name(), err)
	}
	return &doc, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc any) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("insert %s: %w", coll.Name(), ErrDuplicateKey)
		}
		return primitive.NilObjectID, fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert %s: unexpected id type %T", coll.Name(), res.InsertedID)
	}
	return id, nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id any) (int64, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func optionalFilter(field, value string) bson.M {
	if value == "" {
		return bson.M{}
	}
	return bson.M{field: value}
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findOne[models.User](ctx, s.users, bson.M{"email": email})
}

func (s *MongoStore) InsertUser(ctx context.Context, u models.User) (primitive.ObjectID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return insertOne(ctx, s.users, u)
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findAll[models.User](ctx, s.users, bson.M{})
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findAll[models.Category](ctx, s.categories, bson.M{})
}

func (s *MongoStore) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findAll[models.Product](ctx, s.products, optionalFilter("category", category))
}

func (s *MongoStore) FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findOne[models.Product](ctx, s.products, bson.M{"_id": id})
}

func (s *MongoStore) FindProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findAll[models.Product](ctx, s.products, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) InsertProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return insertOne(ctx, s.products, p)
}

func (s *MongoStore) FindCartItemByProduct(ctx context.Context, productID string) (*models.CartItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findOne[models.CartItem](ctx, s.cart, bson.M{"product_id": productID})
}

func (s *MongoStore) InsertCartItem(ctx context.Context, item models.CartItem) (primitive.ObjectID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return insertOne(ctx, s.cart, item)
}

func (s *MongoStore) ListCartItems(ctx context.Context, email string) ([]models.CartItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findAll[models.CartItem](ctx, s.cart, optionalFilter("email", email))
}

func (s *MongoStore) DeleteCartItem(ctx context.Context, id primitive.ObjectID) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, s.cart, id)
}

func (s *MongoStore) FindFavoriteByProduct(ctx context.Context, productID string) (*models.Favorite, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findOne[models.Favorite](ctx, s.favorites, bson.M{"product_id": productID})
}

func (s *MongoStore) InsertFavorite(ctx context.Context, fav models.Favorite) (primitive.ObjectID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return insertOne(ctx, s.favorites, fav)
}

func (s *MongoStore) ListFavorites(ctx context.Context, email string) ([]models.Favorite, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return findAll[models.Favorite](ctx, s.favorites, optionalFilter("email", email))
}

func (s *MongoStore) DeleteFavorite(ctx context.Context, id any) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return deleteByID(ctx, s.favorites, id)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.Client().Ping(ctx, nil)
}
