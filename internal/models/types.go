package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UsersCollection      = "users"
	CategoriesCollection = "categories"
	ProductsCollection   = "vegetables"
	CartCollection       = "addedCards"
	FavoritesCollection  = "favorites"
)

// Attributes holds every document field that has no named struct field.
// It is inlined in BSON and flattened next to the named fields in JSON.
type Attributes map[string]any

// Only the fields the service filters or dedupes on are typed. Ids are
// whatever the store holds: an ObjectID for documents written here, any
// BSON value for documents seeded from elsewhere. ObjectIDs render as hex.

type User struct {
	ID    any        `bson:"_id,omitempty" json:"_id"`
	Email string     `bson:"email" json:"email"`
	Extra Attributes `bson:",inline" json:"-"`
}

type Category struct {
	ID       any        `bson:"_id,omitempty" json:"_id"`
	Category string     `bson:"category,omitempty" json:"category,omitempty"`
	Extra    Attributes `bson:",inline" json:"-"`
}

// Product is a catalog item; the collection is named "vegetables". Name,
// price and the rest live in Extra as stored.
type Product struct {
	ID       any        `bson:"_id,omitempty" json:"_id"`
	Category string     `bson:"category" json:"category"`
	Extra    Attributes `bson:",inline" json:"-"`
}

type CartItem struct {
	ID        any        `bson:"_id,omitempty" json:"_id"`
	ProductID string     `bson:"product_id" json:"product_id"`
	Email     string     `bson:"email" json:"email"`
	Extra     Attributes `bson:",inline" json:"-"`
}

type Favorite struct {
	ID        any        `bson:"_id,omitempty" json:"_id"`
	ProductID string     `bson:"product_id" json:"product_id"`
	Email     string     `bson:"email" json:"email"`
	Extra     Attributes `bson:",inline" json:"-"`
}

type InsertResult struct {
	Acknowledged bool                `json:"acknowledged"`
	InsertedID   *primitive.ObjectID `json:"insertedId"`
}

func Inserted(id primitive.ObjectID) InsertResult {
	return InsertResult{Acknowledged: true, InsertedID: &id}
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func Deleted(n int64) DeleteResult {
	return DeleteResult{Acknowledged: true, DeletedCount: n}
}
