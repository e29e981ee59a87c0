package storefront

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vegist/internal/store"
)

var (
	ErrInvalidID = errors.New("invalid identifier")
	ErrDuplicate = errors.New("duplicate entry")
	ErrNotFound  = errors.New("not found")
)

// StoreError wraps any failure of the underlying document store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// storeFailure classifies a repository error. A unique-index rejection is
// reported as a duplicate, everything else as a StoreError.
func storeFailure(op string, err error) error {
	if errors.Is(err, store.ErrDuplicateKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return &StoreError{Op: op, Err: err}
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
