package storefront

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vegist/internal/models"
)

const msgUserExists = "user already exists"

// RegisterResult is either an acknowledged insert or, when the email is
// already registered, a message with a null insertedId.
type RegisterResult struct {
	Created      bool                `json:"-"`
	Message      string              `json:"message,omitempty"`
	Acknowledged bool                `json:"acknowledged,omitempty"`
	InsertedID   *primitive.ObjectID `json:"insertedId"`
}

func (s *Service) Register(ctx context.Context, u models.User) (RegisterResult, error) {
	existing, err := s.repo.FindUserByEmail(ctx, u.Email)
	if err != nil {
		return RegisterResult{}, storeFailure("find user", err)
	}
	if existing != nil {
		return RegisterResult{Message: msgUserExists}, nil
	}

	u.ID = nil
	id, err := s.repo.InsertUser(ctx, u)
	if err != nil {
		return RegisterResult{}, storeFailure("insert user", err)
	}
	slog.Info("User registered", "user_id", id.Hex())
	return RegisterResult{Created: true, Acknowledged: true, InsertedID: &id}, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeFailure("list users", err)
	}
	return users, nil
}
