package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tilworks/glossary/internal/data"
	"github.com/tilworks/glossary/internal/domain/model"
	apperrors "github.com/tilworks/glossary/internal/errors"
	"github.com/tilworks/glossary/internal/ports"
)

// UserService handles registration and user lookups.
type UserService struct {
	users    ports.UserRepository
	verifier ports.CredentialVerifier
}

// NewUserService constructs a new UserService.
func NewUserService(users ports.UserRepository, verifier ports.CredentialVerifier) *UserService {
	return &UserService{users: users, verifier: verifier}
}

// Register validates the request, hashes the password, and creates the user.
// A taken username yields a conflict error.
func (s *UserService) Register(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, ports.CreateUserParams{
		Name:         req.Name,
		Username:     req.Username,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, data.ErrUsernameExists) {
			conflict := apperrors.Conflict("username already taken")
			conflict.Field = "username"
			return nil, conflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns all users ordered by username.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
