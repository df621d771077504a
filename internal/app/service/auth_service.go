package service

import (
	"context"
	"errors"
	"fmt"

	"storygame/internal/common"
	"storygame/internal/domain/model"
	"storygame/internal/domain/repository"
)

// AuthService handles registration and login. Identity is the email+username
// pair itself; there are no passwords or tokens in this game.
type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type AuthResponse struct {
	ID      int64 `json:"id"`
	Credits int   `json:"credits"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Username == "" {
		return nil, common.Errorf("email and username are required: %w", common.ErrBadRequest)
	}

	user := &model.User{
		Email:    req.Email,
		Username: req.Username,
		Credits:  0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict when email or username is taken.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &AuthResponse{ID: user.ID, Credits: user.Credits}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Username == "" {
		return nil, common.Errorf("email and username are required: %w", common.ErrBadRequest)
	}

	user, err := s.userRepo.FindByCredentials(ctx, req.Email, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &AuthResponse{ID: user.ID, Credits: user.Credits}, nil
}
