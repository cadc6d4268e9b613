package services

import (
	"context"
	"fmt"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/internal/auth"
	"github.com/hottakes/hottakes-api/internal/models"
	"github.com/hottakes/hottakes-api/internal/repository"
	"github.com/hottakes/hottakes-api/internal/types"
	"github.com/hottakes/hottakes-api/internal/utils"
	"github.com/hottakes/hottakes-api/internal/validation"
)

type AuthService struct {
	users repository.UserRepository
	auth  *auth.Authenticator
}

func NewAuthService(users repository.UserRepository, authenticator *auth.Authenticator) *AuthService {
	return &AuthService{
		users: users,
		auth:  authenticator,
	}
}

// Signup creates an account. The password is hashed by the model hook.
func (s *AuthService) Signup(ctx context.Context, req *validation.SignupInput) (*models.User, error) {
	user := models.User{
		Email:    utils.NormalizeEmail(req.Email),
		Password: req.Password,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *validation.LoginInput) (*types.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(req.Email))
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.BadCredentials()
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, apperr.BadCredentials()
	}

	token, expiresAt, err := s.auth.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &types.LoginResponse{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}
