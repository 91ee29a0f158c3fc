package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/config"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// AuthService coordinates agent login.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	clock      clock.Clock
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, tokens *auth.TokenManager, clk clock.Clock) *AuthService {
	if clk == nil {
		clk = clock.Real()
	}
	return &AuthService{users: users, tokenMgr: tokens, bcryptCost: cfg.BcryptCost, clock: clk}
}

// Login authenticates an agent by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.Token, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Token{}, apperrors.NewValidationError("email and password are required", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, domain.Token{}, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, domain.Token{}, apperrors.NewUnauthorized("user disabled")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, domain.Token{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return user, token, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := checkPassword("newPassword", newPassword); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "user", "user_id", userID)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.clock.Now()
	return apperrors.MapError(s.users.Update(ctx, user))
}
