package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/clock"
	"github.com/tmnegociosdigitais/crmdesk/internal/domain"
	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// UserService is the admin-facing agent directory of a client.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	clock      clock.Clock
}

// UserCreateInput describes a new agent.
type UserCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.UserRole
	Department *string
}

// UserUpdateInput is a sparse agent update.
type UserUpdateInput struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *domain.UserRole
	Department *string
	IsActive   *bool
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int, clk clock.Clock) *UserService {
	if clk == nil {
		clk = clock.Real()
	}
	return &UserService{users: users, bcryptCost: bcryptCost, clock: clk}
}

// ListUsers returns the agents of the actor's client.
func (s *UserService) ListUsers(ctx context.Context, actor Actor) ([]domain.User, error) {
	users, err := s.users.List(ctx, actor.ClientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// CreateUser adds an agent to the actor's client.
func (s *UserService) CreateUser(ctx context.Context, actor Actor, input UserCreateInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errRequired("name")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword("password", input.Password); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.UserRoleAgent
	}
	if !role.Valid() {
		return nil, errInvalidField("role", role)
	}
	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.clock.Now()
	user := &domain.User{
		ClientID:     actor.ClientID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   input.Department,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userWriteError(err, email)
	}
	return user, nil
}

// UpdateUser changes an agent of the actor's client.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.ownedUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, errRequired("name")
		}
		user.Name = name
	}
	if input.Email != nil {
		email, err := normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, errInvalidField("role", *input.Role)
		}
		user.Role = *input.Role
	}
	if input.Department != nil {
		if strings.TrimSpace(*input.Department) == "" {
			user.Department = nil
		} else {
			department := *input.Department
			user.Department = &department
		}
	}
	if input.IsActive != nil {
		if !*input.IsActive && user.ID == actor.UserID {
			return nil, apperrors.NewValidationError("cannot deactivate yourself", nil)
		}
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if err := checkPassword("password", *input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.clock.Now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, userWriteError(err, user.Email)
	}
	return user, nil
}

// DeleteUser removes an agent. Tickets assigned to it become unassigned.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if id == actor.UserID {
		return apperrors.NewValidationError("cannot delete yourself", nil)
	}
	if _, err := s.ownedUser(ctx, actor, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "user", "user_id", id)
	}
	return nil
}

func (s *UserService) ownedUser(ctx context.Context, actor Actor, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user", "user_id", id)
	}
	if user.ClientID != actor.ClientID {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
	}
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errRequired("email")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errInvalidField("email", email)
	}
	return email, nil
}

func checkPassword(field, password string) error {
	switch err := auth.ValidatePassword(password); {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return errInvalidField(field, "too short")
	case errors.Is(err, auth.ErrPasswordTooLong):
		return errInvalidField(field, "too long")
	}
	return nil
}

func userWriteError(err error, email string) error {
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}
	return apperrors.MapError(err)
}

// GetUser returns an agent of the actor's client.
func (s *UserService) GetUser(ctx context.Context, actor Actor, id string) (*domain.User, error) {
	return s.ownedUser(ctx, actor, id)
}
