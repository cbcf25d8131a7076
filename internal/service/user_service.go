package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/flowcoach-api/internal/dto"
	"github.com/noah-isme/flowcoach-api/internal/models"
	"github.com/noah-isme/flowcoach-api/internal/repository"
)

// Identity is the account information carried by an access token.
type Identity struct {
	ID    string `validate:"required"`
	Email string `validate:"omitempty,email"`
	Name  string
}

// UserService mirrors accounts from the auth provider and resolves their roles.
type UserService interface {
	Sync(ctx context.Context, identity Identity) (dto.UserProfileResponse, error)
	Profile(ctx context.Context, userID string) (dto.UserProfileResponse, error)
	SetRole(ctx context.Context, email, role string) (dto.UserProfileResponse, error)
	Navigation(role string) dto.NavigationResponse
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

// Sync records the account on first sight and refreshes its email and name afterwards.
// Tokens without an email are resolved against the existing record only.
func (s *userService) Sync(ctx context.Context, identity Identity) (dto.UserProfileResponse, error) {
	identity.ID = strings.TrimSpace(identity.ID)
	identity.Email = strings.ToLower(strings.TrimSpace(identity.Email))
	identity.Name = strings.TrimSpace(identity.Name)
	if err := s.validator.Struct(identity); err != nil {
		return dto.UserProfileResponse{}, &InputError{Message: "token identity is invalid"}
	}

	if identity.Email == "" {
		profile, err := s.Profile(ctx, identity.ID)
		if errors.Is(err, ErrNotFound) {
			return dto.UserProfileResponse{ID: identity.ID, Name: identity.Name, Role: models.UserRoleUser}, nil
		}
		return profile, err
	}

	user := models.User{ID: identity.ID, Email: identity.Email, Name: identity.Name}
	if err := s.repo.Upsert(ctx, &user); err != nil {
		s.logger.Error().Err(err).Str("user_id", identity.ID).Msg("failed to sync user")
		return dto.UserProfileResponse{}, err
	}

	return s.Profile(ctx, identity.ID)
}

func (s *userService) Profile(ctx context.Context, userID string) (dto.UserProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return dto.UserProfileResponse{}, notFound(err)
	}
	return dto.NewUserProfileResponse(user), nil
}

// SetRole changes an account's role. It is only reachable from the command line.
func (s *userService) SetRole(ctx context.Context, email, role string) (dto.UserProfileResponse, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !models.ValidUserRole(role) {
		return dto.UserProfileResponse{}, &InputError{Message: "role must be user or admin"}
	}

	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return dto.UserProfileResponse{}, notFound(err)
	}

	if err := s.repo.UpdateRole(ctx, user.ID, role); err != nil {
		return dto.UserProfileResponse{}, notFound(err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", role).Msg("user role updated")
	user.Role = role
	return dto.NewUserProfileResponse(user), nil
}

// Navigation lists the sidebar entries for role. Admins additionally see the admin panel.
func (s *userService) Navigation(role string) dto.NavigationResponse {
	if role == "" {
		role = models.UserRoleUser
	}

	items := []dto.NavigationItem{
		{Key: "usecases", Label: "Use Case Generator", Path: "/api/v1/generator"},
		{Key: "workflow", Label: "Workflow Evaluator", Path: "/api/v1/evaluator"},
		{Key: "json", Label: "JSON Analyzer", Path: "/api/v1/analyzer"},
		{Key: "history", Label: "History", Path: "/api/v1/history"},
	}
	if (models.User{Role: role}).IsAdmin() {
		items = append(items, dto.NavigationItem{Key: "admin", Label: "Admin Panel", Path: "/api/admin/submissions"})
	}

	return dto.NavigationResponse{Role: role, Items: items}
}
