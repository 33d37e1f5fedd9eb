package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskhub/internal/auth"
	"taskhub/internal/models"
	"taskhub/internal/repository"
	"taskhub/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles accounts, credentials and profiles.
type UserService struct {
	users      UserStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewUserService(users UserStore, tokens *auth.TokenManager, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ProfileInput struct {
	Bio         *string `json:"bio"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	User   *models.User
	Tokens auth.Pair
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, in.Email, string(hash), models.RoleMember)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, FieldError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	logger.AuditLogger.Info("User registered", zap.Int("user_id", u.ID))
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validate(in); err != nil {
		return nil, err
	}

	u, hash, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Login for unknown email", zap.String("email", in.Email))
			return nil, AuthenticationError("Invalid credentials", nil)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.Int("user_id", u.ID))
		return nil, AuthenticationError("Invalid credentials", nil)
	}

	pair, err := s.tokens.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	logger.AuditLogger.Info("Login success", zap.Int("user_id", u.ID), zap.String("role", u.Role))
	return &AuthResult{User: u, Tokens: pair}, nil
}

// Logout revokes the given refresh token.
func (s *UserService) Logout(ctx context.Context, refresh string) error {
	if strings.TrimSpace(refresh) == "" {
		return ValidationError("Refresh token is required")
	}
	if err := s.tokens.Revoke(ctx, refresh); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrWrongType) {
			return ValidationError("Invalid or expired token")
		}
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *UserService) RefreshAccess(ctx context.Context, refresh string) (string, error) {
	if strings.TrimSpace(refresh) == "" {
		return "", FieldError("refresh", "This field is required.")
	}
	access, err := s.tokens.Refresh(ctx, refresh)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrWrongType), errors.Is(err, auth.ErrRevoked):
			return "", AuthenticationError("Token is invalid or expired", err)
		}
		return "", fmt.Errorf("refresh token: %w", err)
	}
	return access, nil
}

func (s *UserService) Profile(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userLookupError(err)
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int, in ProfileInput) (*models.User, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateProfile(ctx, userID, models.Profile{
		Bio:         in.Bio,
		PhoneNumber: in.PhoneNumber,
		Location:    in.Location,
	})
	if err != nil {
		return nil, userLookupError(err)
	}
	return u, nil
}

// SetAvatar stores the public path of an uploaded avatar.
func (s *UserService) SetAvatar(ctx context.Context, userID int, path string) (*models.User, error) {
	u, err := s.users.UpdateProfile(ctx, userID, models.Profile{Avatar: &path})
	if err != nil {
		return nil, userLookupError(err)
	}
	return u, nil
}

// ListUsers returns the users a task can be assigned to.
func (s *UserService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	return s.users.List(ctx)
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError("User not found.", err)
	}
	return fmt.Errorf("user lookup: %w", err)
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + strings.ToLower(email[at:])
}
