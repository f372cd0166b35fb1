package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/auth"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService implements registration, login, password recovery and
// profile updates.
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// RegisterInput carries a registration request. Every field is required;
// binding produces field-specific messages before the service runs.
type RegisterInput struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Password string          `json:"password" validate:"required"`
	Phone    string          `json:"phone" validate:"required"`
	Address  *models.Address `json:"address" validate:"required"`
	Answer   string          `json:"answer" validate:"required"`
}

// Register creates an account. Registering an email that already exists is
// a benign no-op: the existing account is reported with existed=true and
// nothing is written. A duplicate-key race on the unique email index is
// folded into the same outcome.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (user *models.User, existed bool, err error) {
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("register: %w", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, false, fmt.Errorf("register: hash password: %w", err)
	}

	user = &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Answer:   in.Answer,
		Role:     models.RoleUser,
	}
	if in.Address != nil {
		user.Address = *in.Address
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsDuplicate(err) {
			// Lost the check-then-insert race; same benign outcome.
			if existing, ferr := s.users.FindByEmail(ctx, in.Email); ferr == nil {
				return existing, true, nil
			}
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("register: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex())
	return user, false, nil
}

// Login verifies credentials and issues a 7-day token with a sanitized
// user projection. ErrUserNotFound means the email is unknown;
// ErrWrongPassword means the account exists but the password did not
// verify.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, "", ErrUserNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, "", ErrWrongPassword
	}

	token, err := auth.GenerateToken(user.ID.Hex())
	if err != nil {
		return nil, "", fmt.Errorf("login: sign token: %w", err)
	}

	return user, token, nil
}

// ForgotPassword resets the password of the account matching both email
// and security answer. A miss on either yields ErrWrongRecovery — the two
// failures are deliberately indistinguishable.
func (s *AuthService) ForgotPassword(ctx context.Context, email, answer, newPassword string) error {
	user, err := s.users.FindByEmailAndAnswer(ctx, email, answer)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrWrongRecovery
	}
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("forgot password: hash: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	logger.WithCtx(ctx).Info("password reset", "user_id", user.ID.Hex())
	return nil
}

// ProfileInput carries a profile update. Empty fields keep their stored
// values.
type ProfileInput struct {
	Name     string          `json:"name"`
	Password string          `json:"password"`
	Phone    string          `json:"phone"`
	Address  *models.Address `json:"address"`
}

// UpdateProfile applies in to the authenticated user. Supplying a password
// shorter than 6 characters fails the whole update with
// ErrPasswordTooShort — no partial write, no silent ignore.
func (s *AuthService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in ProfileInput) (*models.User, error) {
	if in.Password != "" && len(in.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if in.Address != nil {
		user.Address = *in.Address
	}
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("update profile: hash: %w", err)
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Role resolves the stored role for the authorization guard. The id comes
// from a verified token; a malformed or unknown id is an authorization
// failure, not a server error.
func (s *AuthService) Role(ctx context.Context, userID string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, fmt.Errorf("role: invalid user id: %w", err)
	}
	return s.users.RoleByID(ctx, oid)
}
