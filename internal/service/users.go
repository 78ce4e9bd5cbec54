package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

// UsersService serves account profiles and lets staff provision new
// accounts. There is no self-registration; cashier and customer accounts
// are created by staff.
type UsersService struct {
	users UserStore
}

func NewUsersService(users UserStore) *UsersService {
	return &UsersService{users: users}
}

// Profile returns the account behind an authenticated actor.
func (s *UsersService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

// Provision creates an account. Staff only; the password is stored as a
// sha256 hex digest, matching what the auth middleware compares against.
func (s *UsersService) Provision(ctx context.Context, actor models.Actor, user *models.User, password string) error {
	if !actor.IsStaff {
		return apperrors.ErrForbidden
	}

	user.Email = strings.TrimSpace(user.Email)
	if user.Email == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", apperrors.ErrUserInvalid)
	}

	existing, err := s.users.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrUserExists, user.Email)
	}

	hash := sha256.Sum256([]byte(password))
	user.PasswordHash = hex.EncodeToString(hash[:])
	user.IsActive = true

	return s.users.Create(ctx, user)
}
