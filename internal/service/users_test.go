package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "marquee/internal/errors"
	"marquee/internal/models"
)

type fakeUserStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.nextID++
	user.UserID = f.nextID
	user.RegisteredAt = time.Now()
	stored := *user
	f.users[user.UserID] = &stored
	return nil
}

var staffActor = models.Actor{UserID: 1, IsStaff: true}

func TestProfile(t *testing.T) {
	store := newFakeUserStore()
	require.NoError(t, store.Create(context.Background(), &models.User{Email: "cashier@marquee.test"}))

	svc := NewUsersService(store)

	user, err := svc.Profile(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "cashier@marquee.test", user.Email)

	_, err = svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestProvision(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUsersService(store)

	user := &models.User{Email: "new@marquee.test", FirstName: "New"}
	require.NoError(t, svc.Provision(context.Background(), staffActor, user, "secret"))

	stored, err := store.GetByEmail(context.Background(), "new@marquee.test")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.IsActive)

	// Stored hash matches what the auth middleware computes on login.
	hash := sha256.Sum256([]byte("secret"))
	assert.Equal(t, hex.EncodeToString(hash[:]), stored.PasswordHash)

	// Same email again is a conflict.
	err = svc.Provision(context.Background(), staffActor, &models.User{Email: "new@marquee.test"}, "other")
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestProvisionRequiresStaff(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUsersService(store)

	err := svc.Provision(context.Background(), models.Actor{UserID: 2}, &models.User{Email: "x@marquee.test"}, "secret")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, store.users)
}

func TestProvisionValidation(t *testing.T) {
	svc := NewUsersService(newFakeUserStore())

	err := svc.Provision(context.Background(), staffActor, &models.User{Email: "  "}, "secret")
	assert.ErrorIs(t, err, apperrors.ErrUserInvalid)

	err = svc.Provision(context.Background(), staffActor, &models.User{Email: "x@marquee.test"}, "")
	assert.ErrorIs(t, err, apperrors.ErrUserInvalid)
}
