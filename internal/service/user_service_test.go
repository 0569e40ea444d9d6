package service

import (
	"context"
	"testing"

	"internet-banking/internal/repository"
	"internet-banking/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	repository.UserRepository

	byUsername map[string]*models.User
	lastLogins []int64
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, exists := f.byUsername[user.Username]; exists {
		return repository.ErrDuplicateUser
	}
	user.ID = int64(len(f.byUsername) + 1)
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := f.byUsername[username]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	f.lastLogins = append(f.lastLogins, id)
	return nil
}

func registerRequest() *models.RegisterRequest {
	return &models.RegisterRequest{
		Username:  "bob",
		Email:     "bob@example.com",
		Password:  "hunter2hunter2",
		FirstName: "Bob",
		LastName:  "Smith",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := &fakeUserStore{byUsername: map[string]*models.User{}}
	svc := NewUserService(store)

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.True(t, user.Enabled)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash, "plaintext must never be stored")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := &fakeUserStore{byUsername: map[string]*models.User{}}
	svc := NewUserService(store)

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, repository.ErrDuplicateUser)
}

func TestAuthenticate(t *testing.T) {
	store := &fakeUserStore{byUsername: map[string]*models.User{}}
	svc := NewUserService(store)

	registered, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate(context.Background(), &models.LoginRequest{Username: "bob", Password: "hunter2hunter2"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Contains(t, store.lastLogins, registered.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), &models.LoginRequest{Username: "bob", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), &models.LoginRequest{Username: "mallory", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("locked user", func(t *testing.T) {
		store.byUsername["bob"].Locked = true
		defer func() { store.byUsername["bob"].Locked = false }()

		_, err := svc.Authenticate(context.Background(), &models.LoginRequest{Username: "bob", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("disabled user", func(t *testing.T) {
		store.byUsername["bob"].Enabled = false
		defer func() { store.byUsername["bob"].Enabled = true }()

		_, err := svc.Authenticate(context.Background(), &models.LoginRequest{Username: "bob", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
