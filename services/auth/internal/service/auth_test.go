package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webmarket/webmarket/services/auth/internal/models"
	"github.com/webmarket/webmarket/services/auth/internal/repo"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return &AuthService{
		Repo:      &repo.GormRepo{DB: db},
		JWTSecret: []byte("test-jwt-secret"),
		TokenTTL:  15 * time.Minute,
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "secret"},
		{name: "empty password", username: "user", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(ctx, tt.username, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_SuccessAndConflict(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "Secret123", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "OtherPassword")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob", "Secret123")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "bob", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.NotEmpty(t, res.AccessToken)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), res.ExpiresAt, 5*time.Second)

	claims, err := svc.VerifyToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "bob", claims.Subject)
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "carol", "Secret123")
	require.NoError(t, err)

	// wrong password and unknown user are indistinguishable
	_, err = svc.Login(ctx, "carol", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken_Invalid(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)

	_, err := svc.VerifyToken("not-a-jwt")
	require.Error(t, err)

	other := newTestAuthService(t)
	other.JWTSecret = []byte("different-secret")
	res := mustLogin(t, other, "dave", "Secret123")

	// token signed with a different secret is rejected
	_, err = svc.VerifyToken(res.AccessToken)
	require.Error(t, err)
}

func mustLogin(t *testing.T, svc *AuthService, username, password string) *LoginResult {
	t.Helper()

	ctx := context.Background()
	_, err := svc.Register(ctx, username, password)
	require.NoError(t, err)
	res, err := svc.Login(ctx, username, password)
	require.NoError(t, err)
	return res
}
