package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	pkg_hash "github.com/webmarket/webmarket/pkg/hash"
	"github.com/webmarket/webmarket/pkg/logging"
	"github.com/webmarket/webmarket/pkg/tokens"
	"github.com/webmarket/webmarket/services/auth/internal/models"
	"github.com/webmarket/webmarket/services/auth/internal/repo"
)

var (
	ErrValidation         = errors.New("validation")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	TokenTTL  time.Duration
}

type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (h *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
	}
	if err := h.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 400, "reason", "username taken", "username", username)
			return nil, fmt.Errorf("%w: username taken", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, err
	}

	return &user, nil
}

func (h *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := h.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 400, "reason", "unknown user")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 400, "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := tokens.Issue(user.ID, user.Username, h.JWTSecret, h.TokenTTL)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   exp,
	}, nil
}

// VerifyToken validates an access token and extracts the identity it carries.
// It is read-only and safe to call concurrently.
func (h *AuthService) VerifyToken(tokenStr string) (*tokens.AccessClaims, error) {
	claims, err := tokens.Parse(tokenStr, h.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 || claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
