package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/webmarket/webmarket/services/auth/internal/models"
	"github.com/webmarket/webmarket/services/auth/internal/repo"
	"github.com/webmarket/webmarket/services/auth/internal/service"
	"github.com/webmarket/webmarket/services/auth/internal/transport"
)

func newTestServer(t *testing.T) (*echo.Echo, *service.AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc := &service.AuthService{
		Repo:      &repo.GormRepo{DB: db},
		JWTSecret: []byte("test-jwt-secret"),
		TokenTTL:  15 * time.Minute,
	}

	e := echo.New()
	Register(e, &Deps{AuthHandler: &AuthHTTP{Svc: svc}})
	return e, svc
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterAndLogin_EndToEnd(t *testing.T) {
	t.Parallel()

	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", `{"username":"alice","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var reg transport.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.Equal(t, "alice", reg.Username)
	assert.NotZero(t, reg.ID)

	rec = doJSON(e, http.MethodPost, "/auth/register", `{"username":"alice","password":"Other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var login transport.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.Equal(t, "bearer", login.TokenType)
	assert.NotEmpty(t, login.AccessToken)

	rec = doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerifyToken_DistinctFailureModes(t *testing.T) {
	t.Parallel()

	e, svc := newTestServer(t)

	_, err := svc.Register(context.Background(), "bob", "Secret123")
	require.NoError(t, err)
	res, err := svc.Login(context.Background(), "bob", "Secret123")
	require.NoError(t, err)

	verify := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/verify-token", nil)
		if authHeader != "" {
			req.Header.Set(echo.HeaderAuthorization, authHeader)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := verify("Bearer " + res.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var id transport.VerifyTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &id))
	assert.Equal(t, "bob", id.Username)
	assert.NotZero(t, id.UserID)

	rec = verify("")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing authorization header")

	rec = verify("Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bearer scheme")

	rec = verify("Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid or expired token")
}
