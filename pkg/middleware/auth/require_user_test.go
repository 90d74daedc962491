package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmarket/webmarket/pkg/authclient"
)

func newAuthBackend(t *testing.T, handler http.HandlerFunc) *authclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return authclient.NewClient(srv.URL)
}

func protectedEcho(client *authclient.Client) *echo.Echo {
	e := echo.New()
	mw := NewRemoteAuth(client)
	e.GET("/protected", func(c echo.Context) error {
		id, err := UserID(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"user_id": id, "token": Token(c)})
	}, mw.RequireUser)
	return e
}

func TestRequireUser_ValidToken(t *testing.T) {
	t.Parallel()

	client := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"user_id":5,"username":"alice"}`))
	})
	e := protectedEcho(client)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":5`)
	assert.Contains(t, rec.Body.String(), `"token":"good-token"`)
}

func TestRequireUser_HeaderProblems(t *testing.T) {
	t.Parallel()

	client := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user_id":5,"username":"alice"}`))
	})
	e := protectedEcho(client)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic abc123"},
		{name: "empty token", header: "Bearer "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireUser_RejectedToken(t *testing.T) {
	t.Parallel()

	client := newAuthBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	e := protectedEcho(client)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer stale-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireUser_AuthServiceDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	e := protectedEcho(authclient.NewClient(srv.URL))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer any-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// identity cannot be verified locally, so the request fails closed
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
