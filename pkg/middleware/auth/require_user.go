package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/webmarket/webmarket/pkg/authclient"
)

const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxToken    = "bearer_token"
)

type RemoteAuthMiddleware struct {
	AuthClient *authclient.Client
}

func NewRemoteAuth(client *authclient.Client) *RemoteAuthMiddleware {
	return &RemoteAuthMiddleware{AuthClient: client}
}

// RequireUser verifies the bearer token against the auth service on every
// request. An unreachable auth service aborts the request; there is no local
// fallback for identity.
func (m *RemoteAuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		id, err := m.AuthClient.Verify(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, authclient.ErrUnavailable) {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "auth service unavailable")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(CtxUserID, id.UserID)
		c.Set(CtxUsername, id.Username)
		c.Set(CtxToken, token)

		return next(c)
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New("authorization header must use the Bearer scheme")
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", errors.New("empty bearer token")
	}
	return token, nil
}

// UserID returns the verified user id set by RequireUser.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get(CtxUserID).(uint)
	if !ok || id == 0 {
		return 0, errors.New("unauthorized")
	}
	return id, nil
}

// Token returns the raw bearer token set by RequireUser, for forwarding to
// peer services on the caller's behalf.
func Token(c echo.Context) string {
	token, _ := c.Get(CtxToken).(string)
	return token
}
