package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/webmarket/webmarket/pkg/logging"
	"github.com/webmarket/webmarket/services/auth/internal/service"
	"github.com/webmarket/webmarket/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			return echo.NewHTTPError(http.StatusBadRequest, "username already exists")
		}
		if errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid username or password")
		}
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("login_success")
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
	})
}

// VerifyToken is the endpoint every peer service calls to authenticate a
// request. The three failure modes (missing, malformed, invalid) are distinct
// on purpose.
func (h *AuthHTTP) VerifyToken(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_token")

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		l.Warn("verify_token_error", "status", 401, "reason", "missing header")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		l.Warn("verify_token_error", "status", 401, "reason", "malformed scheme")
		return echo.NewHTTPError(http.StatusUnauthorized, "authorization header must use the Bearer scheme")
	}

	claims, err := h.Svc.VerifyToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		l.Warn("verify_token_error", "status", 401, "reason", "invalid token", "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	return c.JSON(http.StatusOK, transport.VerifyTokenResponse{
		UserID:   claims.UserID,
		Username: claims.Subject,
	})
}
