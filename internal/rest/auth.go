package rest

import (
	"context"
	"net/http"
	"time"

	"verifiedMarket/internal/middleware"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type SessionService interface {
	Revoke(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID uint) error
}

type AuthHandler struct {
	sessionService SessionService
	timeout        time.Duration
}

func NewAuthHandler(sessionService SessionService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		timeout:        defaultTimeout,
	}
}

// Logout revokes the bearer token the request was made with.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.sessionService.Revoke(ctx, middleware.TokenFrom(c)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Logged out successfully"))
}

// LogoutAll revokes every token of the calling user.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.sessionService.RevokeAll(ctx, middleware.ActorFrom(c).UserID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Logged out of all sessions"))
}
