package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"verifiedMarket/business/access"
	"verifiedMarket/pkg/logger"
	"verifiedMarket/pkg/utils"

	jsonres "verifiedMarket/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "token"

	tokenCheckTimeout = 3 * time.Second
)

// TokenValidator checks that an issued token is still live and returns its
// owner's user id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

// AdminChecker confirms that an identity holds an admin profile.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// AuthMiddleware requires a valid bearer token. validator may be nil, in
// which case the token signature and expiry are all that is checked.
func AuthMiddleware(validator TokenValidator) echo.MiddlewareFunc {
	return authenticate(validator, true)
}

// OptionalAuth accepts anonymous requests but still rejects a bad token.
func OptionalAuth(validator TokenValidator) echo.MiddlewareFunc {
	return authenticate(validator, false)
}

func authenticate(validator TokenValidator, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if !required {
					return next(c)
				}
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"AUTHENTICATION_ERROR", access.MsgAuthenticationRequired, nil,
				))
			}

			tokenParts := strings.Fields(authHeader)
			if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"AUTHENTICATION_ERROR", "Invalid authorization format", nil,
				))
			}

			tokenString := tokenParts[1]

			// ParseJWT rejects expired tokens
			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("rejected token", "error", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"AUTHENTICATION_ERROR", "Invalid or expired token", nil,
				))
			}

			if validator != nil {
				ctx, cancel := context.WithTimeout(c.Request().Context(), tokenCheckTimeout)
				defer cancel()

				userID, err := validator.ValidateToken(ctx, tokenString)
				if err != nil || userID != claims.UserID {
					logger.Warn("token not live", "user_id", claims.UserID, "error", err)
					return c.JSON(http.StatusUnauthorized, jsonres.Error(
						"AUTHENTICATION_ERROR", "Token expired or revoked", nil,
					))
				}
			}

			userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil || userIDUint == 0 {
				logger.Error("Invalid user ID in token", "user_id", claims.UserID)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"AUTHENTICATION_ERROR", "Invalid user ID in token", nil,
				))
			}

			c.Set(ContextUserID, uint(userIDUint))
			c.Set(ContextRole, claims.Role)
			c.Set(ContextToken, tokenString)

			return next(c)
		}
	}
}

// AdminOnly must run after AuthMiddleware. The role claim alone is not
// trusted: the identity must still hold an admin profile.
func AdminOnly(checker AdminChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if !actor.Authenticated() {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"AUTHENTICATION_ERROR", access.MsgAuthenticationRequired, nil,
				))
			}

			if actor.Role != access.RoleAdmin {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"AUTHORIZATION_ERROR", access.MsgAdminRequired, nil,
				))
			}

			isAdmin, err := checker.IsAdmin(c.Request().Context(), actor.UserID)
			if err != nil {
				return err
			}
			if !isAdmin {
				logger.Warn("admin token without admin profile", "user_id", actor.UserID)
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"AUTHORIZATION_ERROR", access.MsgAdminRequired, nil,
				))
			}

			return next(c)
		}
	}
}

// ActorFrom reads the identity the auth middleware stored on c. Requests
// that did not authenticate are anonymous.
func ActorFrom(c echo.Context) access.Actor {
	userID, _ := c.Get(ContextUserID).(uint)
	role, _ := c.Get(ContextRole).(string)

	if userID == 0 || role == "" {
		return access.Anonymous()
	}

	return access.Actor{UserID: userID, Role: access.Role(role)}
}

// TokenFrom returns the bearer token of an authenticated request.
func TokenFrom(c echo.Context) string {
	token, _ := c.Get(ContextToken).(string)
	return token
}
