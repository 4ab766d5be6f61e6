package middleware

import (
	"errors"
	"strings"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	userIDKey     = "user_id"
	adminEmailKey = "admin_email"
)

func tokenFrom(c echo.Context) string {
	h := c.Request().Header
	return auth.ExtractToken(h.Get(echo.HeaderAuthorization), h.Get("token"))
}

// RequireUser admits requests carrying a valid shopper token and stores the
// shopper id on the context.
func RequireUser(tokens *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !tokens.Configured() {
				return apperr.Internal("server misconfigured", auth.ErrMissingSecret)
			}

			token := tokenFrom(c)
			if token == "" {
				return apperr.Unauthenticated("Not authorized, login again")
			}

			claims, err := tokens.ParseUser(token)
			if errors.Is(err, auth.ErrNotUserToken) {
				return apperr.Forbidden("Access denied. Users only.")
			}
			if err != nil {
				return apperr.Unauthenticated("Invalid or expired token")
			}

			c.Set(userIDKey, claims.ID)

			req := c.Request()
			l := logger.FromContext(req.Context()).With(zap.String("user_id", claims.ID))
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), l)))

			return next(c)
		}
	}
}

// RequireAdmin admits requests carrying an admin token issued for adminEmail.
func RequireAdmin(tokens *auth.TokenManager, adminEmail string) echo.MiddlewareFunc {
	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !tokens.Configured() {
				return apperr.Internal("server misconfigured", auth.ErrMissingSecret)
			}

			token := tokenFrom(c)
			if token == "" {
				return apperr.Unauthenticated("Not authorized, login again")
			}

			claims, err := tokens.ParseAdmin(token)
			if err != nil {
				return apperr.Unauthenticated("Invalid or expired token")
			}

			if adminEmail == "" || claims.Role != auth.RoleAdmin || strings.ToLower(claims.Email) != adminEmail {
				return apperr.Forbidden("Access denied. Admins only.")
			}

			c.Set(adminEmailKey, claims.Email)
			return next(c)
		}
	}
}

// UserID returns the shopper id resolved by RequireUser.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
