package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/errs"
	"github.com/deppfellow/restaurant-pos/internal/lib/session"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

// AuthMiddleware resolves the bearer token of a request to its session.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

var errUnauthorized = func() *errs.HTTPError {
	e := errs.NewUnauthorizedError("Unauthorized", false)
	e.Action = &errs.Action{
		Type:    errs.ActionTypeRedirect,
		Message: "Log in to continue",
		Value:   "/login",
	}
	return e
}()

// RequireAuth accepts "Authorization: Bearer <token>" and stores the
// session, the account id and the role in the echo context.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token := BearerToken(c)
		if token == "" {
			return errUnauthorized
		}

		sess, err := auth.server.Sessions.Get(c.Request().Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				GetLogger(c).Info().
					Str("function", "RequireAuth").
					Dur("duration", time.Since(start)).
					Msg("unknown or expired session token")
				return errUnauthorized
			}
			return err
		}

		c.Set(SessionKey, sess)
		c.Set(UserIDKey, sess.AccountID)
		c.Set(UserRoleKey, sess.Type.String())

		logger := GetLogger(c).With().
			Int("user_id", sess.AccountID).
			Str("user_role", sess.Type.String()).
			Logger()
		c.Set(LoggerKey, &logger)

		logger.Debug().
			Str("function", "RequireAuth").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

// RequireAdmin must run after RequireAuth.
func (auth *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := GetSession(c)
		if sess == nil {
			return errUnauthorized
		}
		if !sess.Type.IsAdmin() {
			return errs.NewForbiddenError("Administrator account required", true)
		}
		return next(c)
	}
}

// BearerToken returns the token of the Authorization header, or "".
func BearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// GetSession returns the session set by RequireAuth, or nil.
func GetSession(c echo.Context) *model.Session {
	if sess, ok := c.Get(SessionKey).(*model.Session); ok {
		return sess
	}
	return nil
}
