package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/config"
	"github.com/deppfellow/restaurant-pos/internal/errs"
	"github.com/deppfellow/restaurant-pos/internal/lib/session"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Server: config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Auth:   config.AuthConfig{SessionTTL: time.Hour, LoginRatePerMinute: 2},
		},
		Logger:   &logger,
		Sessions: session.NewMemoryStore(),
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	m := NewMiddlewares(s)
	e.HTTPErrorHandler = m.Global.GlobalErrorHandler
	e.Use(RequestID(), m.ContextEnhancer.EnhanceContext())
	return e
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t)
	e := newEcho(s)
	auth := NewAuthMiddleware(s)

	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"id": GetUserID(c), "role": GetUserRole(c)})
	}, auth.RequireAuth)
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, auth.RequireAuth, auth.RequireAdmin)

	require.NoError(t, s.Sessions.Save(context.Background(), model.Session{Token: "staff-token", AccountID: 7, Type: model.AccountTypeStaff}, time.Hour))
	require.NoError(t, s.Sessions.Save(context.Background(), model.Session{Token: "admin-token", AccountID: 1, Type: model.AccountTypeAdmin}, time.Hour))

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"staff session", "/me", "Bearer staff-token", http.StatusOK},
		{"scheme is case insensitive", "/me", "bearer staff-token", http.StatusOK},
		{"staff on admin route", "/admin", "Bearer staff-token", http.StatusForbidden},
		{"admin on admin route", "/admin", "Bearer admin-token", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				body := decodeError(t, rec)
				require.NotNil(t, body.Action)
				assert.Equal(t, "/login", body.Action.Value)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer staff-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"id":7,"role":"staff"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestGlobalErrorHandler(t *testing.T) {
	s := newTestServer(t)
	e := newEcho(s)

	e.GET("/missing-bill", func(c echo.Context) error {
		return fmt.Errorf("load: table:bills: %w", pgx.ErrNoRows)
	})
	e.GET("/boom", func(c echo.Context) error {
		return fmt.Errorf("dial tcp: connection refused")
	})
	e.GET("/conflict", func(c echo.Context) error {
		return errs.NewConflictError("The bill is already paid", true, errs.Code("BILL_ALREADY_PAID"))
	})

	tests := []struct {
		path     string
		status   int
		code     string
		message  string
		override bool
	}{
		{"/missing-bill", http.StatusNotFound, "NOT_FOUND", "Bill not found", true},
		{"/boom", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal Server Error", false},
		{"/conflict", http.StatusConflict, "BILL_ALREADY_PAID", "The bill is already paid", true},
		{"/no-such-route", http.StatusNotFound, "NOT_FOUND", "Route not found", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.override, body.Override)
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	s := newTestServer(t)
	e := newEcho(s)
	limiter := NewRateLimitMiddleware(s).LoginLimiter()

	e.POST("/login", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, limiter)

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code, "other clients keep their own budget")
}

func TestToHTTPError_EchoErrors(t *testing.T) {
	got := toHTTPError(echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"))
	assert.Equal(t, http.StatusMethodNotAllowed, got.Status)
	assert.Equal(t, "METHOD_NOT_ALLOWED", got.Code)
	assert.Equal(t, "method not allowed", got.Message)

	got = toHTTPError(echo.NewHTTPError(http.StatusRequestEntityTooLarge, map[string]string{"detail": "x"}))
	assert.Equal(t, http.StatusText(http.StatusRequestEntityTooLarge), got.Message)
}
