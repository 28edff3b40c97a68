package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/config"
	"github.com/deppfellow/restaurant-pos/internal/errs"
	"github.com/deppfellow/restaurant-pos/internal/handler"
	"github.com/deppfellow/restaurant-pos/internal/lib/session"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/repository/memstore"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
)

type apiTest struct {
	t        *testing.T
	ctx      context.Context
	e        *echo.Echo
	repos    *repository.Repositories
	services *service.Services
}

func newAPITest(t *testing.T) *apiTest {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Server:  config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Auth: config.AuthConfig{
				SessionTTL:         time.Hour,
				DefaultSalt:        "A1B2C3D4E5",
				DefaultPassword:    "123456",
				LoginRatePerMinute: 100,
			},
		},
		Logger:   &logger,
		Sessions: session.NewMemoryStore(),
	}

	repos := memstore.New().Repositories()
	services := service.NewServices(s, repos)

	return &apiTest{
		t:        t,
		ctx:      context.Background(),
		e:        NewRouter(s, handler.NewHandlers(s, services)),
		repos:    repos,
		services: services,
	}
}

func (a *apiTest) account(userName string, typ model.AccountType) {
	a.t.Helper()
	_, err := a.services.Accounts.CreateAccount(a.ctx, service.CreateAccountInput{
		UserName:    userName,
		DisplayName: userName,
		Password:    "secret-pw",
		Type:        typ,
	})
	require.NoError(a.t, err)
}

func (a *apiTest) login(userName string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"user_name": userName,
		"password":  "secret-pw",
	})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var res handler.LoginResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(a.t, res.Token)
	return res.Token
}

func (a *apiTest) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestStatus(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodGet, "/status", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[handler.HealthResponse](t, rec)
	assert.Equal(t, "healthy", res.Status)
	assert.Equal(t, "test", res.Environment)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestUnknownRoute(t *testing.T) {
	a := newAPITest(t)

	rec := a.do(http.MethodGet, "/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLogin(t *testing.T) {
	a := newAPITest(t)
	a.account("cashier", model.AccountTypeStaff)

	t.Run("wrong password", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"user_name": "cashier",
			"password":  "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decode[errs.HTTPError](t, rec).Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		fields := make([]string, 0, len(body.Errors))
		for _, fe := range body.Errors {
			fields = append(fields, fe.Field)
		}
		assert.ElementsMatch(t, []string{"user_name", "password"}, fields)
	})

	t.Run("session round trip", func(t *testing.T) {
		token := a.login("cashier")

		rec := a.do(http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "cashier", decode[model.Account](t, rec).UserName)

		rec = a.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = a.do(http.MethodGet, "/api/v1/auth/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestProtectedRoutes(t *testing.T) {
	a := newAPITest(t)
	a.account("cashier", model.AccountTypeStaff)
	staff := a.login("cashier")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/tables", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/tables", staff, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/v1/admin/tables", staff, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/v1/reports/revenue?from=2024-01-01", staff, nil).Code)
}

func TestOrderToCheckOut(t *testing.T) {
	a := newAPITest(t)
	a.account("boss", model.AccountTypeAdmin)
	token := a.login("boss")

	rec := a.do(http.MethodPost, "/api/v1/admin/tables", token, map[string]string{"name": "Table 1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	table := decode[model.TableFood](t, rec)

	rec = a.do(http.MethodPost, "/api/v1/admin/categories", token, map[string]string{"name": "Drinks"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[model.FoodCategory](t, rec)

	rec = a.do(http.MethodPost, "/api/v1/admin/foods", token, map[string]any{
		"name":        "Lemonade",
		"category_id": category.ID,
		"price":       2.5,
		"unit":        "glass",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	food := decode[model.Food](t, rec)
	assert.True(t, food.IsActive)

	itemsPath := fmt.Sprintf("/api/v1/tables/%d/items", table.ID)

	rec = a.do(http.MethodPost, itemsPath, token, map[string]int{"food_id": food.ID, "count": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "count", decode[errs.HTTPError](t, rec).Errors[0].Field)

	rec = a.do(http.MethodPost, itemsPath, token, map[string]int{"food_id": food.ID, "count": 4})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = a.do(http.MethodDelete, fmt.Sprintf("%s/%d", itemsPath, food.ID), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/v1/tables/%d/menu", table.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]model.MenuItem](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Count)
	assert.InDelta(t, 7.5, items[0].Total, 0.001)

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/v1/tables/%d/bill", table.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[model.BillDetail](t, rec)
	assert.Equal(t, "Table 1", detail.TableName)

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/v1/bills/%d/checkout", detail.ID), token, map[string]any{"discount": 101})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/v1/bills/%d/checkout", detail.ID), token, map[string]any{"discount": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[model.Bill](t, rec)
	assert.True(t, paid.IsPaid())
	assert.InDelta(t, 6.75, paid.Final(), 0.001)
	require.NotNil(t, paid.StaffID)

	rec = a.do(http.MethodPost, fmt.Sprintf("/api/v1/bills/%d/checkout", detail.ID), token, map[string]any{"discount": 0})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodGet, fmt.Sprintf("/api/v1/tables/%d/bill", table.ID), token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	today := time.Now().Format("2006-01-02")

	rec = a.do(http.MethodGet, "/api/v1/reports/revenue?from="+today, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[model.RevenueReport](t, rec)
	assert.Equal(t, 1, report.BillCount)
	assert.InDelta(t, 6.75, report.NetTotal, 0.001)

	rec = a.do(http.MethodGet, "/api/v1/reports/revenue.csv?from="+today, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "revenue.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "bill_id,table,"))
}

func TestSwitchTable(t *testing.T) {
	a := newAPITest(t)
	a.account("cashier", model.AccountTypeStaff)
	token := a.login("cashier")

	from, err := a.repos.Tables.Create(a.ctx, "A", model.TableEmpty)
	require.NoError(t, err)
	to, err := a.repos.Tables.Create(a.ctx, "B", model.TableEmpty)
	require.NoError(t, err)

	path := fmt.Sprintf("/api/v1/tables/%d/switch", from.ID)

	rec := a.do(http.MethodPost, path, token, map[string]int{"to_table_id": from.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, path, token, map[string]int{"to_table_id": to.ID})
	assert.Equal(t, http.StatusConflict, rec.Code, "no open bill on the source table")

	rec = a.do(http.MethodPost, path, token, map[string]int{"to_table_id": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevenueValidation(t *testing.T) {
	a := newAPITest(t)
	a.account("boss", model.AccountTypeAdmin)
	token := a.login("boss")

	tests := []struct {
		name  string
		query string
	}{
		{"missing from", ""},
		{"malformed from", "?from=01-02-2024"},
		{"to before from", "?from=2024-02-02&to=2024-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(http.MethodGet, "/api/v1/reports/revenue"+tt.query, token, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
