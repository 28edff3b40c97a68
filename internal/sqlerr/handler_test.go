package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/errs"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name: "unique violation names the column",
			err: fmt.Errorf("insert account: %w", &pgconn.PgError{
				Code:           "23505",
				Severity:       "ERROR",
				TableName:      "accounts",
				ConstraintName: "accounts_user_name_key",
			}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "ACCOUNT_ALREADY_EXISTS",
			wantMsg:    "A Account with this Name already exists",
		},
		{
			name: "foreign key violation on insert",
			err: &pgconn.PgError{
				Code:       "23503",
				Severity:   "ERROR",
				Message:    `insert or update on table "bill_infos" violates foreign key constraint "bill_infos_food_id_fkey"`,
				TableName:  "bill_infos",
				ColumnName: "food_id",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BILL_INFO_NOT_FOUND",
			wantMsg:    "The referenced Food does not exist",
		},
		{
			name: "foreign key violation on delete",
			err: &pgconn.PgError{
				Code:      "23503",
				Severity:  "ERROR",
				Message:   `update or delete on table "food_categories" violates foreign key constraint "foods_category_id_fkey" on table "foods"`,
				TableName: "foods",
			},
			wantStatus: http.StatusConflict,
			wantCode:   "FOOD_CATEGORY_IN_USE",
			wantMsg:    "The Food Category is still in use",
		},
		{
			name: "not null violation",
			err: &pgconn.PgError{
				Code:       "23502",
				TableName:  "foods",
				ColumnName: "unit",
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "FOOD_REQUIRED",
			wantMsg:    "The Unit is required",
		},
		{
			name:       "no rows with table prefix",
			err:        fmt.Errorf("get bill: %s%s: %w", TablePrefix, "bills", pgx.ErrNoRows),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Bill not found",
		},
		{
			name:       "no rows without prefix",
			err:        pgx.ErrNoRows,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
			wantMsg:    "Resource not found",
		},
		{
			name:       "unknown error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
			wantMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := asHTTPError(t, HandleError(tt.err))
			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestHandleError_PassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("admins only", true)
	assert.Same(t, original, HandleError(original))
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(&pgconn.PgError{Code: "23505"}))
	assert.Equal(t, ForeignKeyViolation, ErrCode(fmt.Errorf("wrap: %w", ConvertPgError(&pgconn.PgError{Code: "23503"}))))
	assert.Equal(t, Other, ErrCode(errors.New("x")))
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "food_category", singular("food_categories"))
	assert.Equal(t, "bill", singular("bills"))
	assert.Equal(t, "bill_info", singular("bill_infos"))
	assert.Equal(t, "staff", singular("staff"))
}
