package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/restaurant-pos/internal/errs"
)

type addFoodRequest struct {
	TableID int    `param:"id" validate:"required,min=1"`
	FoodID  int    `json:"food_id" validate:"required,min=1"`
	Count   int    `json:"count" validate:"min=1,max=1000"`
	Note    string `json:"note" validate:"max=5"`
}

func (r *addFoodRequest) Validate() error {
	return Struct(r)
}

type switchRequest struct {
	From int
	To   int
}

func (r *switchRequest) Validate() error {
	if r.From == r.To {
		return CustomValidationErrors{{Field: "to", Message: "must differ from from"}}
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("3")
	return c
}

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	return httpErr
}

func TestBindAndValidate_OK(t *testing.T) {
	req := &addFoodRequest{}
	require.NoError(t, BindAndValidate(newContext(`{"food_id":2,"count":3}`), req))
	assert.Equal(t, 3, req.TableID)
	assert.Equal(t, 2, req.FoodID)
	assert.Equal(t, 3, req.Count)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"food_id":0,"count":0,"note":"too long"}`), &addFoodRequest{})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "food_id", Error: "is required"},
		{Field: "count", Error: "must be at least 1"},
		{Field: "note", Error: "must not exceed 5 characters"},
	}, httpErr.Errors)
}

func TestBindAndValidate_MalformedBody(t *testing.T) {
	err := BindAndValidate(newContext(`{"food_id":`), &addFoodRequest{})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{}`), &switchRequest{})

	httpErr := asHTTPError(t, err)
	assert.Equal(t, []errs.FieldError{{Field: "to", Error: "must differ from from"}}, httpErr.Errors)
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "food_id", fieldName("FoodID"))
	assert.Equal(t, "user_name", fieldName("UserName"))
	assert.Equal(t, "count", fieldName("Count"))
}
