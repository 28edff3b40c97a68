package service

import (
	"net/http"

	"github.com/deppfellow/restaurant-pos/internal/errs"
)

// Domain failures. Compare with errors.Is; handlers return them as-is.
var (
	ErrTableNotFound    = errs.NewNotFoundError("Table not found", true, errs.Code("TABLE_NOT_FOUND"))
	ErrSameTable        = errs.NewBadRequestError("Source and destination table are the same", true, errs.Code("SAME_TABLE"), nil, nil)
	ErrNoOpenBill       = errs.NewConflictError("The table has no open bill", true, errs.Code("NO_OPEN_BILL"))
	ErrTableOccupied    = errs.NewConflictError("The table still has an open bill", true, errs.Code("TABLE_OCCUPIED"))
	ErrBillNotFound     = errs.NewNotFoundError("Bill not found", true, errs.Code("BILL_NOT_FOUND"))
	ErrBillAlreadyPaid  = errs.NewConflictError("The bill is already paid", true, errs.Code("BILL_ALREADY_PAID"))
	ErrInvalidDiscount  = errs.NewBadRequestError("Discount must be between 0 and 100", true, errs.Code("INVALID_DISCOUNT"), nil, nil)
	ErrInvalidCount     = errs.NewBadRequestError("Count must be at least 1", true, errs.Code("INVALID_COUNT"), nil, nil)
	ErrFoodNotFound     = errs.NewNotFoundError("Food not found", true, errs.Code("FOOD_NOT_FOUND"))
	ErrFoodInactive     = errs.NewBadRequestError("The food is no longer on the menu", true, errs.Code("FOOD_INACTIVE"), nil, nil)
	ErrCategoryNotFound = errs.NewNotFoundError("Category not found", true, errs.Code("CATEGORY_NOT_FOUND"))
	ErrAccountNotFound  = errs.NewNotFoundError("Account not found", true, errs.Code("ACCOUNT_NOT_FOUND"))

	ErrInvalidCredentials = withCode(errs.NewUnauthorizedError("Invalid user name or password", true), "INVALID_CREDENTIALS")
	ErrAccountInactive    = withCode(errs.NewForbiddenError("The account is locked", true), "ACCOUNT_INACTIVE")
	ErrInvalidSession     = withCode(errs.NewUnauthorizedError("Session expired, please log in again", true), "INVALID_SESSION")
	ErrWrongPassword      = errs.NewBadRequestError("Current password is incorrect", true, errs.Code("WRONG_PASSWORD"), nil, nil)
)

func withCode(e *errs.HTTPError, code string) *errs.HTTPError {
	e.Code = code
	if e.Status == http.StatusUnauthorized {
		e.Action = &errs.Action{
			Type:    errs.ActionTypeRedirect,
			Message: "Log in to continue",
			Value:   "/login",
		}
	}
	return e
}
