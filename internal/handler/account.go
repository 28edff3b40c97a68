package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
	"github.com/deppfellow/restaurant-pos/internal/validation"
)

// AccountHandler serves account administration.
type AccountHandler struct {
	Handler
	accounts *service.AccountService
}

func NewAccountHandler(s *server.Server, accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{
		Handler:  NewHandler(s),
		accounts: accounts,
	}
}

func (h *AccountHandler) ListAccounts(c echo.Context, _ *EmptyRequest) ([]model.Account, error) {
	return h.accounts.ListAccounts(c.Request().Context())
}

type CreateAccountRequest struct {
	UserName    string `json:"user_name" validate:"required,max=100"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=200"`
	Type        int    `json:"type" validate:"oneof=0 1"`
}

func (r *CreateAccountRequest) Validate() error {
	return validation.Struct(r)
}

func (h *AccountHandler) CreateAccount(c echo.Context, req *CreateAccountRequest) (*model.Account, error) {
	return h.accounts.CreateAccount(c.Request().Context(), service.CreateAccountInput{
		UserName:    req.UserName,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Type:        model.AccountType(req.Type),
	})
}

type SetAccountActiveRequest struct {
	ID     int   `param:"id" json:"-" validate:"required,min=1"`
	Active *bool `json:"active" validate:"required"`
}

func (r *SetAccountActiveRequest) Validate() error {
	return validation.Struct(r)
}

func (h *AccountHandler) SetActive(c echo.Context, req *SetAccountActiveRequest) error {
	return h.accounts.SetActive(c.Request().Context(), req.ID, *req.Active)
}

type ResetPasswordRequest struct {
	ID       int    `param:"id" json:"-" validate:"required,min=1"`
	Password string `json:"password" validate:"required,min=6,max=200"`
}

func (r *ResetPasswordRequest) Validate() error {
	return validation.Struct(r)
}

func (h *AccountHandler) ResetPassword(c echo.Context, req *ResetPasswordRequest) error {
	return h.accounts.ResetPassword(c.Request().Context(), req.ID, req.Password)
}

type UpdatedResponse struct {
	Updated int64 `json:"updated"`
}

// EnsureDefaults backfills the configured default password on seeded
// accounts without a hash.
func (h *AccountHandler) EnsureDefaults(c echo.Context, _ *EmptyRequest) (*UpdatedResponse, error) {
	n, err := h.accounts.EnsureDefaults(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return &UpdatedResponse{Updated: n}, nil
}
