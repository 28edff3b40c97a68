package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/restaurant-pos/internal/middleware"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/server"
	"github.com/deppfellow/restaurant-pos/internal/service"
	"github.com/deppfellow/restaurant-pos/internal/validation"
)

type AuthHandler struct {
	Handler
	accounts *service.AccountService
}

func NewAuthHandler(s *server.Server, accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{
		Handler:  NewHandler(s),
		accounts: accounts,
	}
}

type LoginRequest struct {
	UserName string `json:"user_name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=200"`
}

func (r *LoginRequest) Validate() error {
	return validation.Struct(r)
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   *model.Account `json:"account"`
}

func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*LoginResponse, error) {
	sess, account, err := h.accounts.SessionLogin(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		Account:   account,
	}, nil
}

func (h *AuthHandler) Logout(c echo.Context, _ *EmptyRequest) error {
	return h.accounts.Logout(c.Request().Context(), middleware.BearerToken(c))
}

func (h *AuthHandler) Me(c echo.Context, _ *EmptyRequest) (*model.Account, error) {
	return h.accounts.GetAccount(c.Request().Context(), middleware.GetUserID(c))
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=200,nefield=CurrentPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.Struct(r)
}

func (h *AuthHandler) ChangePassword(c echo.Context, req *ChangePasswordRequest) error {
	return h.accounts.ChangePassword(c.Request().Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword)
}

type DiagnoseLoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

func (r *DiagnoseLoginRequest) Validate() error { return nil }

type DiagnoseLoginResponse struct {
	Report string `json:"report"`
}

// DiagnoseLogin reports why a credential pair fails. Blank input is part
// of what it diagnoses, so nothing is validated up front.
func (h *AuthHandler) DiagnoseLogin(c echo.Context, req *DiagnoseLoginRequest) (*DiagnoseLoginResponse, error) {
	report, err := h.accounts.DiagnoseLogin(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return nil, err
	}
	return &DiagnoseLoginResponse{Report: report}, nil
}
