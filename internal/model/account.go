package model

import "time"

// AccountType distinguishes staff from administrators.
type AccountType int

const (
	AccountTypeStaff AccountType = 0
	AccountTypeAdmin AccountType = 1
)

func (t AccountType) IsAdmin() bool {
	return t == AccountTypeAdmin
}

func (t AccountType) String() string {
	if t == AccountTypeAdmin {
		return "admin"
	}
	return "staff"
}

// Account is a login identity. PasswordHash and Salt never leave the server.
type Account struct {
	ID           int         `json:"id" db:"id"`
	UserName     string      `json:"user_name" db:"user_name"`
	DisplayName  string      `json:"display_name" db:"display_name"`
	PasswordHash string      `json:"-" db:"password_hash"`
	Salt         string      `json:"-" db:"salt"`
	Type         AccountType `json:"type" db:"type"`
	IsActive     bool        `json:"is_active" db:"is_active"`
	LastLogin    *time.Time  `json:"last_login" db:"last_login"`
}

// LoginStatus is the outcome of a credential check.
type LoginStatus string

const (
	LoginSuccess       LoginStatus = "success"
	LoginUserNotFound  LoginStatus = "user_not_found"
	LoginWrongPassword LoginStatus = "wrong_password"
	LoginInactive      LoginStatus = "inactive"
	LoginError         LoginStatus = "error"
)

// Session is the server-side state behind an issued login token.
type Session struct {
	Token     string      `json:"token"`
	AccountID int         `json:"account_id"`
	UserName  string      `json:"user_name"`
	Type      AccountType `json:"type"`
	ExpiresAt time.Time   `json:"expires_at"`
}
