package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deppfellow/restaurant-pos/internal/lib/password"
	"github.com/deppfellow/restaurant-pos/internal/lib/session"
	"github.com/deppfellow/restaurant-pos/internal/model"
	"github.com/deppfellow/restaurant-pos/internal/repository"
	"github.com/deppfellow/restaurant-pos/internal/server"
)

type AccountService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewAccountService(s *server.Server, repos *repository.Repositories) *AccountService {
	return &AccountService{server: s, repos: repos}
}

// EnsureDefaultHashedPassword gives every account that carries defaultSalt
// and a blank hash the canonical hash of defaultPassword. Accounts with a
// real hash are left alone.
func (s *AccountService) EnsureDefaultHashedPassword(ctx context.Context, defaultSalt, defaultPassword string) (int64, error) {
	hash := password.ComputeHashCanonical(defaultSalt, defaultPassword)

	n, err := s.repos.Accounts.FillMissingHash(ctx, defaultSalt, hash)
	if err != nil {
		return 0, fmt.Errorf("fill missing password hashes: %w", err)
	}

	if n > 0 {
		s.server.Logger.Info().Int64("accounts", n).Msg("default password hash applied")
	}
	return n, nil
}

// EnsureDefaults runs EnsureDefaultHashedPassword with the configured salt
// and password.
func (s *AccountService) EnsureDefaults(ctx context.Context) (int64, error) {
	auth := s.server.Config.Auth
	return s.EnsureDefaultHashedPassword(ctx, auth.DefaultSalt, auth.DefaultPassword)
}

// VerifyPassword reports whether pw matches the stored hash of account
// under bcrypt or any of the legacy SHA-256 schemes.
func (s *AccountService) VerifyPassword(account *model.Account, pw string) bool {
	if account == nil {
		return false
	}
	return password.Verify(account.PasswordHash, account.Salt, pw).OK
}

// CheckLogin authenticates userName. The account is returned only on
// LoginSuccess.
func (s *AccountService) CheckLogin(ctx context.Context, userName, pw string) (model.LoginStatus, *model.Account) {
	if strings.TrimSpace(userName) == "" {
		return model.LoginUserNotFound, nil
	}

	logger := s.server.Logger.With().Str("user_name", userName).Logger()

	account, err := s.repos.Accounts.GetByUserName(ctx, userName)
	if err != nil {
		if repository.IsNotFound(err) {
			return model.LoginUserNotFound, nil
		}
		logger.Error().Err(err).Msg("failed to load account")
		return model.LoginError, nil
	}

	if !account.IsActive {
		return model.LoginInactive, nil
	}

	if _, err := s.EnsureDefaults(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to apply default password hashes")
	} else if strings.TrimSpace(account.PasswordHash) == "" {
		if fresh, err := s.repos.Accounts.GetByID(ctx, account.ID); err == nil {
			account = fresh
		}
	}

	result := password.Verify(account.PasswordHash, account.Salt, pw)
	if !result.OK {
		return model.LoginWrongPassword, nil
	}

	loginAt := now()
	if err := s.repos.Accounts.UpdateLastLogin(ctx, account.ID, loginAt); err != nil {
		logger.Error().Err(err).Msg("failed to record last login")
		return model.LoginError, nil
	}
	account.LastLogin = &loginAt

	if result.Legacy && s.server.Config.Auth.UpgradeLegacyHashes {
		s.upgradeHash(ctx, account, pw)
	}

	return model.LoginSuccess, account
}

// upgradeHash replaces a legacy hash with bcrypt. Failures only cost the
// upgrade, never the login.
func (s *AccountService) upgradeHash(ctx context.Context, account *model.Account, pw string) {
	hash, err := password.HashBcrypt(pw)
	if err != nil {
		s.server.Logger.Error().Err(err).Int("account_id", account.ID).Msg("failed to hash password")
		return
	}

	if err := s.repos.Accounts.UpdatePassword(ctx, account.ID, hash, account.Salt); err != nil {
		s.server.Logger.Error().Err(err).Int("account_id", account.ID).Msg("failed to upgrade password hash")
		return
	}

	account.PasswordHash = hash
	s.server.Logger.Info().Int("account_id", account.ID).Msg("legacy password hash upgraded to bcrypt")
}

// Login is CheckLogin reduced to the account, or nil on any failure.
func (s *AccountService) Login(ctx context.Context, userName, pw string) *model.Account {
	status, account := s.CheckLogin(ctx, userName, pw)
	if status != model.LoginSuccess {
		return nil
	}
	return account
}

// DiagnoseLogin explains why userName cannot log in with pw, listing the
// hashes every legacy scheme yields when the account looks sound.
func (s *AccountService) DiagnoseLogin(ctx context.Context, userName, pw string) (string, error) {
	if strings.TrimSpace(userName) == "" {
		return "User name is empty.", nil
	}
	if pw == "" {
		return "Password is empty.", nil
	}

	account, err := s.repos.Accounts.GetByUserName(ctx, userName)
	if err != nil {
		if repository.IsNotFound(err) {
			return "No account matches this user name.", nil
		}
		return "", fmt.Errorf("load account: %w", err)
	}

	if !account.IsActive {
		return "The account exists but is locked (is_active = false).", nil
	}

	if password.IsBcrypt(account.PasswordHash) {
		if password.Verify(account.PasswordHash, "", pw).OK {
			return "Stored hash is bcrypt and the password matches.", nil
		}
		return "Stored hash is bcrypt and the password does not match.", nil
	}

	if account.Salt == "" || account.PasswordHash == "" {
		return "Salt or password hash is empty.", nil
	}

	return password.Report(account.PasswordHash, account.Salt, pw), nil
}

// SessionLogin checks the credentials and issues a session token.
func (s *AccountService) SessionLogin(ctx context.Context, userName, pw string) (*model.Session, *model.Account, error) {
	status, account := s.CheckLogin(ctx, userName, pw)

	switch status {
	case model.LoginSuccess:
	case model.LoginInactive:
		return nil, nil, ErrAccountInactive
	case model.LoginUserNotFound, model.LoginWrongPassword:
		s.server.Logger.Info().Str("user_name", userName).Str("status", string(status)).Msg("login rejected")
		return nil, nil, ErrInvalidCredentials
	default:
		return nil, nil, errors.New("login failed")
	}

	ttl := s.server.Config.Auth.SessionTTL
	sess := model.Session{
		Token:     session.NewToken(),
		AccountID: account.ID,
		UserName:  account.UserName,
		Type:      account.Type,
		ExpiresAt: now().Add(ttl),
	}

	if err := s.server.Sessions.Save(ctx, sess, ttl); err != nil {
		return nil, nil, fmt.Errorf("save session: %w", err)
	}

	s.server.Logger.Info().Int("account_id", account.ID).Msg("account logged in")
	return &sess, account, nil
}

// Authenticate resolves a session token.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	sess, err := s.server.Sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	if err := s.server.Sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int) (*model.Account, error) {
	account, err := s.repos.Accounts.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context) ([]model.Account, error) {
	return s.repos.Accounts.List(ctx)
}

type CreateAccountInput struct {
	UserName    string
	DisplayName string
	Password    string
	Type        model.AccountType
}

// CreateAccount stores a new active account with a bcrypt hash. The random
// salt is kept for parity with legacy rows and is not part of the hash.
func (s *AccountService) CreateAccount(ctx context.Context, in CreateAccountInput) (*model.Account, error) {
	salt, err := password.NewSalt()
	if err != nil {
		return nil, err
	}

	hash, err := password.HashBcrypt(in.Password)
	if err != nil {
		return nil, err
	}

	account, err := s.repos.Accounts.Create(ctx, model.Account{
		UserName:     strings.TrimSpace(in.UserName),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Salt:         salt,
		Type:         in.Type,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().Int("account_id", account.ID).Str("type", account.Type.String()).Msg("account created")
	return account, nil
}

// SetActive locks or unlocks an account.
func (s *AccountService) SetActive(ctx context.Context, id int, active bool) error {
	if err := s.repos.Accounts.SetActive(ctx, id, active); err != nil {
		if repository.IsNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

// ResetPassword replaces the password of id without checking the old one.
func (s *AccountService) ResetPassword(ctx context.Context, id int, newPassword string) error {
	return s.setPassword(ctx, id, newPassword)
}

// ChangePassword replaces the caller's own password after checking the
// current one.
func (s *AccountService) ChangePassword(ctx context.Context, id int, currentPassword, newPassword string) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if !s.VerifyPassword(account, currentPassword) {
		return ErrWrongPassword
	}

	return s.setPassword(ctx, id, newPassword)
}

func (s *AccountService) setPassword(ctx context.Context, id int, pw string) error {
	salt, err := password.NewSalt()
	if err != nil {
		return err
	}

	hash, err := password.HashBcrypt(pw)
	if err != nil {
		return err
	}

	if err := s.repos.Accounts.UpdatePassword(ctx, id, hash, salt); err != nil {
		if repository.IsNotFound(err) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}
