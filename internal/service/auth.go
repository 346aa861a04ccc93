package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// AuthSettings are the token and hashing parameters of AuthService.
type AuthSettings struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Identity is the caller resolved from a bearer token.
type Identity struct {
	UserID uint64
	Email  string
}

// Session is what register, login and refresh hand back to the client.
type Session struct {
	User         model.User
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

// AuthService issues and verifies credentials.
type AuthService struct {
	Cfg    AuthSettings
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Log    *zap.Logger
}

func NewAuthService(cfg AuthSettings, users *repository.UserRepo, tokens *repository.TokenRepo, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{Cfg: cfg, Users: users, Tokens: tokens, Log: log}
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (Session, error) {
	email = repository.NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return Session{}, invalid("email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Session{}, invalid("email is not valid")
	}
	uid, err := s.Users.Create(ctx, email, password, name, s.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return Session{}, ErrDuplicateEmail
		}
		s.Log.Error("create user failed", zap.Error(err))
		return Session{}, storageErr("create user", err)
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		return Session{}, storageErr("load user", err)
	}
	s.Log.Info("user registered", zap.Uint64("user_id", uid))
	return s.issue(ctx, u)
}

// Login checks credentials.  An unknown email and a wrong password produce
// the same error and take comparable time.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = repository.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, invalid("email and password are required")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.BurnPasswordCheck(password)
			return Session{}, ErrInvalidCredentials
		}
		s.Log.Error("load user failed", zap.Error(err))
		return Session{}, storageErr("load user", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Verify resolves an access token to the caller's identity.
func (s *AuthService) Verify(token string) (Identity, error) {
	claims, err := utils.ParseAccessToken(s.Cfg.JWTSecret, strings.TrimSpace(token))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, invalid("refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	uid, err := s.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, storageErr("validate refresh", err)
	}
	// the conditional revoke decides concurrent refreshes of one token
	if err := s.Tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, storageErr("revoke refresh", err)
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidToken
		}
		return Session{}, storageErr("load user", err)
	}
	return s.issue(ctx, u)
}

// Logout revokes a single refresh token.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid("refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)
	if _, err := s.Tokens.ValidateRefresh(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return storageErr("validate refresh", err)
	}
	if err := s.Tokens.RevokeByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return storageErr("revoke refresh", err)
	}
	return nil
}

// LogoutAll revokes every refresh token of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	if err := s.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		return storageErr("revoke all", err)
	}
	return nil
}

// Me returns the profile of the signed-in user.
func (s *AuthService) Me(ctx context.Context, userID uint64) (model.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, storageErr("load user", err)
	}
	return u, nil
}

func (s *AuthService) issue(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.Cfg.JWTSecret, u.ID, u.Email, s.Cfg.AccessTTLMin)
	if err != nil {
		return Session{}, err
	}
	refresh, err := utils.NewRefreshToken(s.Cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, err
	}
	if err := s.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, storageErr("save refresh", err)
	}
	return Session{
		User:         u,
		AccessToken:  access.Token,
		AccessExp:    access.Exp,
		RefreshToken: refresh.Raw,
		RefreshExp:   refresh.Exp,
	}, nil
}
