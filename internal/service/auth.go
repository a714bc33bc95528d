package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"solemate/internal/auth"
	"solemate/internal/model"
	"solemate/internal/repository"
)

// RegisterInput carries the fields of a sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterResult is the created account together with its first token pair.
type RegisterResult struct {
	User    *model.User `json:"user"`
	Refresh string      `json:"refresh"`
	Access  string      `json:"access"`
}

// RefreshResult holds a new access token and, when rotation is on, a new refresh token.
type RefreshResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// AuthOptions mirrors the refresh rotation settings.
type AuthOptions struct {
	RotateRefreshTokens    bool
	BlacklistAfterRotation bool
}

// AuthService defines account and token use cases.
type AuthService interface {
	// ObtainPair authenticates by email and password and returns a token pair.
	// Inactive accounts are rejected like unknown ones.
	ObtainPair(ctx context.Context, email, password string) (auth.Pair, error)

	// Refresh exchanges a refresh token for a new access token.
	Refresh(ctx context.Context, refresh string) (*RefreshResult, error)

	// Verify checks a token of either type.
	Verify(ctx context.Context, token string) error

	// Blacklist revokes a refresh token until it expires.
	Blacklist(ctx context.Context, refresh string) error

	// Register creates an active, non-staff account.
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)

	// Authenticate resolves an access token to an active user.
	Authenticate(ctx context.Context, access string) (*model.User, error)
}

type authService struct {
	users    repository.UserRepository
	issuer   *auth.Issuer
	denylist auth.Denylist
	opts     AuthOptions
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, issuer *auth.Issuer, denylist auth.Denylist, opts AuthOptions) AuthService {
	return &authService{users: users, issuer: issuer, denylist: denylist, opts: opts, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) ObtainPair(ctx context.Context, email, password string) (auth.Pair, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Pair{}, ErrInvalidCredentials
		}
		return auth.Pair{}, err
	}
	if !u.IsActive || !auth.CheckPassword(u.PasswordHash, password) {
		return auth.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.issuer.IssuePair(u)
	if err != nil {
		return auth.Pair{}, err
	}
	if err := s.users.UpdateLastLogin(ctx, u.ID, s.now().UTC()); err != nil {
		return auth.Pair{}, fmt.Errorf("update last login: %w", err)
	}
	return pair, nil
}

// parseRefresh validates a refresh token and rejects blacklisted ones.
func (s *authService) parseRefresh(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.issuer.Parse(token, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	denied, err := s.denylist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if denied {
		return nil, fmt.Errorf("%w: token is blacklisted", ErrTokenInvalid)
	}
	return claims, nil
}

func (s *authService) Refresh(ctx context.Context, refresh string) (*RefreshResult, error) {
	claims, err := s.parseRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	access, err := s.issuer.IssueAccess(claims)
	if err != nil {
		return nil, err
	}
	res := &RefreshResult{Access: access}

	if s.opts.RotateRefreshTokens {
		if s.opts.BlacklistAfterRotation {
			if err := s.denylist.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
				return nil, err
			}
		}
		if res.Refresh, err = s.issuer.IssueRefresh(claims); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *authService) Verify(ctx context.Context, token string) error {
	claims, err := s.issuer.Parse(token, "")
	if err != nil {
		return err
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil
	}
	denied, err := s.denylist.Contains(ctx, claims.ID)
	if err != nil {
		return err
	}
	if denied {
		return fmt.Errorf("%w: token is blacklisted", ErrTokenInvalid)
	}
	return nil
}

func (s *authService) Blacklist(ctx context.Context, refresh string) error {
	claims, err := s.parseRefresh(ctx, refresh)
	if err != nil {
		return err
	}
	return s.denylist.Add(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(in.Email),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		IsActive:     true,
		DateJoined:   s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	pair, err := s.issuer.IssuePair(u)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{User: u, Refresh: pair.Refresh, Access: pair.Access}, nil
}

func (s *authService) Authenticate(ctx context.Context, access string) (*model.User, error) {
	claims, err := s.issuer.Parse(access, auth.TokenTypeAccess)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user not found", ErrTokenInvalid)
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
