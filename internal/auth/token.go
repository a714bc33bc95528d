// Package auth issues and validates JWT access/refresh pairs, hashes passwords
// and tracks blacklisted refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"solemate/internal/config"
	"solemate/internal/model"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrTokenInvalid is returned for tokens that are malformed, badly signed,
// expired or of the wrong type.
var ErrTokenInvalid = errors.New("token is invalid or expired")

// Claims is the payload carried by both token types.
type Claims struct {
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	IsStaff   bool   `json:"is_staff,omitempty"`
	jwt.RegisteredClaims
}

// Pair is the response body of a token obtain.
type Pair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// Issuer signs and parses HS256 tokens.
type Issuer struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer builds an Issuer from JWT settings.
func NewIssuer(cfg config.JWTConfig) *Issuer {
	return &Issuer{
		key:        []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenLifetime,
		refreshTTL: cfg.RefreshTokenLifetime,
		now:        time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// IssuePair returns a fresh refresh token and an access token for u.
func (i *Issuer) IssuePair(u *model.User) (Pair, error) {
	refresh, err := i.sign(TokenTypeRefresh, u.ID, u.IsStaff, i.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	access, err := i.sign(TokenTypeAccess, u.ID, u.IsStaff, i.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Refresh: refresh, Access: access}, nil
}

// IssueAccess returns an access token for the subject of a refresh token.
func (i *Issuer) IssueAccess(refresh *Claims) (string, error) {
	return i.sign(TokenTypeAccess, refresh.UserID, refresh.IsStaff, i.accessTTL)
}

// IssueRefresh returns a new refresh token for the subject of an existing one.
func (i *Issuer) IssueRefresh(refresh *Claims) (string, error) {
	return i.sign(TokenTypeRefresh, refresh.UserID, refresh.IsStaff, i.refreshTTL)
}

func (i *Issuer) sign(tokenType, userID string, isStaff bool, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		TokenType: tokenType,
		UserID:    userID,
		IsStaff:   isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return s, nil
}

// Parse validates a token and checks that it is of wantType. An empty wantType
// accepts either type. All validation failures wrap ErrTokenInvalid.
func (i *Issuer) Parse(token, wantType string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if claims.TokenType != TokenTypeAccess && claims.TokenType != TokenTypeRefresh {
		return nil, fmt.Errorf("%w: unknown token type", ErrTokenInvalid)
	}
	if wantType != "" && claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: token has wrong type", ErrTokenInvalid)
	}
	if claims.ID == "" || claims.UserID == "" {
		return nil, fmt.Errorf("%w: token contained no recognizable user identification", ErrTokenInvalid)
	}
	return claims, nil
}
