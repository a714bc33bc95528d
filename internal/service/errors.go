package service

import (
	"errors"

	"solemate/internal/auth"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrTokenInvalid       = auth.ErrTokenInvalid
	ErrEmailTaken         = errors.New("email already registered")
	ErrInsufficientStock  = errors.New("not enough stock for this sale")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrInvalidImage       = errors.New("file is not an image")
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// normalizePage applies the default limit and clamps out-of-range values.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
