package mocks

import (
	"context"

	"solemate/internal/auth"
	"solemate/internal/model"
	"solemate/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ObtainPair(ctx context.Context, email, password string) (auth.Pair, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(auth.Pair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refresh string) (*service.RefreshResult, error) {
	args := m.Called(ctx, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RefreshResult), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthService) Blacklist(ctx context.Context, refresh string) error {
	args := m.Called(ctx, refresh)
	return args.Error(0)
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.RegisterResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegisterResult), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, access string) (*model.User, error) {
	args := m.Called(ctx, access)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
