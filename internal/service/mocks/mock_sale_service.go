package mocks

import (
	"context"

	"solemate/internal/model"
	"solemate/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) List(ctx context.Context, userID string, limit, offset int) (*service.SaleListResult, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaleListResult), args.Error(1)
}

func (m *MockSaleService) Record(ctx context.Context, userID string, in service.SaleInput) (*model.Sale, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *MockSaleService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
