package mocks

import (
	"context"

	"solemate/internal/model"
	"solemate/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) List(ctx context.Context, f repository.ListFilter) (*repository.PageResult[model.InventoryItem], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.InventoryItem]), args.Error(1)
}

func (m *MockInventoryRepository) Update(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
