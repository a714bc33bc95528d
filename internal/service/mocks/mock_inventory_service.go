package mocks

import (
	"context"

	"solemate/internal/model"
	"solemate/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) List(ctx context.Context, userID string, limit, offset int) (*service.InventoryListResult, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InventoryListResult), args.Error(1)
}

func (m *MockInventoryService) Create(ctx context.Context, userID string, in service.InventoryInput) (*model.InventoryItem, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Get(ctx context.Context, userID, id string) (*model.InventoryItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Update(ctx context.Context, userID, id string, in service.InventoryInput) (*model.InventoryItem, error) {
	args := m.Called(ctx, userID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockInventoryService) UploadImage(ctx context.Context, userID, id string, img service.ImageUpload) (*model.InventoryItem, error) {
	args := m.Called(ctx, userID, id, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.InventoryItem), args.Error(1)
}

func (m *MockInventoryService) ImageURL(ctx context.Context, userID, id string) (string, error) {
	args := m.Called(ctx, userID, id)
	return args.String(0), args.Error(1)
}
