package mocks

import (
	"context"
	"time"

	"solemate/internal/model"
	"solemate/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) SalesSummary(ctx context.Context, userID string, since *time.Time) (repository.SalesSummary, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(repository.SalesSummary), args.Error(1)
}

func (m *MockDashboardRepository) SpendSummary(ctx context.Context, userID string, since *time.Time) (repository.SpendSummary, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(repository.SpendSummary), args.Error(1)
}

func (m *MockDashboardRepository) BrandBreakdown(ctx context.Context, userID string) ([]model.BrandCount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BrandCount), args.Error(1)
}

func (m *MockDashboardRepository) MonthlyProfit(ctx context.Context, userID string, since time.Time) ([]model.MonthlyProfit, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MonthlyProfit), args.Error(1)
}
