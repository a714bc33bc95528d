package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"solemate/internal/model"
	"solemate/internal/repository"
	repoMocks "solemate/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		period  string
		want    *time.Time
		wantErr bool
	}{
		{period: "", want: nil},
		{period: PeriodAllTime, want: nil},
		{period: PeriodLastWeek, want: ptrTime(time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC))},
		// AddDate normalizes Feb 31 to Mar 2.
		{period: PeriodLastMonth, want: ptrTime(time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC))},
		{period: PeriodLast6Months, want: ptrTime(time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC))},
		{period: PeriodLastYear, want: ptrTime(time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC))},
		{period: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := PeriodStart(tt.period, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %s", got)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	weekAgo := now.AddDate(0, 0, -7)
	firstMonth := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	sinceIs := func(want *time.Time) interface{} {
		return mock.MatchedBy(func(got *time.Time) bool {
			if want == nil || got == nil {
				return want == got
			}
			return want.Equal(*got)
		})
	}

	t.Run("last week", func(t *testing.T) {
		m := new(repoMocks.MockDashboardRepository)
		m.On("SalesSummary", ctx, "u1", sinceIs(&weekAgo)).Return(repository.SalesSummary{Revenue: 500.257, Count: 3, Profit: 120.1}, nil)
		m.On("SpendSummary", ctx, "u1", sinceIs(&weekAgo)).Return(repository.SpendSummary{Spent: 380, Items: 4}, nil)
		m.On("BrandBreakdown", ctx, "u1").Return([]model.BrandCount{{Brand: "Nike", Quantity: 5}}, nil)
		m.On("MonthlyProfit", ctx, "u1", mock.MatchedBy(firstMonth.Equal)).Return([]model.MonthlyProfit{
			{Month: "2024-02", Profit: 40},
			{Month: "2024-06", Profit: 80.1},
		}, nil)

		svc := &dashboardService{repo: m, now: func() time.Time { return now }}
		d, err := svc.Get(ctx, "u1", PeriodLastWeek)
		require.NoError(t, err)

		assert.Equal(t, PeriodLastWeek, d.Period)
		assert.Equal(t, 500.26, d.TotalRevenue)
		assert.Equal(t, 3, d.TotalSalesCount)
		assert.Equal(t, 120.1, d.TotalProfit)
		assert.Equal(t, 380.0, d.TotalSpent)
		assert.Equal(t, 4, d.TotalItems)
		assert.Equal(t, []model.BrandCount{{Brand: "Nike", Quantity: 5}}, d.BrandBreakdown)
		assert.Equal(t, []model.MonthlyProfit{
			{Month: "2024-01", Profit: 0},
			{Month: "2024-02", Profit: 40},
			{Month: "2024-03", Profit: 0},
			{Month: "2024-04", Profit: 0},
			{Month: "2024-05", Profit: 0},
			{Month: "2024-06", Profit: 80.1},
		}, d.MonthlyProfit)
		m.AssertExpectations(t)
	})

	t.Run("all time by default", func(t *testing.T) {
		m := new(repoMocks.MockDashboardRepository)
		m.On("SalesSummary", ctx, "u1", sinceIs(nil)).Return(repository.SalesSummary{}, nil)
		m.On("SpendSummary", ctx, "u1", sinceIs(nil)).Return(repository.SpendSummary{}, nil)
		m.On("BrandBreakdown", ctx, "u1").Return(nil, nil)
		m.On("MonthlyProfit", ctx, "u1", mock.Anything).Return(nil, nil)

		svc := &dashboardService{repo: m, now: func() time.Time { return now }}
		d, err := svc.Get(ctx, "u1", "")
		require.NoError(t, err)
		assert.Equal(t, PeriodAllTime, d.Period)
		assert.NotNil(t, d.BrandBreakdown)
		assert.Len(t, d.MonthlyProfit, 6)
	})

	t.Run("invalid period", func(t *testing.T) {
		m := new(repoMocks.MockDashboardRepository)
		_, err := NewDashboardService(m).Get(ctx, "u1", "forever")
		assert.ErrorIs(t, err, ErrInvalidPeriod)
		m.AssertExpectations(t)
	})

	t.Run("repository failure", func(t *testing.T) {
		m := new(repoMocks.MockDashboardRepository)
		m.On("SalesSummary", ctx, "u1", mock.Anything).Return(repository.SalesSummary{}, errors.New("db down"))

		_, err := NewDashboardService(m).Get(ctx, "u1", PeriodAllTime)
		assert.EqualError(t, err, "sales summary: db down")
	})
}
