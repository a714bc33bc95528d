package repository

import (
	"context"
	"time"

	"solemate/internal/model"
)

// SalesSummary aggregates sales on or after a date.
type SalesSummary struct {
	Revenue float64
	Count   int
	Profit  float64
}

// SpendSummary aggregates purchase log entries on or after a time.
type SpendSummary struct {
	Spent float64
	Items int
}

// DashboardRepository runs the aggregate queries behind the dashboard.
// A nil since means no lower bound.
type DashboardRepository interface {
	SalesSummary(ctx context.Context, userID string, since *time.Time) (SalesSummary, error)
	SpendSummary(ctx context.Context, userID string, since *time.Time) (SpendSummary, error)
	BrandBreakdown(ctx context.Context, userID string) ([]model.BrandCount, error)
	MonthlyProfit(ctx context.Context, userID string, since time.Time) ([]model.MonthlyProfit, error)
}
