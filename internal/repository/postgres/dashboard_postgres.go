package postgres

import (
	"context"
	"database/sql"
	"time"

	"solemate/internal/model"
	"solemate/internal/repository"
)

// DashboardPostgres is a PostgreSQL implementation of repository.DashboardRepository.
type DashboardPostgres struct {
	db *sql.DB
}

// NewDashboardPostgres creates a new DashboardPostgres repository.
func NewDashboardPostgres(db *sql.DB) *DashboardPostgres {
	return &DashboardPostgres{db: db}
}

var _ repository.DashboardRepository = (*DashboardPostgres)(nil)

// SalesSummary returns revenue, count and profit of sales dated on or after since.
func (r *DashboardPostgres) SalesSummary(ctx context.Context, userID string, since *time.Time) (repository.SalesSummary, error) {
	const q = `
		SELECT COALESCE(SUM(price_sold), 0), COUNT(*), COALESCE(SUM(profit), 0)
		FROM sales
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR sale_date >= $2::timestamptz::date)
	`
	var s repository.SalesSummary
	err := r.db.QueryRowContext(ctx, q, userID, since).Scan(&s.Revenue, &s.Count, &s.Profit)
	return s, err
}

// SpendSummary returns money spent and pairs bought since the given time.
func (r *DashboardPostgres) SpendSummary(ctx context.Context, userID string, since *time.Time) (repository.SpendSummary, error) {
	const q = `
		SELECT COALESCE(SUM(quantity * price), 0), COALESCE(SUM(quantity), 0)
		FROM shoe_log
		WHERE user_id = $1 AND ($2::timestamptz IS NULL OR date_added >= $2::timestamptz)
	`
	var s repository.SpendSummary
	err := r.db.QueryRowContext(ctx, q, userID, since).Scan(&s.Spent, &s.Items)
	return s, err
}

// BrandBreakdown returns current inventory quantity grouped by brand, largest first.
func (r *DashboardPostgres) BrandBreakdown(ctx context.Context, userID string) ([]model.BrandCount, error) {
	const q = `
		SELECT brand, SUM(quantity)
		FROM inventory
		WHERE user_id = $1 AND brand <> ''
		GROUP BY brand
		ORDER BY SUM(quantity) DESC, brand
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.BrandCount, 0)
	for rows.Next() {
		var bc model.BrandCount
		if err := rows.Scan(&bc.Brand, &bc.Quantity); err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

// MonthlyProfit returns profit per calendar month for sales dated on or after since, oldest first.
func (r *DashboardPostgres) MonthlyProfit(ctx context.Context, userID string, since time.Time) ([]model.MonthlyProfit, error) {
	const q = `
		SELECT to_char(date_trunc('month', sale_date), 'YYYY-MM') AS month, COALESCE(SUM(profit), 0)
		FROM sales
		WHERE user_id = $1 AND sale_date >= $2::date
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.QueryContext(ctx, q, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MonthlyProfit, 0)
	for rows.Next() {
		var mp model.MonthlyProfit
		if err := rows.Scan(&mp.Month, &mp.Profit); err != nil {
			return nil, err
		}
		out = append(out, mp)
	}
	return out, rows.Err()
}
