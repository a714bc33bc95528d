package service

import (
	"context"
	"fmt"
	"time"

	"solemate/internal/model"
	"solemate/internal/repository"
)

// Dashboard periods.
const (
	PeriodLastWeek    = "last_week"
	PeriodLastMonth   = "last_month"
	PeriodLast6Months = "last_6_months"
	PeriodLastYear    = "last_year"
	PeriodAllTime     = "all_time"
)

const profitMonths = 6

// PeriodStart returns the lower bound of period relative to now, or nil for all_time.
// An empty period means all_time.
func PeriodStart(period string, now time.Time) (*time.Time, error) {
	var start time.Time
	switch period {
	case "", PeriodAllTime:
		return nil, nil
	case PeriodLastWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodLastMonth:
		start = now.AddDate(0, -1, 0)
	case PeriodLast6Months:
		start = now.AddDate(0, -6, 0)
	case PeriodLastYear:
		start = now.AddDate(-1, 0, 0)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return &start, nil
}

// DashboardService aggregates a user's sales and spending.
type DashboardService interface {
	Get(ctx context.Context, userID, period string) (*model.Dashboard, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

func (s *dashboardService) Get(ctx context.Context, userID, period string) (*model.Dashboard, error) {
	now := s.now().UTC()
	since, err := PeriodStart(period, now)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = PeriodAllTime
	}

	sales, err := s.repo.SalesSummary(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	spend, err := s.repo.SpendSummary(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("spend summary: %w", err)
	}
	brands, err := s.repo.BrandBreakdown(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("brand breakdown: %w", err)
	}

	firstMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(profitMonths - 1), 0)
	monthly, err := s.repo.MonthlyProfit(ctx, userID, firstMonth)
	if err != nil {
		return nil, fmt.Errorf("monthly profit: %w", err)
	}
	if brands == nil {
		brands = []model.BrandCount{}
	}

	return &model.Dashboard{
		Period:          period,
		TotalRevenue:    model.RoundMoney(sales.Revenue),
		TotalSalesCount: sales.Count,
		TotalProfit:     model.RoundMoney(sales.Profit),
		TotalSpent:      model.RoundMoney(spend.Spent),
		TotalItems:      spend.Items,
		BrandBreakdown:  brands,
		MonthlyProfit:   fillMonths(firstMonth, monthly),
	}, nil
}

// fillMonths returns one entry per month starting at first, with zero profit for months without sales.
func fillMonths(first time.Time, rows []model.MonthlyProfit) []model.MonthlyProfit {
	byMonth := make(map[string]float64, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Profit
	}
	out := make([]model.MonthlyProfit, 0, profitMonths)
	for i := 0; i < profitMonths; i++ {
		m := first.AddDate(0, i, 0).Format("2006-01")
		out = append(out, model.MonthlyProfit{Month: m, Profit: model.RoundMoney(byMonth[m])})
	}
	return out
}
