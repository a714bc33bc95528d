package model

// BrandCount is the number of pairs of one brand currently in inventory.
type BrandCount struct {
	Brand    string `json:"brand"`
	Quantity int    `json:"quantity"`
}

// MonthlyProfit is the profit summed over one calendar month (YYYY-MM).
type MonthlyProfit struct {
	Month  string  `json:"month"`
	Profit float64 `json:"profit"`
}

// Dashboard aggregates a user's sales and purchases over a period.
type Dashboard struct {
	Period          string          `json:"period"`
	TotalRevenue    float64         `json:"total_revenue"`
	TotalSalesCount int             `json:"total_sales_count"`
	TotalProfit     float64         `json:"total_profit"`
	TotalSpent      float64         `json:"total_spent"`
	TotalItems      int             `json:"total_items"`
	BrandBreakdown  []BrandCount    `json:"brand_breakdown"`
	MonthlyProfit   []MonthlyProfit `json:"monthly_profit"`
}
