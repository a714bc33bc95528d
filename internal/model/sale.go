package model

import (
	"math"
	"time"
)

// Sale records items sold from an inventory entry. Product details are
// snapshotted so the sale survives deletion of a sold-out item.
type Sale struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	InventoryItemID *string   `json:"inventory_item_id"`
	ProductName     string    `json:"product_name"`
	Brand           string    `json:"brand"`
	Size            float64   `json:"size"`
	QuantitySold    int       `json:"quantity_sold"`
	PriceSold       float64   `json:"price_sold"`
	SaleDate        time.Time `json:"sale_date"`
	Profit          float64   `json:"profit"`
	CreatedAt       time.Time `json:"created_at"`
}

// CalculateProfit returns priceSold minus the purchase cost of quantity units, rounded to 2dp.
func CalculateProfit(priceSold, unitPrice float64, quantity int) float64 {
	return RoundMoney(priceSold - unitPrice*float64(quantity))
}

// RoundMoney rounds to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
