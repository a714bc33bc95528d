package repository

import (
	"context"

	"solemate/internal/model"
)

// SaleRepository defines data access for sales.
type SaleRepository interface {
	// Record stores a sale and takes QuantitySold off the referenced inventory item
	// in one transaction. The item is deleted when its quantity reaches zero, in
	// which case the returned sale has a nil InventoryItemID.
	// Returns ErrInsufficientStock when the item (owned by sale.UserID) holds fewer units.
	Record(ctx context.Context, sale *model.Sale) (*model.Sale, error)

	// FindByID returns a sale by ID regardless of owner.
	FindByID(ctx context.Context, id string) (*model.Sale, error)

	// List returns sales ordered by sale date, newest first.
	List(ctx context.Context, f ListFilter) (*PageResult[model.Sale], error)

	// TotalValue sums price_sold over all of a user's sales.
	TotalValue(ctx context.Context, userID string) (float64, error)

	// Delete removes a sale by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
