package repository

import (
	"context"

	"solemate/internal/model"
)

// InventoryRepository defines data access for inventory items.
type InventoryRepository interface {
	// Create inserts an item and appends the matching purchase log entry in one transaction.
	Create(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error)

	// FindByID returns an item by ID regardless of owner.
	FindByID(ctx context.Context, id string) (*model.InventoryItem, error)

	// List returns items newest first.
	List(ctx context.Context, f ListFilter) (*PageResult[model.InventoryItem], error)

	// Update overwrites the mutable fields of an item and returns the stored row.
	Update(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error)

	// Delete removes an item by ID. It returns nil if the row did not exist.
	Delete(ctx context.Context, id string) error
}
