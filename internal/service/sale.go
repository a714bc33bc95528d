package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"solemate/internal/model"
	"solemate/internal/repository"
	"solemate/internal/storage"
)

// SaleInput describes a sale of one inventory item.
type SaleInput struct {
	InventoryItemID string
	Quantity        int
	PriceSold       float64
	SaleDate        time.Time
}

// SaleListResult is the service-level DTO for paginated sales.
type SaleListResult struct {
	Items      []model.Sale `json:"data"`
	Total      int          `json:"total"`
	TotalValue float64      `json:"total_value"`
}

// SaleService defines the use cases for recording and listing sales.
type SaleService interface {
	// List returns the user's sales and the sum of price_sold over all of them.
	List(ctx context.Context, userID string, limit, offset int) (*SaleListResult, error)

	// Record sells stock from one of the user's items. The item is removed once its stock reaches zero.
	Record(ctx context.Context, userID string, in SaleInput) (*model.Sale, error)

	// Delete removes a sale record. Stock is not restored.
	Delete(ctx context.Context, userID, id string) error
}

type saleService struct {
	store     storage.Storage
	inventory repository.InventoryRepository
	sales     repository.SaleRepository
	now       func() time.Time
}

// NewSaleService constructs a new SaleService.
func NewSaleService(store storage.Storage, inventory repository.InventoryRepository, sales repository.SaleRepository) SaleService {
	return &saleService{store: store, inventory: inventory, sales: sales, now: time.Now}
}

func (s *saleService) List(ctx context.Context, userID string, limit, offset int) (*SaleListResult, error) {
	limit, offset = normalizePage(limit, offset)

	res, err := s.sales.List(ctx, repository.ListFilter{
		UserID:    userID,
		PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
	})
	if err != nil {
		return nil, err
	}
	total, err := s.sales.TotalValue(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SaleListResult{Items: res.Items, Total: res.Total, TotalValue: model.RoundMoney(total)}, nil
}

func (s *saleService) Record(ctx context.Context, userID string, in SaleInput) (*model.Sale, error) {
	if in.InventoryItemID == "" {
		return nil, ErrIDRequired
	}
	it, err := s.inventory.FindByID(ctx, in.InventoryItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if it.UserID != userID {
		return nil, ErrNotFound
	}
	if in.Quantity > it.Quantity {
		return nil, ErrInsufficientStock
	}

	itemID := it.ID
	now := s.now().UTC()
	saleDate := in.SaleDate
	if saleDate.IsZero() {
		saleDate = now
	}
	sale := &model.Sale{
		ID:              uuid.New().String(),
		UserID:          userID,
		InventoryItemID: &itemID,
		ProductName:     it.ProductName,
		Brand:           it.Brand,
		Size:            it.Size,
		QuantitySold:    in.Quantity,
		PriceSold:       model.RoundMoney(in.PriceSold),
		SaleDate:        saleDate,
		Profit:          model.CalculateProfit(in.PriceSold, it.Price, in.Quantity),
		CreatedAt:       now,
	}

	stored, err := s.sales.Record(ctx, sale)
	if err != nil {
		// A concurrent sale may have taken the stock after the check above.
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("record sale: %w", err)
	}

	if stored.InventoryItemID == nil && it.ImageKey != "" {
		// Best effort: the item row is already gone.
		_ = s.store.Delete(ctx, it.ImageKey)
	}
	return stored, nil
}

func (s *saleService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	sl, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if sl.UserID != userID {
		return ErrNotFound
	}
	return s.sales.Delete(ctx, id)
}
