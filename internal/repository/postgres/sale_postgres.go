package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solemate/internal/model"
	"solemate/internal/repository"
)

// SalePostgres is a PostgreSQL implementation of repository.SaleRepository.
type SalePostgres struct {
	db *sql.DB
}

// NewSalePostgres creates a new SalePostgres repository.
func NewSalePostgres(db *sql.DB) *SalePostgres {
	return &SalePostgres{db: db}
}

var _ repository.SaleRepository = (*SalePostgres)(nil)

const saleColumns = `id, user_id, inventory_item_id, product_name, brand, size, quantity_sold, price_sold, sale_date, profit, created_at`

func scanSale(s scanner) (*model.Sale, error) {
	var (
		sl     model.Sale
		itemID sql.NullString
	)
	if err := s.Scan(
		&sl.ID,
		&sl.UserID,
		&itemID,
		&sl.ProductName,
		&sl.Brand,
		&sl.Size,
		&sl.QuantitySold,
		&sl.PriceSold,
		&sl.SaleDate,
		&sl.Profit,
		&sl.CreatedAt,
	); err != nil {
		return nil, err
	}
	if itemID.Valid {
		sl.InventoryItemID = &itemID.String
	}
	return &sl, nil
}

// Record inserts the sale and adjusts stock in one transaction.
// The conditional UPDATE both locks the inventory row and guards against overselling.
func (r *SalePostgres) Record(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	if sale.InventoryItemID == nil {
		return nil, errors.New("inventory item id is required")
	}
	itemID := *sale.InventoryItemID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const qStock = `
		UPDATE inventory
		SET quantity = quantity - $3, updated_at = now()
		WHERE id = $1 AND user_id = $2 AND quantity >= $3
		RETURNING quantity
	`
	var remaining int
	if err := tx.QueryRowContext(ctx, qStock, itemID, sale.UserID, sale.QuantitySold).Scan(&remaining); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrInsufficientStock
		}
		return nil, fmt.Errorf("update stock: %w", err)
	}

	const qSale = `
		INSERT INTO sales (id, user_id, inventory_item_id, product_name, brand, size, quantity_sold, price_sold, sale_date, profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + saleColumns
	out, err := scanSale(tx.QueryRowContext(ctx, qSale,
		sale.ID,
		sale.UserID,
		itemID,
		sale.ProductName,
		sale.Brand,
		sale.Size,
		sale.QuantitySold,
		sale.PriceSold,
		sale.SaleDate,
		sale.Profit,
		sale.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", mapError(err))
	}

	if remaining == 0 {
		// sales.inventory_item_id is ON DELETE SET NULL
		if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE id = $1`, itemID); err != nil {
			return nil, fmt.Errorf("delete sold out item: %w", err)
		}
		out.InventoryItemID = nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// FindByID fetches a single sale by its ID.
func (r *SalePostgres) FindByID(ctx context.Context, id string) (*model.Sale, error) {
	const q = `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSale(r.db.QueryRowContext(ctx, q, id))
}

// List returns sales using LIMIT/OFFSET pagination and a total count.
func (r *SalePostgres) List(ctx context.Context, f repository.ListFilter) (*repository.PageResult[model.Sale], error) {
	const qCount = `SELECT COUNT(*) FROM sales WHERE ($1 = '' OR user_id::text = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, f.UserID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + saleColumns + `
		FROM sales
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY sale_date DESC, created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, f.UserID, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Sale, 0)
	for rows.Next() {
		sl, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *sl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Sale]{Items: items, Total: total}, nil
}

// TotalValue sums price_sold over a user's sales.
func (r *SalePostgres) TotalValue(ctx context.Context, userID string) (float64, error) {
	const q = `SELECT COALESCE(SUM(price_sold), 0) FROM sales WHERE user_id = $1`
	var total float64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Delete removes a sale by ID. It does not return an error if the row does not exist.
func (r *SalePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM sales WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
