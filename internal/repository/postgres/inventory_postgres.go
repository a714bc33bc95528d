package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"solemate/internal/model"
	"solemate/internal/repository"
)

// InventoryPostgres is a PostgreSQL implementation of repository.InventoryRepository.
type InventoryPostgres struct {
	db *sql.DB
}

// NewInventoryPostgres creates a new InventoryPostgres repository.
func NewInventoryPostgres(db *sql.DB) *InventoryPostgres {
	return &InventoryPostgres{db: db}
}

var _ repository.InventoryRepository = (*InventoryPostgres)(nil)

const inventoryColumns = `id, user_id, product_name, brand, size, quantity, price, image_key, created_at, updated_at`

func scanInventoryItem(s scanner) (*model.InventoryItem, error) {
	var it model.InventoryItem
	if err := s.Scan(
		&it.ID,
		&it.UserID,
		&it.ProductName,
		&it.Brand,
		&it.Size,
		&it.Quantity,
		&it.Price,
		&it.ImageKey,
		&it.CreatedAt,
		&it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts the item and its shoe_log entry in a single transaction.
func (r *InventoryPostgres) Create(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const qItem = `
		INSERT INTO inventory (id, user_id, product_name, brand, size, quantity, price, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + inventoryColumns
	out, err := scanInventoryItem(tx.QueryRowContext(ctx, qItem,
		item.ID,
		item.UserID,
		item.ProductName,
		item.Brand,
		item.Size,
		item.Quantity,
		item.Price,
		item.ImageKey,
		item.CreatedAt,
		item.UpdatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}

	const qLog = `
		INSERT INTO shoe_log (id, user_id, product_name, brand, size, quantity, price, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if _, err := tx.ExecContext(ctx, qLog,
		uuid.NewString(),
		out.UserID,
		out.ProductName,
		out.Brand,
		out.Size,
		out.Quantity,
		out.Price,
		out.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert shoe_log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return out, nil
}

// FindByID fetches a single item by its ID.
func (r *InventoryPostgres) FindByID(ctx context.Context, id string) (*model.InventoryItem, error) {
	const q = `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`
	return scanInventoryItem(r.db.QueryRowContext(ctx, q, id))
}

// List returns items using LIMIT/OFFSET pagination and a total count.
func (r *InventoryPostgres) List(ctx context.Context, f repository.ListFilter) (*repository.PageResult[model.InventoryItem], error) {
	const qCount = `SELECT COUNT(*) FROM inventory WHERE ($1 = '' OR user_id::text = $1)`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, f.UserID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + inventoryColumns + `
		FROM inventory
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, qList, f.UserID, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.InventoryItem]{Items: items, Total: total}, nil
}

// Update overwrites the mutable columns of an item.
func (r *InventoryPostgres) Update(ctx context.Context, item *model.InventoryItem) (*model.InventoryItem, error) {
	const q = `
		UPDATE inventory
		SET product_name = $2, brand = $3, size = $4, quantity = $5, price = $6, image_key = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + inventoryColumns
	return scanInventoryItem(r.db.QueryRowContext(ctx, q,
		item.ID,
		item.ProductName,
		item.Brand,
		item.Size,
		item.Quantity,
		item.Price,
		item.ImageKey,
		item.UpdatedAt,
	))
}

// Delete removes an item by ID. It does not return an error if the row does not exist.
func (r *InventoryPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM inventory WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
