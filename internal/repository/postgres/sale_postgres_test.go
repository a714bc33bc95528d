package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solemate/internal/model"
	"solemate/internal/repository"
)

var saleCols = []string{"id", "user_id", "inventory_item_id", "product_name", "brand", "size", "quantity_sold", "price_sold", "sale_date", "profit", "created_at"}

func newSale(itemID string, qty int) *model.Sale {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return &model.Sale{
		ID:              "sale-1",
		UserID:          "user-1",
		InventoryItemID: &itemID,
		ProductName:     "Air Max 90",
		Brand:           "Nike",
		Size:            9.5,
		QuantitySold:    qty,
		PriceSold:       300,
		SaleDate:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Profit:          80,
		CreatedAt:       now,
	}
}

func saleRow(s *model.Sale, itemID any) *sqlmock.Rows {
	return sqlmock.NewRows(saleCols).
		AddRow(s.ID, s.UserID, itemID, s.ProductName, s.Brand, s.Size, s.QuantitySold, s.PriceSold, s.SaleDate, s.Profit, s.CreatedAt)
}

func TestSalePostgres_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("partial sale keeps item", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		s := newSale("item-1", 1)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE inventory SET quantity = quantity - \\$3").
			WithArgs("item-1", "user-1", 1).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(2))
		mock.ExpectQuery("INSERT INTO sales").
			WillReturnRows(saleRow(s, "item-1"))
		mock.ExpectCommit()

		out, err := NewSalePostgres(db).Record(ctx, s)
		require.NoError(t, err)
		require.NotNil(t, out.InventoryItemID)
		assert.Equal(t, "item-1", *out.InventoryItemID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("selling the last unit deletes the item", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		s := newSale("item-1", 2)
		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE inventory SET quantity").
			WithArgs("item-1", "user-1", 2).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(0))
		mock.ExpectQuery("INSERT INTO sales").
			WillReturnRows(saleRow(s, "item-1"))
		mock.ExpectExec("DELETE FROM inventory WHERE id = ?").
			WithArgs("item-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		out, err := NewSalePostgres(db).Record(ctx, s)
		require.NoError(t, err)
		assert.Nil(t, out.InventoryItemID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("oversell is rejected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE inventory SET quantity").
			WithArgs("item-1", "user-1", 5).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		out, err := NewSalePostgres(db).Record(ctx, newSale("item-1", 5))
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing item id", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		s := newSale("x", 1)
		s.InventoryItemID = nil
		_, err = NewSalePostgres(db).Record(ctx, s)
		assert.Error(t, err)
	})
}

func TestSalePostgres_ListAndTotal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSalePostgres(db)
	ctx := context.Background()
	s := newSale("item-1", 1)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM sales").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM sales WHERE (.+) ORDER BY").
		WithArgs("user-1", 10, 0).
		WillReturnRows(saleRow(s, nil))
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(price_sold\\), 0\\) FROM sales").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(300.0))

	res, err := repo.List(ctx, repository.ListFilter{UserID: "user-1", PageQuery: repository.PageQuery{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Nil(t, res.Items[0].InventoryItemID)

	total, err := repo.TotalValue(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 300.0, total)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalePostgres_FindAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSalePostgres(db)
	ctx := context.Background()
	s := newSale("item-1", 1)

	mock.ExpectQuery("SELECT (.+) FROM sales WHERE id = ?").
		WithArgs("sale-1").
		WillReturnRows(saleRow(s, "item-1"))
	mock.ExpectExec("DELETE FROM sales WHERE id = ?").
		WithArgs("sale-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.FindByID(ctx, "sale-1")
	require.NoError(t, err)
	assert.Equal(t, 80.0, got.Profit)
	assert.NoError(t, repo.Delete(ctx, "sale-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
