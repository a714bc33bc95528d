package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solemate/internal/model"
	"solemate/internal/repository"
)

var inventoryCols = []string{"id", "user_id", "product_name", "brand", "size", "quantity", "price", "image_key", "created_at", "updated_at"}

func TestInventoryPostgres_Create(t *testing.T) {
	now := time.Now().UTC()
	item := &model.InventoryItem{
		ID:          "item-1",
		UserID:      "user-1",
		ProductName: "Air Max 90",
		Brand:       "Nike",
		Size:        9.5,
		Quantity:    2,
		Price:       110,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	row := func() *sqlmock.Rows {
		return sqlmock.NewRows(inventoryCols).
			AddRow(item.ID, item.UserID, item.ProductName, item.Brand, item.Size, item.Quantity, item.Price, "", now, now)
	}

	t.Run("inserts item and shoe log entry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO inventory").
			WithArgs(item.ID, item.UserID, item.ProductName, item.Brand, item.Size, item.Quantity, item.Price, "", now, now).
			WillReturnRows(row())
		mock.ExpectExec("INSERT INTO shoe_log").
			WithArgs(sqlmock.AnyArg(), item.UserID, item.ProductName, item.Brand, item.Size, item.Quantity, item.Price, now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		out, err := NewInventoryPostgres(db).Create(context.Background(), item)
		require.NoError(t, err)
		assert.Equal(t, "item-1", out.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when shoe log insert fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO inventory").WillReturnRows(row())
		mock.ExpectExec("INSERT INTO shoe_log").WillReturnError(errors.New("log fail"))
		mock.ExpectRollback()

		out, err := NewInventoryPostgres(db).Create(context.Background(), item)
		assert.ErrorContains(t, err, "insert shoe_log: log fail")
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInventoryPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM inventory WHERE id = ?").
			WithArgs("item-1").
			WillReturnRows(sqlmock.NewRows(inventoryCols).
				AddRow("item-1", "user-1", "Samba", "Adidas", 8.0, 1, 80.0, "shoe-images/x.jpg", time.Now(), time.Now()))

		it, err := repo.FindByID(ctx, "item-1")
		require.NoError(t, err)
		assert.Equal(t, "Adidas", it.Brand)
		assert.Equal(t, "shoe-images/x.jpg", it.ImageKey)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM inventory WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		it, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, it)
	})
}

func TestInventoryPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM inventory").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM inventory WHERE (.+) ORDER BY").
		WithArgs("user-1", 10, 0).
		WillReturnRows(sqlmock.NewRows(inventoryCols).
			AddRow("item-1", "user-1", "Samba", "Adidas", 8.0, 1, 80.0, "", time.Now(), time.Now()))

	res, err := NewInventoryPostgres(db).List(context.Background(), repository.ListFilter{
		UserID:    "user-1",
		PageQuery: repository.PageQuery{Limit: 10, Offset: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryPostgres_UpdateAndDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewInventoryPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	item := &model.InventoryItem{ID: "item-1", ProductName: "Samba OG", Brand: "Adidas", Size: 8, Quantity: 3, Price: 75, UpdatedAt: now}

	mock.ExpectQuery("UPDATE inventory").
		WithArgs("item-1", "Samba OG", "Adidas", 8.0, 3, 75.0, "", now).
		WillReturnRows(sqlmock.NewRows(inventoryCols).
			AddRow("item-1", "user-1", "Samba OG", "Adidas", 8.0, 3, 75.0, "", now, now))
	mock.ExpectExec("DELETE FROM inventory WHERE id = ?").
		WithArgs("item-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := repo.Update(ctx, item)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Quantity)
	assert.NoError(t, repo.Delete(ctx, "item-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
