package repository

import (
	"context"
	"fmt"
	"testing"

	"shopmanager/internal/infra"
	"shopmanager/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection so the memory database survives for
// the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, infra.RunMigrations(db))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:            name,
		PurchasePrice:   decimal.RequireFromString("1.00"),
		SellingPrice:    decimal.RequireFromString("2.00"),
		QuantityInStock: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestDeleteBlockedByInvoiceReference(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	sold := seedProduct(t, db, "Sold Once", 5)
	inv := &model.Invoice{
		InvoiceNumber: "INV-900001",
		Subtotal:      decimal.RequireFromString("2.00"),
		TaxPercent:    decimal.Zero,
		TaxAmount:     decimal.Zero,
		TotalAmount:   decimal.RequireFromString("2.00"),
		PaymentMethod: "cash",
		CreatedBy:     uuid.New(),
		Items: []model.InvoiceItem{{
			ProductID: sold.ID,
			Quantity:  1,
			UnitPrice: decimal.RequireFromString("2.00"),
			LineTotal: decimal.RequireFromString("2.00"),
		}},
	}
	require.NoError(t, db.Create(inv).Error)

	err := repo.Delete(ctx, sold.ID)
	assert.ErrorIs(t, err, ErrHasSalesHistory)

	// Row must still be there for historical reporting.
	_, err = repo.FindByID(ctx, sold.ID)
	assert.NoError(t, err)
}

func TestDeleteWithoutSalesHistory(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Never Sold", 5)
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDecrementStockTxGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Scarce", 2)

	err := repo.DecrementStockTx(db, p.ID, 3)
	assert.ErrorContains(t, err, "insufficient stock")

	reloaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.QuantityInStock)

	require.NoError(t, repo.DecrementStockTx(db, p.ID, 2))
	reloaded, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.QuantityInStock)
}

func TestAdjustStockTxGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "Widget", 3)

	err := repo.AdjustStockTx(db, p.ID, -5)
	assert.ErrorContains(t, err, "stock adjustment rejected")

	reloaded, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.QuantityInStock)

	require.NoError(t, repo.AdjustStockTx(db, p.ID, 4))
	reloaded, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.QuantityInStock)
}
