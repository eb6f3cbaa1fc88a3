package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/procurement"
	"github.com/inventra/backend/internal/domain/sales"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// A single connection is enforced so concurrent test goroutines serialize
// on the database the way PostgreSQL row locks would.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockTransaction{},
		&inventory.ProductBatch{},
		&sales.Invoice{},
		&sales.InvoiceItem{},
		&procurement.PurchaseOrder{},
		&procurement.PurchaseOrderItem{},
		&procurement.GoodsReceipt{},
		&procurement.GoodsReceiptItem{},
	)
	require.NoError(t, err)

	return db
}

// createTestProduct saves a product with the given SKU and stock level
func createTestProduct(t *testing.T, db *gorm.DB, sku string, stock decimal.Decimal) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(sku, "Product "+sku, "pcs")
	require.NoError(t, err)
	product.CurrentStock = stock
	require.NoError(t, db.Create(product).Error)
	return product
}
