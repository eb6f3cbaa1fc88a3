package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/procurement"
	"github.com/inventra/backend/internal/domain/sales"
	"github.com/inventra/backend/internal/domain/shared"
	"github.com/inventra/backend/internal/infrastructure/persistence"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&inventory.StockTransaction{},
		&inventory.ProductBatch{},
		&sales.Invoice{},
		&sales.InvoiceItem{},
		&procurement.PurchaseOrder{},
		&procurement.PurchaseOrderItem{},
		&procurement.GoodsReceipt{},
		&procurement.GoodsReceiptItem{},
	))
	return db
}

func newInvoiceService(t *testing.T) (*InvoiceService, *gorm.DB) {
	t.Helper()
	db := newServiceDB(t)
	return NewInvoiceService(persistence.NewGormTransactionScope(db), persistence.NewGormInvoiceRepository(db)), db
}

func newSaleProduct(t *testing.T, db *gorm.DB, sku string, stock int64, price int64) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(sku, "Product "+sku, "pcs")
	require.NoError(t, err)
	product.CurrentStock = decimal.NewFromInt(stock)
	product.SellingPrice = decimal.NewFromInt(price)
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("fulfills a sale atomically", func(t *testing.T) {
		service, db := newInvoiceService(t)
		product := newSaleProduct(t, db, "SALE-1", 10, 25)

		invoice, err := service.Create(ctx, "alice", CreateInvoiceRequest{
			CustomerName: "Acme Traders",
			Items: []InvoiceItemRequest{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(3)},
			},
		})
		require.NoError(t, err)
		assert.Regexp(t, `^INV-\d{8}-\d{3}$`, invoice.InvoiceNumber)
		assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(75)))
		assert.Equal(t, sales.PaymentStatusUnpaid, invoice.PaymentStatus)
		assert.Equal(t, "alice", invoice.CreatedBy)

		found, err := persistence.NewGormProductRepository(db).FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(7)))

		entries, err := persistence.NewGormStockTransactionRepository(db).FindByReference(ctx, inventory.ReferenceTypeInvoice, invoice.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, inventory.TransactionTypeOut, entries[0].TransactionType)
	})

	t.Run("uses the catalog price unless overridden", func(t *testing.T) {
		service, db := newInvoiceService(t)
		product := newSaleProduct(t, db, "SALE-2", 10, 25)

		override := decimal.NewFromInt(20)
		invoice, err := service.Create(ctx, "alice", CreateInvoiceRequest{
			Items: []InvoiceItemRequest{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(1), UnitPrice: &override},
			},
		})
		require.NoError(t, err)
		assert.True(t, invoice.Items[0].UnitPrice.Equal(override))
	})

	t.Run("applies discount and tax to the total", func(t *testing.T) {
		service, db := newInvoiceService(t)
		product := newSaleProduct(t, db, "SALE-3", 10, 100)

		invoice, err := service.Create(ctx, "alice", CreateInvoiceRequest{
			Items: []InvoiceItemRequest{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(2)},
			},
			DiscountAmount: decimal.NewFromInt(30),
			TaxAmount:      decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(200)))
		assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(180)))
	})

	t.Run("rolls everything back when one line oversells", func(t *testing.T) {
		service, db := newInvoiceService(t)
		ok := newSaleProduct(t, db, "SALE-OK", 10, 5)
		scarce := newSaleProduct(t, db, "SALE-SCARCE", 1, 5)

		_, err := service.Create(ctx, "alice", CreateInvoiceRequest{
			Items: []InvoiceItemRequest{
				{ProductID: ok.ID, Quantity: decimal.NewFromInt(2)},
				{ProductID: scarce.ID, Quantity: decimal.NewFromInt(5)},
			},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)

		// The first line's decrement was rolled back with the rest
		found, err := persistence.NewGormProductRepository(db).FindByID(ctx, ok.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(10)))

		var invoiceCount int64
		require.NoError(t, db.Model(&sales.Invoice{}).Count(&invoiceCount).Error)
		assert.Zero(t, invoiceCount)
	})

	t.Run("consumes the named batch", func(t *testing.T) {
		service, db := newInvoiceService(t)
		product := newSaleProduct(t, db, "SALE-BATCH", 10, 5)
		product.HasBatches = true
		require.NoError(t, db.Save(product).Error)
		batch, err := inventory.NewProductBatch(product.ID, "LOT-1", decimal.NewFromInt(10), nil, decimal.NewFromInt(2))
		require.NoError(t, err)
		require.NoError(t, db.Create(batch).Error)

		batchID := batch.ID
		_, err = service.Create(ctx, "alice", CreateInvoiceRequest{
			Items: []InvoiceItemRequest{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(4), BatchID: &batchID},
			},
		})
		require.NoError(t, err)

		updated, err := persistence.NewGormProductBatchRepository(db).FindByID(ctx, batch.ID)
		require.NoError(t, err)
		assert.True(t, updated.AvailableQuantity.Equal(decimal.NewFromInt(6)))
	})

	t.Run("rejects a batch belonging to another product", func(t *testing.T) {
		service, db := newInvoiceService(t)
		product := newSaleProduct(t, db, "SALE-B1", 10, 5)
		other := newSaleProduct(t, db, "SALE-B2", 10, 5)
		batch, err := inventory.NewProductBatch(other.ID, "LOT-OTHER", decimal.NewFromInt(10), nil, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, db.Create(batch).Error)

		batchID := batch.ID
		_, err = service.Create(ctx, "alice", CreateInvoiceRequest{
			Items: []InvoiceItemRequest{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(1), BatchID: &batchID},
			},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
	})

	t.Run("rejects unknown products", func(t *testing.T) {
		service, _ := newInvoiceService(t)

		_, err := service.Create(ctx, "alice", CreateInvoiceRequest{
			Items: []InvoiceItemRequest{
				{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)},
			},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestInvoiceService_UpdatePaymentStatus(t *testing.T) {
	service, db := newInvoiceService(t)
	ctx := context.Background()

	product := newSaleProduct(t, db, "PAY-1", 10, 5)
	invoice, err := service.Create(ctx, "alice", CreateInvoiceRequest{
		Items: []InvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	updated, err := service.UpdatePaymentStatus(ctx, invoice.ID, UpdatePaymentRequest{PaymentStatus: "Paid"})
	require.NoError(t, err)
	assert.Equal(t, sales.PaymentStatusPaid, updated.PaymentStatus)

	// And back again
	updated, err = service.UpdatePaymentStatus(ctx, invoice.ID, UpdatePaymentRequest{PaymentStatus: "Unpaid"})
	require.NoError(t, err)
	assert.Equal(t, sales.PaymentStatusUnpaid, updated.PaymentStatus)
}

func TestInvoiceService_Delete(t *testing.T) {
	service, db := newInvoiceService(t)
	ctx := context.Background()

	product := newSaleProduct(t, db, "DEL-1", 10, 5)
	product.HasBatches = true
	require.NoError(t, db.Save(product).Error)
	batch, err := inventory.NewProductBatch(product.ID, "LOT-DEL", decimal.NewFromInt(10), nil, decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, db.Create(batch).Error)

	batchID := batch.ID
	invoice, err := service.Create(ctx, "alice", CreateInvoiceRequest{
		Items: []InvoiceItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(4), BatchID: &batchID},
		},
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "alice", invoice.ID))

	// Stock and batch are compensated, and the deletion left an In entry
	found, err := persistence.NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(10)))

	restored, err := persistence.NewGormProductBatchRepository(db).FindByID(ctx, batch.ID)
	require.NoError(t, err)
	assert.True(t, restored.AvailableQuantity.Equal(decimal.NewFromInt(10)))

	entries, err := persistence.NewGormStockTransactionRepository(db).FindByReference(ctx, inventory.ReferenceTypeInvoice, invoice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	_, err = service.Get(ctx, invoice.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestInvoiceService_Stats(t *testing.T) {
	service, db := newInvoiceService(t)
	ctx := context.Background()

	product := newSaleProduct(t, db, "STAT-1", 100, 10)
	paid, err := service.Create(ctx, "alice", CreateInvoiceRequest{
		Items: []InvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(3)}},
	})
	require.NoError(t, err)
	_, err = service.UpdatePaymentStatus(ctx, paid.ID, UpdatePaymentRequest{PaymentStatus: "Paid"})
	require.NoError(t, err)

	_, err = service.Create(ctx, "alice", CreateInvoiceRequest{
		Items: []InvoiceItemRequest{{ProductID: product.ID, Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	from := paid.InvoiceDate.AddDate(0, 0, -1)
	to := paid.InvoiceDate.AddDate(0, 0, 1)
	stats, err := service.Stats(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.InvoiceCount)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(40)))
	assert.True(t, stats.PaidAmount.Equal(decimal.NewFromInt(30)))
	assert.True(t, stats.UnpaidAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 1, stats.PaidInvoices)
	assert.Equal(t, 1, stats.UnpaidCount)
}
