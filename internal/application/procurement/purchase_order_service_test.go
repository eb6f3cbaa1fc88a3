package procurement

import (
	"context"
	"testing"

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

func newOrderService(t *testing.T) (*PurchaseOrderService, *gorm.DB) {
	t.Helper()
	db := newServiceDB(t)
	return NewPurchaseOrderService(persistence.NewGormTransactionScope(db), persistence.NewGormPurchaseOrderRepository(db)), db
}

func newOrderProduct(t *testing.T, db *gorm.DB, sku string, batches bool) *catalog.Product {
	t.Helper()

	product, err := catalog.NewProduct(sku, "Product "+sku, "pcs")
	require.NoError(t, err)
	product.HasBatches = batches
	require.NoError(t, db.Create(product).Error)
	return product
}

func createOrder(t *testing.T, ctx context.Context, service *PurchaseOrderService, product *catalog.Product, quantity int64) *procurement.PurchaseOrder {
	t.Helper()

	order, err := service.Create(ctx, "alice", CreatePurchaseOrderRequest{
		SupplierName: "Northline Supply",
		Items: []PurchaseOrderItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(quantity), UnitPrice: decimal.NewFromInt(8)},
		},
	})
	require.NoError(t, err)
	return order
}

// confirmOrder walks a draft through Sent to Confirmed
func confirmOrder(t *testing.T, ctx context.Context, service *PurchaseOrderService, order *procurement.PurchaseOrder) {
	t.Helper()

	_, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Sent"})
	require.NoError(t, err)
	_, err = service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Confirmed"})
	require.NoError(t, err)
}

func TestPurchaseOrderService_Create(t *testing.T) {
	service, db := newOrderService(t)
	ctx := context.Background()

	product := newOrderProduct(t, db, "POC-1", false)
	order := createOrder(t, ctx, service, product, 10)

	assert.Regexp(t, `^PO-\d{8}-\d{3}$`, order.PONumber)
	assert.Equal(t, procurement.PurchaseOrderStatusDraft, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "alice", order.CreatedBy)
}

func TestPurchaseOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the lifecycle", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POS-1", false)
		order := createOrder(t, ctx, service, product, 10)

		updated, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Sent"})
		require.NoError(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusSent, updated.Status)

		updated, err = service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Confirmed"})
		require.NoError(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusConfirmed, updated.Status)
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POS-2", false)
		order := createOrder(t, ctx, service, product, 10)

		_, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Confirmed"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("receipt states are not settable by hand", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POS-3", false)
		order := createOrder(t, ctx, service, product, 10)
		confirmOrder(t, ctx, service, order)

		for _, status := range []string{"Partially_Received", "Received"} {
			_, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: status})
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		}
	})

	t.Run("cancel works from any non-terminal state", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POS-4", false)
		order := createOrder(t, ctx, service, product, 10)
		confirmOrder(t, ctx, service, order)

		updated, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Cancelled"})
		require.NoError(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusCancelled, updated.Status)

		_, err = service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Sent"})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestPurchaseOrderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("edits a draft order and recomputes the total", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POU-1", false)
		order := createOrder(t, ctx, service, product, 10)

		supplier := "Eastgate Goods"
		updated, err := service.Update(ctx, order.ID, UpdatePurchaseOrderRequest{
			SupplierName: &supplier,
			Items: []PurchaseOrderItemRequest{
				{ProductID: product.ID, Quantity: decimal.NewFromInt(3), UnitPrice: decimal.NewFromInt(4)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Eastgate Goods", updated.SupplierName)
		assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(12)))
	})

	t.Run("rejects edits after confirmation", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POU-2", false)
		order := createOrder(t, ctx, service, product, 10)
		confirmOrder(t, ctx, service, order)

		notes := "too late"
		_, err := service.Update(ctx, order.ID, UpdatePurchaseOrderRequest{Notes: &notes})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestPurchaseOrderService_Receive(t *testing.T) {
	ctx := context.Background()

	t.Run("partial then full receipt drives the status", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POR-1", false)
		order := createOrder(t, ctx, service, product, 10)
		confirmOrder(t, ctx, service, order)

		itemID := order.Items[0].ID
		receipt, err := service.Receive(ctx, "bob", order.ID, ReceiveRequest{
			Items: []ReceiveItemRequest{{ItemID: itemID, Quantity: decimal.NewFromInt(4)}},
		})
		require.NoError(t, err)
		assert.Regexp(t, `^GR-\d{8}-\d{3}$`, receipt.ReceiptNumber)
		require.Len(t, receipt.Items, 1)

		reloaded, err := service.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusPartiallyReceived, reloaded.Status)

		found, err := persistence.NewGormProductRepository(db).FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(4)))

		_, err = service.Receive(ctx, "bob", order.ID, ReceiveRequest{
			Items: []ReceiveItemRequest{{ItemID: itemID, Quantity: decimal.NewFromInt(6)}},
		})
		require.NoError(t, err)

		reloaded, err = service.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, procurement.PurchaseOrderStatusReceived, reloaded.Status)

		found, err = persistence.NewGormProductRepository(db).FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.Equal(decimal.NewFromInt(10)))

		entries, err := persistence.NewGormStockTransactionRepository(db).FindByReference(ctx, inventory.ReferenceTypeGoodsReceipt, order.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("rejects over-receipt before writing anything", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POR-2", false)
		order := createOrder(t, ctx, service, product, 10)
		confirmOrder(t, ctx, service, order)

		itemID := order.Items[0].ID
		_, err := service.Receive(ctx, "bob", order.ID, ReceiveRequest{
			Items: []ReceiveItemRequest{
				{ItemID: itemID, Quantity: decimal.NewFromInt(8)},
				{ItemID: itemID, Quantity: decimal.NewFromInt(3)},
			},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)

		// No stock, no receipt, no ledger entries
		found, err := persistence.NewGormProductRepository(db).FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.True(t, found.CurrentStock.IsZero())

		var receiptCount int64
		require.NoError(t, db.Model(&procurement.GoodsReceipt{}).Count(&receiptCount).Error)
		assert.Zero(t, receiptCount)
	})

	t.Run("creates a batch when the product tracks them", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POR-3", true)
		order := createOrder(t, ctx, service, product, 10)
		confirmOrder(t, ctx, service, order)

		_, err := service.Receive(ctx, "bob", order.ID, ReceiveRequest{
			Items: []ReceiveItemRequest{
				{ItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(10), BatchNumber: "LOT-RCV"},
			},
		})
		require.NoError(t, err)

		batches, err := persistence.NewGormProductBatchRepository(db).FindByProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, "LOT-RCV", batches[0].BatchNumber)
		assert.True(t, batches[0].AvailableQuantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects receiving against a draft order", func(t *testing.T) {
		service, db := newOrderService(t)
		product := newOrderProduct(t, db, "POR-4", false)
		order := createOrder(t, ctx, service, product, 10)

		_, err := service.Receive(ctx, "bob", order.ID, ReceiveRequest{
			Items: []ReceiveItemRequest{{ItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(1)}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestPurchaseOrderService_Delete(t *testing.T) {
	ctx := context.Background()
	service, db := newOrderService(t)

	t.Run("deletes drafts", func(t *testing.T) {
		product := newOrderProduct(t, db, "POD-1", false)
		order := createOrder(t, ctx, service, product, 10)

		require.NoError(t, service.Delete(ctx, order.ID))
		_, err := service.Get(ctx, order.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})

	t.Run("refuses anything past draft", func(t *testing.T) {
		product := newOrderProduct(t, db, "POD-2", false)
		order := createOrder(t, ctx, service, product, 10)
		_, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Sent"})
		require.NoError(t, err)

		err = service.Delete(ctx, order.ID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestPurchaseOrderService_Stats(t *testing.T) {
	ctx := context.Background()
	service, db := newOrderService(t)

	product := newOrderProduct(t, db, "POT-1", false)
	createOrder(t, ctx, service, product, 10)
	order := createOrder(t, ctx, service, product, 5)
	_, err := service.UpdateStatus(ctx, order.ID, UpdateStatusRequest{Status: "Sent"})
	require.NoError(t, err)

	counts, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[procurement.PurchaseOrderStatusDraft])
	assert.Equal(t, int64(1), counts[procurement.PurchaseOrderStatusSent])
}
