package scope

import (
	"context"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/procurement"
	"github.com/inventra/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed or
// rolled back atomically. Stock projections and ledger rows are only ever
// written through a scope, which is what keeps them consistent.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within one
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// StockTransactions returns the ledger repository scoped to the current transaction
	StockTransactions() inventory.StockTransactionRepository
	// Batches returns the product batch repository scoped to the current transaction
	Batches() inventory.ProductBatchRepository
	// Invoices returns the invoice repository scoped to the current transaction
	Invoices() sales.InvoiceRepository
	// PurchaseOrders returns the purchase order repository scoped to the current transaction
	PurchaseOrders() procurement.PurchaseOrderRepository
	// GoodsReceipts returns the goods receipt repository scoped to the current transaction
	GoodsReceipts() procurement.GoodsReceiptRepository
}
