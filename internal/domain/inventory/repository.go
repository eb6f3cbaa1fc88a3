package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventra/backend/internal/domain/shared"
)

// TransactionFilter narrows ledger queries
type TransactionFilter struct {
	ProductID     *uuid.UUID
	Type          *TransactionType
	ReferenceType *ReferenceType
	ReferenceID   *uuid.UUID
	From          *time.Time
	To            *time.Time
	Page          int
	PageSize      int
}

// Paged reports whether pagination applies, and the row offset when it
// does.
func (f TransactionFilter) Paged() (offset, limit int, ok bool) {
	if f.Page < 1 || f.PageSize < 1 {
		return 0, 0, false
	}
	return (f.Page - 1) * f.PageSize, f.PageSize, true
}

// StockTransactionRepository persists the append-only stock ledger.
// There is deliberately no update or delete operation.
type StockTransactionRepository interface {
	// Append inserts a ledger entry
	Append(ctx context.Context, tx *StockTransaction) error

	// FindByID finds a ledger entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransaction, error)

	// FindAll lists ledger entries matching the filter, newest first
	FindAll(ctx context.Context, filter TransactionFilter) ([]StockTransaction, int64, error)

	// FindByReference lists entries written for a source document
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]StockTransaction, error)
}

// ProductBatchRepository persists product batches
type ProductBatchRepository interface {
	// FindByID finds a batch by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductBatch, error)

	// FindByProduct lists batches for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductBatch, error)

	// FindAll lists batches matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductBatch, error)

	// FindAvailableByProduct lists batches with stock left, oldest expiry first
	FindAvailableByProduct(ctx context.Context, productID uuid.UUID) ([]ProductBatch, error)

	// FindExpiring lists batches with stock left expiring within the
	// horizon, ordered by expiry ascending
	FindExpiring(ctx context.Context, until time.Time) ([]ProductBatch, error)

	// ExistsByNumber checks whether the product already has this batch number
	ExistsByNumber(ctx context.Context, productID uuid.UUID, batchNumber string) (bool, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *ProductBatch) error

	// Delete removes a batch
	Delete(ctx context.Context, id uuid.UUID) error
}
