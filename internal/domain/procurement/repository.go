package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventra/backend/internal/domain/shared"
)

// PurchaseOrderRepository persists purchase orders with their items
type PurchaseOrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByNumber loads an order by its document number
	FindByNumber(ctx context.Context, poNumber string) (*PurchaseOrder, error)

	// FindAll lists orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus returns the number of orders per status
	CountByStatus(ctx context.Context) (map[PurchaseOrderStatus]int64, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateNumber produces the next PO document number for the given day
	GenerateNumber(ctx context.Context, day time.Time) (string, error)
}

// GoodsReceiptRepository persists goods receipts
type GoodsReceiptRepository interface {
	// FindByID loads a receipt with its items
	FindByID(ctx context.Context, id uuid.UUID) (*GoodsReceipt, error)

	// FindByPurchaseOrder lists receipts booked against an order
	FindByPurchaseOrder(ctx context.Context, purchaseOrderID uuid.UUID) ([]GoodsReceipt, error)

	// Save creates a receipt and its items
	Save(ctx context.Context, receipt *GoodsReceipt) error

	// GenerateNumber produces the next receipt document number for the given day
	GenerateNumber(ctx context.Context, day time.Time) (string, error)
}
