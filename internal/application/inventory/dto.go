package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/inventory"
)

// StockMovementRequest records a manual stock-in or stock-out
type StockMovementRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Notes     string          `json:"notes"`
}

// StockAdjustmentRequest sets the counted quantity for a product
type StockAdjustmentRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Notes       string          `json:"notes"`
}

// TransactionListRequest filters the stock ledger
type TransactionListRequest struct {
	ProductID     *uuid.UUID `form:"product_id"`
	Type          string     `form:"type"`
	ReferenceType string     `form:"reference_type"`
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	Page          int        `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// CreateBatchRequest registers a received lot for a batch-managed product
type CreateBatchRequest struct {
	ProductID     uuid.UUID       `json:"product_id" binding:"required"`
	BatchNumber   string          `json:"batch_number" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}

// UpdateBatchRequest applies a signed delta to a batch's available quantity
type UpdateBatchRequest struct {
	QuantityDelta decimal.Decimal `json:"quantity_delta" binding:"required"`
	Notes         string          `json:"notes"`
}

// MovementResult reports the ledger entry and the resulting projection
type MovementResult struct {
	Transaction *inventory.StockTransaction `json:"transaction"`
	NewStock    decimal.Decimal             `json:"new_stock"`
}

// TransactionList is a page of ledger entries
type TransactionList struct {
	Items    []inventory.StockTransaction `json:"items"`
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"page_size"`
}
