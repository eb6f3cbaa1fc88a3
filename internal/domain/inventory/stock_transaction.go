package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// TransactionType represents the type of stock movement
type TransactionType string

const (
	// TransactionTypeIn represents stock coming in (receipt, return, batch intake)
	TransactionTypeIn TransactionType = "In"
	// TransactionTypeOut represents stock leaving (sale, batch removal)
	TransactionTypeOut TransactionType = "Out"
	// TransactionTypeAdjustment represents a manual correction; quantity is the signed delta
	TransactionTypeAdjustment TransactionType = "Adjustment"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeAdjustment:
		return true
	}
	return false
}

// ReferenceType identifies the source document of a transaction
type ReferenceType string

const (
	ReferenceTypeInvoice      ReferenceType = "Invoice"
	ReferenceTypeGoodsReceipt ReferenceType = "Goods_Receipt"
	ReferenceTypeBatch        ReferenceType = "Batch"
	ReferenceTypeManual       ReferenceType = "Manual"
)

// StockTransaction is an immutable ledger entry for a stock movement.
// Rows are only ever inserted; corrections are new Adjustment rows. The
// product's CurrentStock is a projection over this ledger and is updated in
// the same database transaction that inserts the row.
type StockTransaction struct {
	shared.BaseEntity
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_product"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index:idx_stock_tx_type"`
	// Quantity is positive for In/Out movements. For Adjustment it is the
	// signed delta between the counted quantity and the previous projection.
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReferenceType ReferenceType   `gorm:"type:varchar(30);index:idx_stock_tx_ref,priority:1"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index:idx_stock_tx_ref,priority:2"`
	Notes         string          `gorm:"type:varchar(255)"`
	CreatedBy     string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a ledger entry for an In or Out movement
func NewStockTransaction(
	productID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	refType ReferenceType,
	refID *uuid.UUID,
	notes, createdBy string,
) (*StockTransaction, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	// Adjustments carry a signed delta and may be zero: a count that
	// confirms the projection is still recorded in the ledger.
	if txType != TransactionTypeAdjustment && !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		ProductID:       productID,
		TransactionType: txType,
		Quantity:        quantity,
		ReferenceType:   refType,
		ReferenceID:     refID,
		Notes:           notes,
		CreatedBy:       createdBy,
	}, nil
}

// NewAdjustment creates the ledger entry for a stock count correction.
// The delta is counted minus previous; the caller sets the projection to
// counted in the same transaction.
func NewAdjustment(productID uuid.UUID, previous, counted decimal.Decimal, notes, createdBy string) (*StockTransaction, error) {
	delta := counted.Sub(previous)
	return NewStockTransaction(productID, TransactionTypeAdjustment, delta, ReferenceTypeManual, nil, notes, createdBy)
}

// SignedQuantity returns the effect of this entry on the stock projection
func (t *StockTransaction) SignedQuantity() decimal.Decimal {
	switch t.TransactionType {
	case TransactionTypeOut:
		return t.Quantity.Neg()
	default:
		return t.Quantity
	}
}

// OccurredAt returns when the movement was recorded
func (t *StockTransaction) OccurredAt() time.Time {
	return t.CreatedAt
}
