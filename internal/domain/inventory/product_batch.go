package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// ProductBatch tracks a received lot of a batch-managed product.
// Quantity is the amount originally received; AvailableQuantity is what is
// still on hand and is consumed by sales.
type ProductBatch struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_product_number,priority:1"`
	BatchNumber       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_product_number,priority:2"`
	Quantity          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpiryDate        *time.Time      `gorm:"type:date;index"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductBatch) TableName() string {
	return "product_batches"
}

// NewProductBatch creates a batch with its full quantity available
func NewProductBatch(productID uuid.UUID, batchNumber string, quantity decimal.Decimal, expiryDate *time.Time, purchasePrice decimal.Decimal) (*ProductBatch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	return &ProductBatch{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		BatchNumber:       batchNumber,
		Quantity:          quantity,
		AvailableQuantity: quantity,
		ExpiryDate:        expiryDate,
		PurchasePrice:     purchasePrice,
	}, nil
}

// Consume reduces the available quantity for a sale
func (b *ProductBatch) Consume(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity.GreaterThan(b.AvailableQuantity) {
		return shared.ErrInsufficientStock
	}
	b.AvailableQuantity = b.AvailableQuantity.Sub(quantity)
	b.Touch()
	return nil
}

// Restore returns previously consumed quantity, capped at the received amount
func (b *ProductBatch) Restore(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	restored := b.AvailableQuantity.Add(quantity)
	if restored.GreaterThan(b.Quantity) {
		restored = b.Quantity
	}
	b.AvailableQuantity = restored
	b.Touch()
	return nil
}

// AdjustAvailable applies a signed delta to the available quantity
func (b *ProductBatch) AdjustAvailable(delta decimal.Decimal) error {
	next := b.AvailableQuantity.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}
	b.AvailableQuantity = next
	if next.GreaterThan(b.Quantity) {
		b.Quantity = next
	}
	b.Touch()
	return nil
}

// IsExpired reports whether the expiry date is strictly before today
func (b *ProductBatch) IsExpired(now time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	today := now.Truncate(24 * time.Hour)
	return b.ExpiryDate.Before(today)
}

// ExpiresWithin reports whether the batch still has stock and expires within
// the given number of days from now
func (b *ProductBatch) ExpiresWithin(now time.Time, days int) bool {
	if b.ExpiryDate == nil || !b.AvailableQuantity.IsPositive() {
		return false
	}
	cutoff := now.AddDate(0, 0, days)
	return !b.ExpiryDate.After(cutoff)
}
