package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// GoodsReceiptItem records how much of one purchase order line arrived
type GoodsReceiptItem struct {
	shared.BaseEntity
	GoodsReceiptID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseOrderItemID uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID           uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber         string          `gorm:"type:varchar(100)"`
	ExpiryDate          *time.Time      `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (GoodsReceiptItem) TableName() string {
	return "goods_receipt_items"
}

// GoodsReceipt documents one delivery against a purchase order
type GoodsReceipt struct {
	shared.BaseEntity
	ReceiptNumber   string     `gorm:"type:varchar(30);not null;uniqueIndex"`
	PurchaseOrderID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceivedDate    time.Time  `gorm:"type:date;not null"`
	Notes           string     `gorm:"type:varchar(500)"`
	ReceivedBy      string     `gorm:"type:varchar(100)"`

	Items []GoodsReceiptItem `gorm:"foreignKey:GoodsReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (GoodsReceipt) TableName() string {
	return "goods_receipts"
}

// NewGoodsReceipt creates a receipt document for a purchase order
func NewGoodsReceipt(receiptNumber string, purchaseOrderID uuid.UUID, receivedDate time.Time, receivedBy string) (*GoodsReceipt, error) {
	if purchaseOrderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Purchase order ID cannot be empty")
	}
	return &GoodsReceipt{
		BaseEntity:      shared.NewBaseEntity(),
		ReceiptNumber:   receiptNumber,
		PurchaseOrderID: purchaseOrderID,
		ReceivedDate:    receivedDate,
		ReceivedBy:      receivedBy,
	}, nil
}

// AddItem appends a received line to the receipt
func (r *GoodsReceipt) AddItem(poItemID, productID uuid.UUID, quantity decimal.Decimal, batchNumber string, expiryDate *time.Time) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	r.Items = append(r.Items, GoodsReceiptItem{
		BaseEntity:          shared.NewBaseEntity(),
		GoodsReceiptID:      r.ID,
		PurchaseOrderItemID: poItemID,
		ProductID:           productID,
		Quantity:            quantity,
		BatchNumber:         batchNumber,
		ExpiryDate:          expiryDate,
	})
	return nil
}
