package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// PaymentStatus represents whether an invoice has been settled
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusUnpaid PaymentStatus = "Unpaid"
)

// IsValid returns true if the payment status is known
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusUnpaid
}

// InvoiceItem represents one sold line on an invoice
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID   *uuid.UUID      `gorm:"type:uuid"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Invoice is the aggregate root for a completed sale. Creating an invoice
// is what fulfills stock; there is no separate reservation step.
type Invoice struct {
	shared.BaseEntity
	InvoiceNumber  string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerName   string          `gorm:"type:varchar(200)"`
	CustomerInfo   string          `gorm:"type:text"`
	InvoiceDate    time.Time       `gorm:"type:date;not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(20);not null;default:'Unpaid'"`
	Notes          string          `gorm:"type:varchar(500)"`
	CreatedBy      string          `gorm:"type:varchar(100)"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoiceItem creates a line with its subtotal computed
func NewInvoiceItem(productID uuid.UUID, quantity, unitPrice decimal.Decimal) (InvoiceItem, error) {
	if productID == uuid.Nil {
		return InvoiceItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return InvoiceItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return InvoiceItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return InvoiceItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Subtotal:   quantity.Mul(unitPrice),
	}, nil
}

// NewInvoice creates an invoice and computes its totals server-side.
// Discount and tax are absolute amounts, not rates.
func NewInvoice(invoiceNumber, customerName string, invoiceDate time.Time, lines []InvoiceItem, discount, tax decimal.Decimal) (*Invoice, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invoice must have at least one item")
	}
	if discount.IsNegative() || tax.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount and tax cannot be negative")
	}

	invoice := &Invoice{
		BaseEntity:     shared.NewBaseEntity(),
		InvoiceNumber:  invoiceNumber,
		CustomerName:   customerName,
		InvoiceDate:    invoiceDate,
		DiscountAmount: discount,
		TaxAmount:      tax,
		PaymentStatus:  PaymentStatusUnpaid,
	}

	subtotal := decimal.Zero
	for idx := range lines {
		lines[idx].InvoiceID = invoice.ID
		subtotal = subtotal.Add(lines[idx].Subtotal)
	}
	total := subtotal.Sub(discount).Add(tax)
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount exceeds invoice subtotal")
	}

	invoice.Items = lines
	invoice.Subtotal = subtotal
	invoice.TotalAmount = total
	return invoice, nil
}

// SetPaymentStatus updates the settlement state
func (i *Invoice) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Payment status must be Paid or Unpaid")
	}
	i.PaymentStatus = status
	i.Touch()
	return nil
}

// MarkPaid marks the invoice as settled
func (i *Invoice) MarkPaid() {
	i.PaymentStatus = PaymentStatusPaid
	i.Touch()
}
