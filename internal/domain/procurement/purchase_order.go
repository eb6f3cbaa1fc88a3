package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft             PurchaseOrderStatus = "Draft"
	PurchaseOrderStatusSent              PurchaseOrderStatus = "Sent"
	PurchaseOrderStatusConfirmed         PurchaseOrderStatus = "Confirmed"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "Partially_Received"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "Received"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "Cancelled"
)

// String returns the string representation of the status
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known state
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft,
		PurchaseOrderStatusSent,
		PurchaseOrderStatusConfirmed,
		PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived,
		PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for states that admit no further transitions
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == PurchaseOrderStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusSent
	case PurchaseOrderStatusSent:
		return target == PurchaseOrderStatusConfirmed
	case PurchaseOrderStatusConfirmed:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	case PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusPartiallyReceived || target == PurchaseOrderStatusReceived
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusSent ||
		s == PurchaseOrderStatusConfirmed ||
		s == PurchaseOrderStatusPartiallyReceived
}

// CanEdit returns true if the order's lines may still be changed
func (s PurchaseOrderStatus) CanEdit() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusSent
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// Remaining returns the quantity still expected on this line
func (i *PurchaseOrderItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQuantity)
}

// IsFullyReceived reports whether the line has no remaining quantity
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.ReceivedQuantity.GreaterThanOrEqual(i.Quantity)
}

// AddReceived books received quantity onto the line. Receiving more than
// ordered is rejected before any change is made.
func (i *PurchaseOrderItem) AddReceived(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if i.ReceivedQuantity.Add(quantity).GreaterThan(i.Quantity) {
		return shared.NewDomainError("INVALID_INPUT", "Received quantity exceeds ordered quantity")
	}
	i.ReceivedQuantity = i.ReceivedQuantity.Add(quantity)
	i.Touch()
	return nil
}

// PurchaseOrder is the aggregate root for procurement
type PurchaseOrder struct {
	shared.BaseEntity
	PONumber     string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	SupplierInfo string              `gorm:"type:text"`
	Status       PurchaseOrderStatus `gorm:"type:varchar(30);not null;default:'Draft';index"`
	OrderDate    time.Time           `gorm:"type:date;not null"`
	ExpectedDate *time.Time          `gorm:"type:date"`
	Notes        string              `gorm:"type:varchar(500)"`
	TotalAmount  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedBy    string              `gorm:"type:varchar(100)"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a draft order with the given lines
func NewPurchaseOrder(poNumber, supplierName string, orderDate time.Time, lines []PurchaseOrderItem) (*PurchaseOrder, error) {
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase order must have at least one item")
	}

	order := &PurchaseOrder{
		BaseEntity:   shared.NewBaseEntity(),
		PONumber:     poNumber,
		SupplierName: supplierName,
		Status:       PurchaseOrderStatusDraft,
		OrderDate:    orderDate,
	}
	if err := order.ReplaceItems(lines); err != nil {
		return nil, err
	}
	return order, nil
}

// NewPurchaseOrderItem creates a line with its subtotal computed
func NewPurchaseOrderItem(productID uuid.UUID, quantity, unitPrice decimal.Decimal) (PurchaseOrderItem, error) {
	if productID == uuid.Nil {
		return PurchaseOrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return PurchaseOrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return PurchaseOrderItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return PurchaseOrderItem{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		Subtotal:   quantity.Mul(unitPrice),
	}, nil
}

// ReplaceItems swaps the order's lines and recomputes the total.
// Allowed only while the order is editable.
func (o *PurchaseOrder) ReplaceItems(lines []PurchaseOrderItem) error {
	if !o.Status.CanEdit() && o.Status != "" {
		return shared.ErrInvalidState
	}
	if len(lines) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Purchase order must have at least one item")
	}

	total := decimal.Zero
	for idx := range lines {
		lines[idx].PurchaseOrderID = o.ID
		total = total.Add(lines[idx].Subtotal)
	}
	o.Items = lines
	o.TotalAmount = total
	o.Touch()
	return nil
}

// TransitionTo moves the order along the status machine
func (o *PurchaseOrder) TransitionTo(target PurchaseOrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown purchase order status")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidState
	}
	o.Status = target
	o.Touch()
	return nil
}

// Cancel cancels the order from any non-terminal state
func (o *PurchaseOrder) Cancel() error {
	return o.TransitionTo(PurchaseOrderStatusCancelled)
}

// CanDelete returns true only for draft orders
func (o *PurchaseOrder) CanDelete() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// DeriveStatusFromItems computes the receipt-driven status from line
// quantities alone. It is idempotent: recomputing on an unchanged order
// returns the current state.
func DeriveStatusFromItems(items []PurchaseOrderItem) PurchaseOrderStatus {
	if len(items) == 0 {
		return PurchaseOrderStatusConfirmed
	}
	allFull := true
	anyReceived := false
	for idx := range items {
		if items[idx].ReceivedQuantity.IsPositive() {
			anyReceived = true
		}
		if !items[idx].IsFullyReceived() {
			allFull = false
		}
	}
	switch {
	case allFull:
		return PurchaseOrderStatusReceived
	case anyReceived:
		return PurchaseOrderStatusPartiallyReceived
	default:
		return PurchaseOrderStatusConfirmed
	}
}

// RecomputeStatus applies the receipt-derived status after goods arrive
func (o *PurchaseOrder) RecomputeStatus() {
	derived := DeriveStatusFromItems(o.Items)
	if derived != o.Status {
		o.Status = derived
		o.Touch()
	}
}
