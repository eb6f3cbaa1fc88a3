package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// StockStatus classifies a product's stock level against its minimum
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Product represents a sellable item and its stock position.
// CurrentStock is a projection of the stock transaction ledger; it is only
// mutated together with a ledger row inside the same database transaction.
type Product struct {
	shared.BaseEntity
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Unit          string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	// No gorm default tags on the bools: a default makes gorm omit the
	// zero value on insert, so an inactive product would be stored with
	// the column default instead of false.
	HasBatches bool `gorm:"not null"`
	IsActive   bool `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product with zero stock
func NewProduct(sku, name, unit string) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Product{
		BaseEntity:    shared.NewBaseEntity(),
		SKU:           strings.ToUpper(sku),
		Name:          name,
		Unit:          unit,
		PurchasePrice: decimal.Zero,
		SellingPrice:  decimal.Zero,
		CurrentStock:  decimal.Zero,
		MinimumStock:  decimal.Zero,
		IsActive:      true,
	}, nil
}

// SetPrices sets purchase and selling prices
func (p *Product) SetPrices(purchasePrice, sellingPrice decimal.Decimal) error {
	if purchasePrice.IsNegative() || sellingPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	p.PurchasePrice = purchasePrice
	p.SellingPrice = sellingPrice
	p.Touch()
	return nil
}

// Update updates the product's descriptive fields
func (p *Product) Update(name, description, unit string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	p.Name = name
	p.Description = description
	if unit != "" {
		p.Unit = unit
	}
	p.Touch()
	return nil
}

// Deactivate marks the product as inactive without removing history
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
}

// StockStatus derives the stock classification from the current snapshot
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.CurrentStock.LessThanOrEqual(decimal.Zero):
		return StockStatusOutOfStock
	case p.CurrentStock.LessThan(p.MinimumStock):
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// IsLowStock reports whether the product is below its minimum stock level
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThan(p.MinimumStock)
}

// Profit returns the unit profit (selling price minus purchase price)
func (p *Product) Profit() decimal.Decimal {
	return p.SellingPrice.Sub(p.PurchasePrice)
}

// MarginPercent returns the profit margin as a percentage of the purchase
// price. Zero purchase price yields a zero margin rather than a division error.
func (p *Product) MarginPercent() decimal.Decimal {
	if p.PurchasePrice.IsZero() {
		return decimal.Zero
	}
	return p.Profit().Div(p.PurchasePrice).Mul(decimal.NewFromInt(100))
}

// StockValue returns the value of current stock at purchase price
func (p *Product) StockValue() decimal.Decimal {
	return p.CurrentStock.Mul(p.PurchasePrice)
}

// CanFulfill reports whether the snapshot covers the requested quantity.
// The authoritative check is the guarded decrement in the repository; this
// is only used for early rejection with a friendly message.
func (p *Product) CanFulfill(quantity decimal.Decimal) bool {
	return p.CurrentStock.GreaterThanOrEqual(quantity)
}
