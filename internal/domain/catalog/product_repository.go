package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindLowStock finds active products whose stock is below minimum
	FindLowStock(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsBySKU checks if a product with the given SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// AddStock unconditionally increases the stock projection
	AddStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error

	// SubtractStock decreases the stock projection with a guard that the
	// remaining stock stays non-negative. Returns ErrInsufficientStock when
	// the guard fails; under concurrency at most one caller wins the last
	// covering quantity.
	SubtractStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error

	// SetStock overwrites the stock projection, used by adjustments
	SetStock(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
}
