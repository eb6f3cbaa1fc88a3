package sales

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/inventra/backend/internal/domain/shared"
)

// InvoiceRepository persists invoices with their items
type InvoiceRepository interface {
	// FindByID loads an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindByNumber loads an invoice by its document number
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// FindAll lists invoices matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)

	// FindByDateRange lists invoices whose date falls in [from, to]
	FindByDateRange(ctx context.Context, from, to time.Time) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// GenerateNumber produces the next invoice document number for the given day
	GenerateNumber(ctx context.Context, day time.Time) (string, error)
}
