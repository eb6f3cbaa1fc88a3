package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/application/scope"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/report"
	"github.com/inventra/backend/internal/domain/sales"
	"github.com/inventra/backend/internal/domain/shared"
)

// InvoiceItemRequest is one line of a sale. BatchID is required to draw the
// sale from a specific lot; there is no automatic batch picking.
type InvoiceItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	BatchID   *uuid.UUID       `json:"batch_id"`
}

// CreateInvoiceRequest creates and fulfills a sale in one step
type CreateInvoiceRequest struct {
	CustomerName   string               `json:"customer_name"`
	CustomerInfo   string               `json:"customer_info"`
	InvoiceDate    *time.Time           `json:"invoice_date"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	TaxAmount      decimal.Decimal      `json:"tax_amount"`
	Notes          string               `json:"notes"`
}

// UpdatePaymentRequest updates an invoice's settlement state
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=Paid Unpaid"`
}

// InvoiceList is a page of invoices
type InvoiceList struct {
	Items    []sales.Invoice `json:"items"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// InvoiceService fulfills sales. Creating an invoice decrements stock with
// the guarded subtract, consumes named batches, and appends one Out ledger
// entry per line, all inside a single transaction. Any failure rolls the
// whole sale back, including the generated invoice number.
type InvoiceService struct {
	scope       scope.TransactionScope
	invoiceRepo sales.InvoiceRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(txScope scope.TransactionScope, invoiceRepo sales.InvoiceRepository) *InvoiceService {
	return &InvoiceService{
		scope:       txScope,
		invoiceRepo: invoiceRepo,
	}
}

// Create fulfills a sale
func (s *InvoiceService) Create(ctx context.Context, actor string, req CreateInvoiceRequest) (*sales.Invoice, error) {
	invoiceDate := time.Now()
	if req.InvoiceDate != nil {
		invoiceDate = *req.InvoiceDate
	}

	var created *sales.Invoice
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		number, err := repos.Invoices().GenerateNumber(ctx, invoiceDate)
		if err != nil {
			return err
		}

		lines := make([]sales.InvoiceItem, 0, len(req.Items))
		for _, itemReq := range req.Items {
			product, err := repos.Products().FindByID(ctx, itemReq.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainErrorf("NOT_FOUND", "Product with ID %s not found", itemReq.ProductID)
				}
				return err
			}
			if !product.IsActive {
				return shared.NewDomainErrorf("INVALID_STATE", "Product %s is inactive", product.SKU)
			}

			unitPrice := product.SellingPrice
			if itemReq.UnitPrice != nil {
				unitPrice = *itemReq.UnitPrice
			}
			line, err := sales.NewInvoiceItem(product.ID, itemReq.Quantity, unitPrice)
			if err != nil {
				return err
			}
			line.BatchID = itemReq.BatchID
			lines = append(lines, line)

			if err := repos.Products().SubtractStock(ctx, product.ID, itemReq.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						fmt.Sprintf("Insufficient stock. Available: %s, Requested: %s", product.CurrentStock, itemReq.Quantity))
				}
				return err
			}

			if itemReq.BatchID != nil {
				batch, err := repos.Batches().FindByID(ctx, *itemReq.BatchID)
				if err != nil {
					return err
				}
				if batch.ProductID != product.ID {
					return shared.NewDomainError("INVALID_INPUT", "Batch does not belong to this product")
				}
				if err := batch.Consume(itemReq.Quantity); err != nil {
					return err
				}
				if err := repos.Batches().Save(ctx, batch); err != nil {
					return err
				}
			}
		}

		invoice, err := sales.NewInvoice(number, req.CustomerName, invoiceDate, lines, req.DiscountAmount, req.TaxAmount)
		if err != nil {
			return err
		}
		invoice.CustomerInfo = req.CustomerInfo
		invoice.Notes = req.Notes
		invoice.CreatedBy = actor
		if err := repos.Invoices().Save(ctx, invoice); err != nil {
			return err
		}

		for idx := range invoice.Items {
			invoiceID := invoice.ID
			entry, err := inventory.NewStockTransaction(invoice.Items[idx].ProductID, inventory.TransactionTypeOut,
				invoice.Items[idx].Quantity, inventory.ReferenceTypeInvoice, &invoiceID,
				fmt.Sprintf("Sale %s", invoice.InvoiceNumber), actor)
			if err != nil {
				return err
			}
			if err := repos.StockTransactions().Append(ctx, entry); err != nil {
				return err
			}
		}

		created = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get loads an invoice with its items
func (s *InvoiceService) Get(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Invoice with ID %s not found", id)
		}
		return nil, err
	}
	return invoice, nil
}

// List lists invoices
func (s *InvoiceService) List(ctx context.Context, filter shared.Filter) (*InvoiceList, error) {
	items, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &InvoiceList{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// UpdatePaymentStatus updates the settlement state of an invoice
func (s *InvoiceService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req UpdatePaymentRequest) (*sales.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.SetPaymentStatus(sales.PaymentStatus(req.PaymentStatus)); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete removes an invoice and compensates the ledger: every sold line is
// booked back in with an In entry and named batches are restored.
func (s *InvoiceService) Delete(ctx context.Context, actor string, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		invoice, err := repos.Invoices().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainErrorf("NOT_FOUND", "Invoice with ID %s not found", id)
			}
			return err
		}

		for idx := range invoice.Items {
			item := &invoice.Items[idx]
			if err := repos.Products().AddStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			invoiceID := invoice.ID
			entry, err := inventory.NewStockTransaction(item.ProductID, inventory.TransactionTypeIn, item.Quantity,
				inventory.ReferenceTypeInvoice, &invoiceID,
				fmt.Sprintf("Invoice %s deleted", invoice.InvoiceNumber), actor)
			if err != nil {
				return err
			}
			if err := repos.StockTransactions().Append(ctx, entry); err != nil {
				return err
			}

			if item.BatchID != nil {
				batch, err := repos.Batches().FindByID(ctx, *item.BatchID)
				if err != nil {
					if errors.Is(err, shared.ErrNotFound) {
						continue
					}
					return err
				}
				if err := batch.Restore(item.Quantity); err != nil {
					return err
				}
				if err := repos.Batches().Save(ctx, batch); err != nil {
					return err
				}
			}
		}

		return repos.Invoices().Delete(ctx, invoice.ID)
	})
}

// Stats aggregates invoices in [from, to] into revenue statistics
func (s *InvoiceService) Stats(ctx context.Context, from, to time.Time) (*report.SalesStats, error) {
	invoices, err := s.invoiceRepo.FindByDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	stats := report.SummarizeSales(invoices)
	return &stats, nil
}
