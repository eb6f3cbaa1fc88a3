package report

import (
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/sales"
)

// StockSummary aggregates a product snapshot
type StockSummary struct {
	TotalProducts  int             `json:"total_products"`
	ActiveProducts int             `json:"active_products"`
	TotalValue     decimal.Decimal `json:"total_value"`
	LowStockCount  int             `json:"low_stock_count"`
	OutOfStock     int             `json:"out_of_stock_count"`
}

// SummarizeStock computes the stock summary over a product snapshot.
// Stock is valued at purchase price. Inactive products are counted but do
// not contribute to value or alerts.
func SummarizeStock(products []catalog.Product) StockSummary {
	summary := StockSummary{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
	}
	for idx := range products {
		p := &products[idx]
		if !p.IsActive {
			continue
		}
		summary.ActiveProducts++
		summary.TotalValue = summary.TotalValue.Add(p.StockValue())
		switch p.StockStatus() {
		case catalog.StockStatusOutOfStock:
			summary.OutOfStock++
		case catalog.StockStatusLowStock:
			summary.LowStockCount++
		}
	}
	return summary
}

// SalesStats aggregates an invoice snapshot
type SalesStats struct {
	InvoiceCount  int             `json:"invoice_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	UnpaidAmount  decimal.Decimal `json:"unpaid_amount"`
	PaidInvoices  int             `json:"paid_invoices"`
	UnpaidCount   int             `json:"unpaid_invoices"`
	AverageAmount decimal.Decimal `json:"average_amount"`
}

// SummarizeSales computes revenue statistics over an invoice snapshot
func SummarizeSales(invoices []sales.Invoice) SalesStats {
	stats := SalesStats{
		TotalRevenue:  decimal.Zero,
		PaidAmount:    decimal.Zero,
		UnpaidAmount:  decimal.Zero,
		AverageAmount: decimal.Zero,
	}
	for idx := range invoices {
		inv := &invoices[idx]
		stats.InvoiceCount++
		stats.TotalRevenue = stats.TotalRevenue.Add(inv.TotalAmount)
		if inv.PaymentStatus == sales.PaymentStatusPaid {
			stats.PaidInvoices++
			stats.PaidAmount = stats.PaidAmount.Add(inv.TotalAmount)
		} else {
			stats.UnpaidCount++
			stats.UnpaidAmount = stats.UnpaidAmount.Add(inv.TotalAmount)
		}
	}
	if stats.InvoiceCount > 0 {
		stats.AverageAmount = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.InvoiceCount)))
	}
	return stats
}
