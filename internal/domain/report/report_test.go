package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/sales"
)

func TestSummarizeStock(t *testing.T) {
	mk := func(stock, minimum, price int64, active bool) catalog.Product {
		p, err := catalog.NewProduct("SKU-X", "X", "pcs")
		require.NoError(t, err)
		p.CurrentStock = decimal.NewFromInt(stock)
		p.MinimumStock = decimal.NewFromInt(minimum)
		p.PurchasePrice = decimal.NewFromInt(price)
		p.IsActive = active
		return *p
	}

	products := []catalog.Product{
		mk(10, 5, 2, true),  // in stock, value 20
		mk(3, 5, 4, true),   // low stock, value 12
		mk(0, 5, 9, true),   // out of stock
		mk(100, 5, 1, false), // inactive, ignored
	}

	summary := SummarizeStock(products)
	assert.Equal(t, 4, summary.TotalProducts)
	assert.Equal(t, 3, summary.ActiveProducts)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(32)))
	assert.Equal(t, 1, summary.LowStockCount)
	assert.Equal(t, 1, summary.OutOfStock)
}

func TestSummarizeSales(t *testing.T) {
	mk := func(total int64, status sales.PaymentStatus) sales.Invoice {
		item, err := sales.NewInvoiceItem(uuid.New(),decimal.NewFromInt(1), decimal.NewFromInt(total))
		require.NoError(t, err)
		inv, err := sales.NewInvoice("INV-T", "C", time.Now(), []sales.InvoiceItem{item}, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		inv.PaymentStatus = status
		return *inv
	}

	invoices := []sales.Invoice{
		mk(100, sales.PaymentStatusPaid),
		mk(50, sales.PaymentStatusUnpaid),
		mk(30, sales.PaymentStatusUnpaid),
	}

	stats := SummarizeSales(invoices)
	assert.Equal(t, 3, stats.InvoiceCount)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(180)))
	assert.True(t, stats.PaidAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.UnpaidAmount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 1, stats.PaidInvoices)
	assert.Equal(t, 2, stats.UnpaidCount)
	assert.True(t, stats.AverageAmount.Equal(decimal.NewFromInt(60)))
}

func TestSummarizeSalesEmpty(t *testing.T) {
	stats := SummarizeSales(nil)
	assert.Equal(t, 0, stats.InvoiceCount)
	assert.True(t, stats.AverageAmount.IsZero())
}
