package report

import (
	"context"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/report"
	"github.com/inventra/backend/internal/domain/shared"
)

// ReportService produces read-only aggregations over current snapshots
type ReportService struct {
	productRepo catalog.ProductRepository
}

// NewReportService creates a new ReportService
func NewReportService(productRepo catalog.ProductRepository) *ReportService {
	return &ReportService{productRepo: productRepo}
}

// StockSummary aggregates the whole product catalog
func (s *ReportService) StockSummary(ctx context.Context) (*report.StockSummary, error) {
	filter := shared.DefaultFilter()
	filter.Page = 1
	filter.PageSize = -1 // unpaged snapshot
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary := report.SummarizeStock(products)
	return &summary, nil
}
