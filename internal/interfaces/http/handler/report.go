package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/inventra/backend/internal/application/report"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// StockSummary returns inventory totals and alert counts
func (h *ReportHandler) StockSummary(c *gin.Context) {
	summary, err := h.reportService.StockSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
