package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/inventra/backend/internal/application/inventory"
)

// StockHandler handles stock movement endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// StockIn records a manual stock receipt
func (h *StockHandler) StockIn(c *gin.Context) {
	var req inventoryapp.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.stockService.StockIn(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// StockOut records a manual stock issue
func (h *StockHandler) StockOut(c *gin.Context) {
	var req inventoryapp.StockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.stockService.StockOut(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Adjust reconciles a product's stock to a counted quantity
func (h *StockHandler) Adjust(c *gin.Context) {
	var req inventoryapp.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.stockService.Adjust(c.Request.Context(), getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListTransactions returns a filtered page of the stock ledger
func (h *StockHandler) ListTransactions(c *gin.Context) {
	var req inventoryapp.TransactionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	list, err := h.stockService.ListTransactions(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list.Items, list.Total, list.Page, list.PageSize)
}
