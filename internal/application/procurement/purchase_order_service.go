package procurement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/application/scope"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/procurement"
	"github.com/inventra/backend/internal/domain/shared"
)

// PurchaseOrderItemRequest is one ordered line
type PurchaseOrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreatePurchaseOrderRequest creates a draft order
type CreatePurchaseOrderRequest struct {
	SupplierName string                     `json:"supplier_name" binding:"required"`
	SupplierInfo string                     `json:"supplier_info"`
	OrderDate    *time.Time                 `json:"order_date"`
	ExpectedDate *time.Time                 `json:"expected_date"`
	Notes        string                     `json:"notes"`
	Items        []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest edits an order while it is still editable.
// Items, when present, replace the existing lines.
type UpdatePurchaseOrderRequest struct {
	SupplierName *string                    `json:"supplier_name"`
	SupplierInfo *string                    `json:"supplier_info"`
	ExpectedDate *time.Time                 `json:"expected_date"`
	Notes        *string                    `json:"notes"`
	Items        []PurchaseOrderItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// UpdateStatusRequest moves an order along its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReceiveItemRequest books arrived quantity against one order line
type ReceiveItemRequest struct {
	ItemID      uuid.UUID       `json:"item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
}

// ReceiveRequest books one delivery against an order
type ReceiveRequest struct {
	ReceivedDate *time.Time           `json:"received_date"`
	Notes        string               `json:"notes"`
	Items        []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
}

// PurchaseOrderList is a page of orders
type PurchaseOrderList struct {
	Items    []procurement.PurchaseOrder `json:"items"`
	Total    int64                       `json:"total"`
	Page     int                         `json:"page"`
	PageSize int                         `json:"page_size"`
}

// PurchaseOrderService handles procurement operations. Receiving goods is
// the only path that moves an order into the receipt-derived states; it
// validates every line before writing anything.
type PurchaseOrderService struct {
	scope     scope.TransactionScope
	orderRepo procurement.PurchaseOrderRepository
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(txScope scope.TransactionScope, orderRepo procurement.PurchaseOrderRepository) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:     txScope,
		orderRepo: orderRepo,
	}
}

func buildItems(reqs []PurchaseOrderItemRequest) ([]procurement.PurchaseOrderItem, error) {
	lines := make([]procurement.PurchaseOrderItem, 0, len(reqs))
	for _, itemReq := range reqs {
		line, err := procurement.NewPurchaseOrderItem(itemReq.ProductID, itemReq.Quantity, itemReq.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Create creates a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, actor string, req CreatePurchaseOrderRequest) (*procurement.PurchaseOrder, error) {
	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	var created *procurement.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		for _, itemReq := range req.Items {
			if _, err := repos.Products().FindByID(ctx, itemReq.ProductID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainErrorf("NOT_FOUND", "Product with ID %s not found", itemReq.ProductID)
				}
				return err
			}
		}

		number, err := repos.PurchaseOrders().GenerateNumber(ctx, orderDate)
		if err != nil {
			return err
		}
		lines, err := buildItems(req.Items)
		if err != nil {
			return err
		}
		order, err := procurement.NewPurchaseOrder(number, req.SupplierName, orderDate, lines)
		if err != nil {
			return err
		}
		order.SupplierInfo = req.SupplierInfo
		order.ExpectedDate = req.ExpectedDate
		order.Notes = req.Notes
		order.CreatedBy = actor

		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get loads an order with its items
func (s *PurchaseOrderService) Get(ctx context.Context, id uuid.UUID) (*procurement.PurchaseOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Purchase order with ID %s not found", id)
		}
		return nil, err
	}
	return order, nil
}

// List lists orders
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) (*PurchaseOrderList, error) {
	items, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderList{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// Update edits an order while it is in Draft or Sent
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, req UpdatePurchaseOrderRequest) (*procurement.PurchaseOrder, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanEdit() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft or sent purchase orders can be edited")
	}

	if req.SupplierName != nil {
		if *req.SupplierName == "" {
			return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
		}
		order.SupplierName = *req.SupplierName
	}
	if req.SupplierInfo != nil {
		order.SupplierInfo = *req.SupplierInfo
	}
	if req.ExpectedDate != nil {
		order.ExpectedDate = req.ExpectedDate
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if len(req.Items) > 0 {
		lines, err := buildItems(req.Items)
		if err != nil {
			return nil, err
		}
		if err := order.ReplaceItems(lines); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the lifecycle. The receipt-derived
// states are reached only through Receive.
func (s *PurchaseOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*procurement.PurchaseOrder, error) {
	target := procurement.PurchaseOrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown purchase order status")
	}
	if target == procurement.PurchaseOrderStatusPartiallyReceived || target == procurement.PurchaseOrderStatusReceived {
		return nil, shared.NewDomainError("INVALID_INPUT", "Receipt statuses are set by receiving goods")
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.TransitionTo(target); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only draft purchase orders can be deleted")
	}
	return s.orderRepo.Delete(ctx, order.ID)
}

// Receive books a delivery: order lines, product stock, the ledger, batch
// intake, and the receipt document all move together or not at all.
func (s *PurchaseOrderService) Receive(ctx context.Context, actor string, orderID uuid.UUID, req ReceiveRequest) (*procurement.GoodsReceipt, error) {
	receivedDate := time.Now()
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	var receipt *procurement.GoodsReceipt
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewDomainErrorf("NOT_FOUND", "Purchase order with ID %s not found", orderID)
			}
			return err
		}
		if !order.Status.CanReceive() {
			return shared.NewDomainErrorf("INVALID_STATE", "Cannot receive goods for a %s purchase order", order.Status)
		}

		itemsByID := make(map[uuid.UUID]*procurement.PurchaseOrderItem, len(order.Items))
		for idx := range order.Items {
			itemsByID[order.Items[idx].ID] = &order.Items[idx]
		}

		// Validate every line before touching anything.
		pending := make(map[uuid.UUID]decimal.Decimal, len(req.Items))
		for _, line := range req.Items {
			item, ok := itemsByID[line.ItemID]
			if !ok {
				return shared.NewDomainErrorf("NOT_FOUND", "Purchase order item %s not found", line.ItemID)
			}
			if !line.Quantity.IsPositive() {
				return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
			}
			already := pending[line.ItemID]
			if item.ReceivedQuantity.Add(already).Add(line.Quantity).GreaterThan(item.Quantity) {
				return shared.NewDomainError("INVALID_INPUT",
					fmt.Sprintf("Received quantity exceeds ordered quantity for item %s", line.ItemID))
			}
			pending[line.ItemID] = already.Add(line.Quantity)
		}

		number, err := repos.GoodsReceipts().GenerateNumber(ctx, receivedDate)
		if err != nil {
			return err
		}
		receiptDoc, err := procurement.NewGoodsReceipt(number, order.ID, receivedDate, actor)
		if err != nil {
			return err
		}
		receiptDoc.Notes = req.Notes

		for _, line := range req.Items {
			item := itemsByID[line.ItemID]
			if err := item.AddReceived(line.Quantity); err != nil {
				return err
			}

			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if err := repos.Products().AddStock(ctx, product.ID, line.Quantity); err != nil {
				return err
			}

			refID := order.ID
			entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypeIn, line.Quantity,
				inventory.ReferenceTypeGoodsReceipt, &refID,
				fmt.Sprintf("Goods receipt from PO %s", order.PONumber), actor)
			if err != nil {
				return err
			}
			if err := repos.StockTransactions().Append(ctx, entry); err != nil {
				return err
			}

			if line.BatchNumber != "" && product.HasBatches {
				exists, err := repos.Batches().ExistsByNumber(ctx, product.ID, line.BatchNumber)
				if err != nil {
					return err
				}
				if exists {
					return shared.NewDomainError("ALREADY_EXISTS", "Batch number already exists for this product")
				}
				batch, err := inventory.NewProductBatch(product.ID, line.BatchNumber, line.Quantity, line.ExpiryDate, product.PurchasePrice)
				if err != nil {
					return err
				}
				if err := repos.Batches().Save(ctx, batch); err != nil {
					return err
				}
			}

			if err := receiptDoc.AddItem(item.ID, product.ID, line.Quantity, line.BatchNumber, line.ExpiryDate); err != nil {
				return err
			}
		}

		if err := repos.GoodsReceipts().Save(ctx, receiptDoc); err != nil {
			return err
		}

		order.RecomputeStatus()
		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return err
		}

		receipt = receiptDoc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Stats returns the number of orders per status
func (s *PurchaseOrderService) Stats(ctx context.Context) (map[procurement.PurchaseOrderStatus]int64, error) {
	return s.orderRepo.CountByStatus(ctx)
}
