package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/application/scope"
	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/shared"
)

// StockService records manual stock movements against the ledger.
// Every movement mutates the product projection and appends exactly one
// ledger entry inside a single database transaction.
type StockService struct {
	scope  scope.TransactionScope
	txRepo inventory.StockTransactionRepository
}

// NewStockService creates a new StockService
func NewStockService(txScope scope.TransactionScope, txRepo inventory.StockTransactionRepository) *StockService {
	return &StockService{
		scope:  txScope,
		txRepo: txRepo,
	}
}

// StockIn records incoming stock
func (s *StockService) StockIn(ctx context.Context, actor string, req StockMovementRequest) (*MovementResult, error) {
	var result MovementResult
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		product, err := findActiveProduct(ctx, repos, req.ProductID)
		if err != nil {
			return err
		}

		entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypeIn, req.Quantity, inventory.ReferenceTypeManual, nil, req.Notes, actor)
		if err != nil {
			return err
		}
		if err := repos.Products().AddStock(ctx, product.ID, req.Quantity); err != nil {
			return err
		}
		if err := repos.StockTransactions().Append(ctx, entry); err != nil {
			return err
		}

		result.Transaction = entry
		result.NewStock = product.CurrentStock.Add(req.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// StockOut records outgoing stock. The guarded decrement ensures the
// projection never goes negative; under concurrent requests for the last
// units exactly one caller succeeds.
func (s *StockService) StockOut(ctx context.Context, actor string, req StockMovementRequest) (*MovementResult, error) {
	var result MovementResult
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		product, err := findActiveProduct(ctx, repos, req.ProductID)
		if err != nil {
			return err
		}

		entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypeOut, req.Quantity, inventory.ReferenceTypeManual, nil, req.Notes, actor)
		if err != nil {
			return err
		}
		if err := subtractStock(ctx, repos, product, req.Quantity); err != nil {
			return err
		}
		if err := repos.StockTransactions().Append(ctx, entry); err != nil {
			return err
		}

		result.Transaction = entry
		result.NewStock = product.CurrentStock.Sub(req.Quantity)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Adjust reconciles the projection with a counted quantity. The ledger
// entry records the signed delta between the count and the projection.
func (s *StockService) Adjust(ctx context.Context, actor string, req StockAdjustmentRequest) (*MovementResult, error) {
	if req.NewQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}

	var result MovementResult
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		product, err := findActiveProduct(ctx, repos, req.ProductID)
		if err != nil {
			return err
		}

		entry, err := inventory.NewAdjustment(product.ID, product.CurrentStock, req.NewQuantity, req.Notes, actor)
		if err != nil {
			return err
		}
		if err := repos.Products().SetStock(ctx, product.ID, req.NewQuantity); err != nil {
			return err
		}
		if err := repos.StockTransactions().Append(ctx, entry); err != nil {
			return err
		}

		result.Transaction = entry
		result.NewStock = req.NewQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTransactions lists ledger entries, newest first
func (s *StockService) ListTransactions(ctx context.Context, req TransactionListRequest) (*TransactionList, error) {
	filter := inventory.TransactionFilter{
		ProductID: req.ProductID,
		From:      req.From,
		To:        req.To,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if req.Type != "" {
		txType := inventory.TransactionType(req.Type)
		if !txType.IsValid() {
			return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
		}
		filter.Type = &txType
	}
	if req.ReferenceType != "" {
		refType := inventory.ReferenceType(req.ReferenceType)
		filter.ReferenceType = &refType
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	items, total, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &TransactionList{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

func findActiveProduct(ctx context.Context, repos scope.TransactionalRepositories, id uuid.UUID) (*catalog.Product, error) {
	product, err := repos.Products().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Product with ID %s not found", id)
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is inactive")
	}
	return product, nil
}

// subtractStock performs the guarded decrement and rewrites the generic
// insufficient-stock failure with the snapshot quantities.
func subtractStock(ctx context.Context, repos scope.TransactionalRepositories, product *catalog.Product, quantity decimal.Decimal) error {
	if err := repos.Products().SubtractStock(ctx, product.ID, quantity); err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
				"Insufficient stock. Available: %s, Requested: %s", product.CurrentStock, quantity)
		}
		return err
	}
	return nil
}
