package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/inventra/backend/internal/application/scope"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/shared"
)

// BatchService manages received lots of batch-managed products.
// Batch quantities and the product stock projection are kept in step: any
// change to a batch's available quantity goes through the ledger.
type BatchService struct {
	scope     scope.TransactionScope
	batchRepo inventory.ProductBatchRepository
}

// NewBatchService creates a new BatchService
func NewBatchService(txScope scope.TransactionScope, batchRepo inventory.ProductBatchRepository) *BatchService {
	return &BatchService{
		scope:     txScope,
		batchRepo: batchRepo,
	}
}

// Create registers a lot and books its quantity into stock
func (s *BatchService) Create(ctx context.Context, actor string, req CreateBatchRequest) (*inventory.ProductBatch, error) {
	var created *inventory.ProductBatch
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		product, err := findActiveProduct(ctx, repos, req.ProductID)
		if err != nil {
			return err
		}
		if !product.HasBatches {
			return shared.NewDomainError("INVALID_STATE", "Product does not track batches")
		}

		exists, err := repos.Batches().ExistsByNumber(ctx, product.ID, req.BatchNumber)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Batch number already exists for this product")
		}

		batch, err := inventory.NewProductBatch(product.ID, req.BatchNumber, req.Quantity, req.ExpiryDate, req.PurchasePrice)
		if err != nil {
			return err
		}
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}
		if err := repos.Products().AddStock(ctx, product.ID, req.Quantity); err != nil {
			return err
		}

		batchID := batch.ID
		entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypeIn, req.Quantity,
			inventory.ReferenceTypeBatch, &batchID, fmt.Sprintf("Batch %s received", batch.BatchNumber), actor)
		if err != nil {
			return err
		}
		if err := repos.StockTransactions().Append(ctx, entry); err != nil {
			return err
		}

		created = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateQuantity applies a signed delta to a batch and mirrors it on the
// product projection with an Adjustment ledger entry
func (s *BatchService) UpdateQuantity(ctx context.Context, actor string, batchID uuid.UUID, req UpdateBatchRequest) (*inventory.ProductBatch, error) {
	if req.QuantityDelta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity delta cannot be zero")
	}

	var updated *inventory.ProductBatch
	err := s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		batch, err := repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		product, err := findActiveProduct(ctx, repos, batch.ProductID)
		if err != nil {
			return err
		}

		if err := batch.AdjustAvailable(req.QuantityDelta); err != nil {
			return err
		}
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}

		if req.QuantityDelta.IsPositive() {
			err = repos.Products().AddStock(ctx, product.ID, req.QuantityDelta)
		} else {
			err = subtractStock(ctx, repos, product, req.QuantityDelta.Neg())
		}
		if err != nil {
			return err
		}

		notes := req.Notes
		if notes == "" {
			notes = fmt.Sprintf("Batch %s quantity adjusted", batch.BatchNumber)
		}
		entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypeAdjustment, req.QuantityDelta,
			inventory.ReferenceTypeBatch, &batch.ID, notes, actor)
		if err != nil {
			return err
		}
		if err := repos.StockTransactions().Append(ctx, entry); err != nil {
			return err
		}

		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a batch and takes its remaining quantity out of stock
func (s *BatchService) Delete(ctx context.Context, actor string, batchID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		batch, err := repos.Batches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		product, err := repos.Products().FindByID(ctx, batch.ProductID)
		if err != nil {
			return err
		}

		if batch.AvailableQuantity.IsPositive() {
			if err := subtractStock(ctx, repos, product, batch.AvailableQuantity); err != nil {
				return err
			}
			entry, err := inventory.NewStockTransaction(product.ID, inventory.TransactionTypeOut, batch.AvailableQuantity,
				inventory.ReferenceTypeBatch, &batch.ID, fmt.Sprintf("Batch %s removed", batch.BatchNumber), actor)
			if err != nil {
				return err
			}
			if err := repos.StockTransactions().Append(ctx, entry); err != nil {
				return err
			}
		}

		return repos.Batches().Delete(ctx, batch.ID)
	})
}

// Get loads a single batch
func (s *BatchService) Get(ctx context.Context, id uuid.UUID) (*inventory.ProductBatch, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Batch with ID %s not found", id)
		}
		return nil, err
	}
	return batch, nil
}

// List lists batches, optionally narrowed to one product
func (s *BatchService) List(ctx context.Context, productID *uuid.UUID, filter shared.Filter) ([]inventory.ProductBatch, error) {
	if productID != nil {
		return s.batchRepo.FindByProduct(ctx, *productID)
	}
	return s.batchRepo.FindAll(ctx, filter)
}

// ListExpiring lists batches with stock left that expire within the horizon
func (s *BatchService) ListExpiring(ctx context.Context, days int) ([]inventory.ProductBatch, error) {
	if days <= 0 {
		days = 30
	}
	until := time.Now().AddDate(0, 0, days)
	return s.batchRepo.FindExpiring(ctx, until)
}
