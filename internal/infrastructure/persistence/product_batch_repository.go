package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/shared"
)

// GormProductBatchRepository implements ProductBatchRepository using GORM
type GormProductBatchRepository struct {
	db *gorm.DB
}

// NewGormProductBatchRepository creates a new GormProductBatchRepository
func NewGormProductBatchRepository(db *gorm.DB) *GormProductBatchRepository {
	return &GormProductBatchRepository{db: db}
}

// FindByID finds a batch by ID
func (r *GormProductBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductBatch, error) {
	var batch inventory.ProductBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByProduct lists batches for a product, newest first
func (r *GormProductBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.ProductBatch, error) {
	var batches []inventory.ProductBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAll lists batches matching the filter
func (r *GormProductBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ProductBatch, error) {
	query := r.db.WithContext(ctx).Model(&inventory.ProductBatch{})

	if productID, ok := filter.Filters["product_id"]; ok {
		query = query.Where("product_id = ?", productID)
	}
	if hasStock, ok := filter.Filters["has_stock"]; ok && hasStock == true {
		query = query.Where("available_quantity > 0")
	}
	if offset, limit, ok := filter.Paged(); ok {
		query = query.Offset(offset).Limit(limit)
	}
	orderBy := ValidateSortField(filter.OrderBy, BatchSortFields, "created_at")

	var batches []inventory.ProductBatch
	if err := query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAvailableByProduct lists batches with stock left, oldest expiry first.
// Batches without an expiry date sort last.
func (r *GormProductBatchRepository) FindAvailableByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.ProductBatch, error) {
	var batches []inventory.ProductBatch
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND available_quantity > 0", productID).
		Order("expiry_date IS NULL, expiry_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpiring lists batches with stock left expiring on or before the horizon
func (r *GormProductBatchRepository) FindExpiring(ctx context.Context, until time.Time) ([]inventory.ProductBatch, error) {
	var batches []inventory.ProductBatch
	if err := r.db.WithContext(ctx).
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND available_quantity > 0", until).
		Order("expiry_date ASC, id ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// ExistsByNumber checks whether the product already has this batch number
func (r *GormProductBatchRepository) ExistsByNumber(ctx context.Context, productID uuid.UUID, batchNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.ProductBatch{}).
		Where("product_id = ? AND batch_number = ?", productID, batchNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a batch
func (r *GormProductBatchRepository) Save(ctx context.Context, batch *inventory.ProductBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Delete removes a batch
func (r *GormProductBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&inventory.ProductBatch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductBatchRepository implements ProductBatchRepository
var _ inventory.ProductBatchRepository = (*GormProductBatchRepository)(nil)
