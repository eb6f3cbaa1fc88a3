package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/shared"
)

func saveBatch(t *testing.T, db *gorm.DB, productID uuid.UUID, number string, quantity int64, expiry *time.Time) *inventory.ProductBatch {
	t.Helper()

	batch, err := inventory.NewProductBatch(productID, number, decimal.NewFromInt(quantity), expiry, decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, db.Create(batch).Error)
	return batch
}

func TestGormProductBatchRepository_ExistsByNumber(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductBatchRepository(db)
	ctx := context.Background()

	productA := createTestProduct(t, db, "BAT-A", decimal.NewFromInt(10))
	productB := createTestProduct(t, db, "BAT-B", decimal.NewFromInt(10))
	saveBatch(t, db, productA.ID, "LOT-2026-01", 10, nil)

	exists, err := repo.ExistsByNumber(ctx, productA.ID, "LOT-2026-01")
	require.NoError(t, err)
	assert.True(t, exists)

	// Batch numbers are scoped per product
	exists, err = repo.ExistsByNumber(ctx, productB.ID, "LOT-2026-01")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormProductBatchRepository_FindExpiring(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductBatchRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "BAT-EXP", decimal.NewFromInt(100))
	now := time.Now()
	soon := now.AddDate(0, 0, 7)
	far := now.AddDate(0, 1, 0)

	saveBatch(t, db, product.ID, "LOT-SOON", 10, &soon)
	saveBatch(t, db, product.ID, "LOT-FAR", 10, &far)
	saveBatch(t, db, product.ID, "LOT-NOEXP", 10, nil)
	drained := saveBatch(t, db, product.ID, "LOT-EMPTY", 10, &soon)
	require.NoError(t, drained.Consume(decimal.NewFromInt(10)))
	require.NoError(t, repo.Save(ctx, drained))

	batches, err := repo.FindExpiring(ctx, now.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "LOT-SOON", batches[0].BatchNumber)

	t.Run("equal expiry dates order by batch id", func(t *testing.T) {
		sameDay := now.AddDate(0, 0, 3)
		tieA := saveBatch(t, db, product.ID, "LOT-TIE-A", 10, &sameDay)
		tieB := saveBatch(t, db, product.ID, "LOT-TIE-B", 10, &sameDay)

		wantFirst, wantSecond := tieA.ID, tieB.ID
		if wantSecond.String() < wantFirst.String() {
			wantFirst, wantSecond = wantSecond, wantFirst
		}

		batches, err := repo.FindExpiring(ctx, now.AddDate(0, 0, 5))
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, wantFirst, batches[0].ID)
		assert.Equal(t, wantSecond, batches[1].ID)
	})
}

func TestGormProductBatchRepository_FindAvailableByProduct(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductBatchRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "BAT-AVL", decimal.NewFromInt(100))
	now := time.Now()
	early := now.AddDate(0, 0, 3)
	late := now.AddDate(0, 0, 30)

	saveBatch(t, db, product.ID, "LOT-LATE", 10, &late)
	saveBatch(t, db, product.ID, "LOT-EARLY", 10, &early)
	saveBatch(t, db, product.ID, "LOT-NOEXP", 10, nil)
	empty := saveBatch(t, db, product.ID, "LOT-EMPTY", 10, &early)
	require.NoError(t, empty.Consume(decimal.NewFromInt(10)))
	require.NoError(t, repo.Save(ctx, empty))

	batches, err := repo.FindAvailableByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Equal(t, "LOT-EARLY", batches[0].BatchNumber)
	assert.Equal(t, "LOT-LATE", batches[1].BatchNumber)
	assert.Equal(t, "LOT-NOEXP", batches[2].BatchNumber)
}

func TestGormProductBatchRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductBatchRepository(db)
	ctx := context.Background()

	productA := createTestProduct(t, db, "BAT-F1", decimal.NewFromInt(10))
	productB := createTestProduct(t, db, "BAT-F2", decimal.NewFromInt(10))
	saveBatch(t, db, productA.ID, "LOT-A1", 10, nil)
	drained := saveBatch(t, db, productA.ID, "LOT-A2", 10, nil)
	require.NoError(t, drained.Consume(decimal.NewFromInt(10)))
	require.NoError(t, repo.Save(ctx, drained))
	saveBatch(t, db, productB.ID, "LOT-B1", 10, nil)

	t.Run("filters by product", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_id"] = productA.ID
		batches, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, batches, 2)
	})

	t.Run("filters out drained batches", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["product_id"] = productA.ID
		filter.Filters["has_stock"] = true
		batches, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, "LOT-A1", batches[0].BatchNumber)
	})
}

func TestGormProductBatchRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductBatchRepository(db)
	ctx := context.Background()

	product := createTestProduct(t, db, "BAT-DEL", decimal.NewFromInt(10))
	batch := saveBatch(t, db, product.ID, "LOT-DEL", 10, nil)

	require.NoError(t, repo.Delete(ctx, batch.ID))
	_, err := repo.FindByID(ctx, batch.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, batch.ID), shared.ErrNotFound)
}
