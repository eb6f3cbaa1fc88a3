package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/inventra/backend/internal/domain/catalog"
	"github.com/inventra/backend/internal/domain/inventory"
	"github.com/inventra/backend/internal/domain/shared"
)

// CreateProductRequest registers a new product
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	MinimumStock  decimal.Decimal `json:"minimum_stock"`
	HasBatches    bool            `json:"has_batches"`
}

// UpdateProductRequest carries optional field updates; nil means unchanged
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Unit          *string          `json:"unit"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MinimumStock  *decimal.Decimal `json:"minimum_stock"`
	IsActive      *bool            `json:"is_active"`
}

// ListProductsRequest filters the product list
type ListProductsRequest struct {
	Search      string `form:"search"`
	StockStatus string `form:"stock_status" binding:"omitempty,oneof=in_stock low_stock out_of_stock"`
	ActiveOnly  bool   `form:"active_only"`
	Page        int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ProductList is a page of products
type ProductList struct {
	Items    []catalog.Product `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ProductService handles product catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	txRepo      inventory.StockTransactionRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, txRepo inventory.StockTransactionRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		txRepo:      txRepo,
	}
}

// Create registers a new product with zero stock
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	exists, err := s.productRepo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Product with SKU %s already exists", sku)
	}

	product, err := catalog.NewProduct(req.SKU, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.HasBatches = req.HasBatches
	if err := product.SetPrices(req.PurchasePrice, req.SellingPrice); err != nil {
		return nil, err
	}
	if req.MinimumStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Minimum stock cannot be negative")
	}
	product.MinimumStock = req.MinimumStock

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Get loads a product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainErrorf("NOT_FOUND", "Product with ID %s not found", id)
		}
		return nil, err
	}
	return product, nil
}

// Update applies the provided fields to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := product.Name
	description := product.Description
	unit := product.Unit
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if err := product.Update(name, description, unit); err != nil {
		return nil, err
	}

	purchase := product.PurchasePrice
	selling := product.SellingPrice
	if req.PurchasePrice != nil {
		purchase = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		selling = *req.SellingPrice
	}
	if err := product.SetPrices(purchase, selling); err != nil {
		return nil, err
	}

	if req.MinimumStock != nil {
		if req.MinimumStock.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Minimum stock cannot be negative")
		}
		product.MinimumStock = *req.MinimumStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product. Products already referenced by the ledger are
// deactivated instead, so history stays intact.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	_, total, err := s.txRepo.FindAll(ctx, inventory.TransactionFilter{
		ProductID: &product.ID,
		Page:      1,
		PageSize:  1,
	})
	if err != nil {
		return err
	}
	if total > 0 {
		product.Deactivate()
		return s.productRepo.Save(ctx, product)
	}
	return s.productRepo.Delete(ctx, product.ID)
}

// List lists products with search and stock-status filtering
func (s *ProductService) List(ctx context.Context, req ListProductsRequest) (*ProductList, error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	if req.ActiveOnly {
		filter = filter.WithFilter("is_active", true)
	}
	if req.StockStatus != "" {
		filter = filter.WithFilter("stock_status", req.StockStatus)
	}

	items, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ProductList{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// ListLowStock lists active products below their minimum stock level
func (s *ProductService) ListLowStock(ctx context.Context) ([]catalog.Product, error) {
	return s.productRepo.FindLowStock(ctx)
}
