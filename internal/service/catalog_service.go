package service

import (
	"context"
	"fmt"
	"strings"

	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/pkg/logger"
	"go-pos-inventory/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   *string         `json:"description"`
	Barcode       *string         `json:"barcode"`
	Category      *string         `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0"`
}

type CatalogService interface {
	CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
	GetProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(pRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: pRepo}
}

func (s *catalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*model.Product, error) {
	normalizeProductRequest(req)
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", validator.ErrValidation)
	}

	if req.Barcode != nil {
		exists, err := s.productRepo.BarcodeExists(ctx, *req.Barcode, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrDuplicateBarcode
		}
	}

	product := &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		Barcode:       req.Barcode,
		Category:      req.Category,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		IsActive:      true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Get().Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
	)
	return product, nil
}

// UpdateProduct edits catalog fields. Stock is deliberately not writable
// here: quantity only changes through sales and the inventory adjuster, so
// every change lands in the movement ledger.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest) (*model.Product, error) {
	normalizeProductRequest(req)
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", validator.ErrValidation)
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Barcode != nil {
		exists, err := s.productRepo.BarcodeExists(ctx, *req.Barcode, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrDuplicateBarcode
		}
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Barcode = req.Barcode
	product.Category = req.Category
	product.Price = req.Price
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeactivateProduct is the soft delete: the row stays (history references
// it), the flag flips. Blocked while any pending transaction still holds a
// line for the product.
func (s *catalogService) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	referenced, err := s.productRepo.HasPendingReferences(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return model.ErrProductReferenced
	}

	product.IsActive = false
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}

	logger.Get().Info("product deactivated", zap.String("product_id", id.String()))
	return nil
}

func (s *catalogService) GetProducts(ctx context.Context, filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(ctx, filter)
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, model.ErrNotFound
	}
	return s.productRepo.FindActiveByBarcode(ctx, barcode)
}

func normalizeProductRequest(req *ProductRequest) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Barcode != nil {
		trimmed := strings.TrimSpace(*req.Barcode)
		if trimmed == "" {
			req.Barcode = nil
		} else {
			req.Barcode = &trimmed
		}
	}
	if req.Category != nil {
		trimmed := strings.TrimSpace(*req.Category)
		if trimmed == "" {
			req.Category = nil
		} else {
			req.Category = &trimmed
		}
	}
}
