package service

import (
	"context"
	"errors"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DTOs
type CreateProductRequest struct {
	ID        string          `json:"id"`
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock" binding:"min=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateProductRequest has no stock field: stock only moves through sales and purchases.
type UpdateProductRequest struct {
	Name      string          `json:"name" binding:"required"`
	Category  string          `json:"category"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type InventoryService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
}

type inventoryService struct {
	products  repository.Collection[model.Product]
	txManager repository.TransactionManager
	now       Clock
	log       *zap.Logger
}

func NewInventoryService(
	products repository.Collection[model.Product],
	txManager repository.TransactionManager,
	now Clock,
	log *zap.Logger,
) InventoryService {
	return &inventoryService{
		products:  products,
		txManager: txManager,
		now:       orNow(now),
		log:       log.Named("inventory"),
	}
}

func (s *inventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.products.All(ctx)
}

func (s *inventoryService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *inventoryService) CreateProduct(ctx context.Context, req CreateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := requireNonNegative("unit_price", req.UnitPrice); err != nil {
		return nil, err
	}

	product := &model.Product{
		ID:          keyOrNew(req.ID, model.PrefixProduct),
		Name:        req.Name,
		Category:    req.Category,
		Stock:       req.Stock,
		UnitPrice:   req.UnitPrice,
		LastUpdated: model.Today(s.now()),
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameFree(txCtx, product.Name, ""); err != nil {
			return err
		}
		return s.products.Append(txCtx, product)
	}, model.TableProducts)
	if err != nil {
		return nil, err
	}

	s.log.Info("product created", zap.String("id", product.ID), zap.String("name", product.Name), zap.Int("stock", product.Stock))
	return product, nil
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := requireNonNegative("unit_price", req.UnitPrice); err != nil {
		return nil, err
	}

	var updated *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameFree(txCtx, req.Name, id); err != nil {
			return err
		}
		p, err := s.products.Update(txCtx, id, func(p *model.Product) error {
			p.Name = req.Name
			p.Category = req.Category
			p.UnitPrice = req.UnitPrice
			return nil
		})
		updated = p
		return err
	}, model.TableProducts)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.products.Remove(txCtx, id)
	}, model.TableProducts)
}

// LowStock lists products whose stock is at or below threshold
func (s *inventoryService) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	return s.products.Find(ctx, func(p model.Product) bool {
		return p.Stock <= threshold
	})
}

// ensureNameFree rejects a product name already used by another product.
// Sales and purchases reference products by name, so names are unique.
func (s *inventoryService) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := s.products.FirstBy(ctx, "name", name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return apperr.DuplicateKey("product name", name)
}
