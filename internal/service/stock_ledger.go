package service

import (
	"context"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/repository"
)

// StockLedger is the only writer of Product.Stock after creation. Callers run
// it inside the unit of work that also appends the originating sale or purchase.
type StockLedger interface {
	Decrement(ctx context.Context, productName string, qty int) (*model.Product, error)
	Increment(ctx context.Context, productName string, qty int) (*model.Product, error)
}

type stockLedger struct {
	products repository.Collection[model.Product]
}

func NewStockLedger(products repository.Collection[model.Product]) StockLedger {
	return &stockLedger{products: products}
}

func (l *stockLedger) Decrement(ctx context.Context, productName string, qty int) (*model.Product, error) {
	return l.adjust(ctx, productName, qty, func(p *model.Product) error {
		if qty > p.Stock {
			return apperr.InsufficientStock(p.Name, p.Stock, qty)
		}
		p.Stock -= qty
		return nil
	})
}

func (l *stockLedger) Increment(ctx context.Context, productName string, qty int) (*model.Product, error) {
	return l.adjust(ctx, productName, qty, func(p *model.Product) error {
		p.Stock += qty
		return nil
	})
}

func (l *stockLedger) adjust(ctx context.Context, productName string, qty int, apply func(*model.Product) error) (*model.Product, error) {
	if qty <= 0 {
		return nil, apperr.Validation("quantity must be greater than zero")
	}
	p, err := l.products.FirstBy(ctx, "name", productName)
	if err != nil {
		return nil, err
	}
	// Update re-reads the row (FOR UPDATE on postgres) and stamps last_updated
	return l.products.Update(ctx, p.ID, apply)
}
