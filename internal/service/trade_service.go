package service

import (
	"context"

	"bizledger/internal/model"
	"bizledger/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RecordSaleRequest struct {
	InvoiceID   string `json:"invoice_id"`
	Customer    string `json:"customer" binding:"required"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	Date        string `json:"date" binding:"omitempty,isodate"`
}

type RecordPurchaseRequest struct {
	POID        string          `json:"po_id"`
	Supplier    string          `json:"supplier" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	Cost        decimal.Decimal `json:"cost"`
	Date        string          `json:"date" binding:"omitempty,isodate"`
}

// StockEvent is published whenever a product's stock moves
type StockEvent struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
}

// TradeService records sales and purchases. Each record and its stock
// movement commit together or not at all.
type TradeService interface {
	RecordSale(ctx context.Context, req RecordSaleRequest) (*model.Sale, error)
	ListSales(ctx context.Context) ([]model.Sale, error)
	RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*model.Purchase, error)
	ListPurchases(ctx context.Context) ([]model.Purchase, error)
}

type tradeService struct {
	sales     repository.Collection[model.Sale]
	purchases repository.Collection[model.Purchase]
	stock     StockLedger
	txManager repository.TransactionManager
	events    EventPublisher
	now       Clock
	log       *zap.Logger
}

func NewTradeService(
	sales repository.Collection[model.Sale],
	purchases repository.Collection[model.Purchase],
	stock StockLedger,
	txManager repository.TransactionManager,
	events EventPublisher,
	now Clock,
	log *zap.Logger,
) TradeService {
	return &tradeService{
		sales:     sales,
		purchases: purchases,
		stock:     stock,
		txManager: txManager,
		events:    events,
		now:       orNow(now),
		log:       log.Named("trade"),
	}
}

func (s *tradeService) RecordSale(ctx context.Context, req RecordSaleRequest) (*model.Sale, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	date, err := dateOrToday(req.Date, s.now)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		InvoiceID:   keyOrNew(req.InvoiceID, model.PrefixSale),
		Customer:    req.Customer,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Date:        date,
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.stock.Decrement(txCtx, req.ProductName, req.Quantity)
		if err != nil {
			return err
		}
		product = p
		sale.Total = p.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
		return s.sales.Append(txCtx, sale)
	}, model.TableProducts, model.TableSales)
	if err != nil {
		s.log.Warn("sale rejected", zap.String("product", req.ProductName), zap.Int("quantity", req.Quantity), zap.Error(err))
		return nil, err
	}

	s.log.Info("sale recorded",
		zap.String("invoice_id", sale.InvoiceID),
		zap.String("product", sale.ProductName),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	publish(s.events, EventSaleRecorded, sale)
	publish(s.events, EventStockChanged, StockEvent{ProductID: product.ID, ProductName: product.Name, Stock: product.Stock})
	return sale, nil
}

func (s *tradeService) ListSales(ctx context.Context) ([]model.Sale, error) {
	return s.sales.All(ctx)
}

func (s *tradeService) RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*model.Purchase, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := requireNonNegative("cost", req.Cost); err != nil {
		return nil, err
	}
	date, err := dateOrToday(req.Date, s.now)
	if err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		POID:        keyOrNew(req.POID, model.PrefixPurchase),
		Supplier:    req.Supplier,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		Cost:        req.Cost.Round(2),
		Date:        date,
	}

	var product *model.Product
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		p, err := s.stock.Increment(txCtx, req.ProductName, req.Quantity)
		if err != nil {
			return err
		}
		product = p
		return s.purchases.Append(txCtx, purchase)
	}, model.TableProducts, model.TablePurchases)
	if err != nil {
		s.log.Warn("purchase rejected", zap.String("product", req.ProductName), zap.Int("quantity", req.Quantity), zap.Error(err))
		return nil, err
	}

	s.log.Info("purchase recorded",
		zap.String("po_id", purchase.POID),
		zap.String("product", purchase.ProductName),
		zap.Int("quantity", purchase.Quantity),
	)
	publish(s.events, EventPurchaseRecorded, purchase)
	publish(s.events, EventStockChanged, StockEvent{ProductID: product.ID, ProductName: product.Name, Stock: product.Stock})
	return purchase, nil
}

func (s *tradeService) ListPurchases(ctx context.Context) ([]model.Purchase, error) {
	return s.purchases.All(ctx)
}
