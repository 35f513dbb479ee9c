package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleThenPurchaseThenReconcile(t *testing.T) {
	env := newTestEnv(t, DedupSupplierProduct)
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 10, "5.00")

	sale, err := env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 3})
	require.NoError(t, err)
	assert.True(t, dec("15.00").Equal(sale.Total))
	assert.Equal(t, testToday, sale.Date)
	assert.Equal(t, 7, env.stockOf(t, "P1"))

	sales, err := env.trade.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	_, err = env.trade.RecordPurchase(ctx, RecordPurchaseRequest{Supplier: "Globex", ProductName: "Widget", Quantity: 5, Cost: dec("20.00")})
	require.NoError(t, err)
	assert.Equal(t, 12, env.stockOf(t, "P1"))

	report, err := env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReconcileReport{Sales: 1, Purchases: 1}, *report)

	entries, err := env.accounting.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.EntryIncome, entries[0].Type)
	assert.True(t, dec("15.00").Equal(entries[0].Amount))
	assert.Equal(t, model.EntryExpense, entries[1].Type)
	assert.True(t, dec("20.00").Equal(entries[1].Amount))

	again, err := env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Added())
	assert.Equal(t, 2, again.Skipped)

	after, err := env.accounting.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Len(t, after, 2)

	assert.Equal(t, []string{
		EventSaleRecorded, EventStockChanged,
		EventPurchaseRecorded, EventStockChanged,
		EventLedgerReconciled,
	}, env.events.names())
}

func TestRecordSale_ExactStockSucceeds(t *testing.T) {
	env := newTestEnv(t, "")
	env.addProduct(t, "P1", "Widget", 4, "2.50")

	sale, err := env.trade.RecordSale(context.Background(), RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 4})
	require.NoError(t, err)
	assert.True(t, dec("10").Equal(sale.Total))
	assert.Equal(t, 0, env.stockOf(t, "P1"))
}

func TestRecordSale_InsufficientStockLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 4, "2.50")

	_, err := env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 5})
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))
	assert.Equal(t, 4, env.stockOf(t, "P1"))

	sales, err := env.trade.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Empty(t, env.events.names())
}

func TestRecordSale_Validation(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 4, "2.50")

	cases := []RecordSaleRequest{
		{Customer: "Acme", ProductName: "Widget", Quantity: 0},
		{Customer: "Acme", ProductName: "Widget", Quantity: -1},
		{Customer: "", ProductName: "Widget", Quantity: 1},
		{Customer: "Acme", ProductName: "Widget", Quantity: 1, Date: "15/01/2026"},
	}
	for _, req := range cases {
		_, err := env.trade.RecordSale(ctx, req)
		assert.True(t, errors.Is(err, apperr.ErrValidation), "%+v", req)
	}
	assert.Equal(t, 4, env.stockOf(t, "P1"))
}

func TestRecordSale_UnknownProduct(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := env.trade.RecordSale(context.Background(), RecordSaleRequest{Customer: "Acme", ProductName: "Ghost", Quantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRecordSale_DuplicateInvoiceRollsBackStock(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 10, "1.00")

	_, err := env.trade.RecordSale(ctx, RecordSaleRequest{InvoiceID: "INV-1", Customer: "Acme", ProductName: "Widget", Quantity: 2})
	require.NoError(t, err)

	_, err = env.trade.RecordSale(ctx, RecordSaleRequest{InvoiceID: "INV-1", Customer: "Acme", ProductName: "Widget", Quantity: 3})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateKey))
	assert.Equal(t, 8, env.stockOf(t, "P1"))
}

func TestRecordSale_PersistenceFailureLeavesStockUnchanged(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 10, "1.00")

	require.NoError(t, env.db.Migrator().DropTable(&model.Sale{}))

	_, err := env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 2})
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	assert.Equal(t, 10, env.stockOf(t, "P1"))
}

func TestRecordPurchase(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 0, "1.00")

	p, err := env.trade.RecordPurchase(ctx, RecordPurchaseRequest{POID: "PO-7", Supplier: "Globex", ProductName: "Widget", Quantity: 6, Cost: dec("9.99"), Date: "2026-01-02"})
	require.NoError(t, err)
	assert.Equal(t, "PO-7", p.POID)
	assert.Equal(t, "2026-01-02", p.Date)
	assert.Equal(t, 6, env.stockOf(t, "P1"))

	_, err = env.trade.RecordPurchase(ctx, RecordPurchaseRequest{Supplier: "Globex", ProductName: "Widget", Quantity: 1, Cost: dec("-1")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = env.trade.RecordPurchase(ctx, RecordPurchaseRequest{Supplier: "Globex", ProductName: "Ghost", Quantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Equal(t, 6, env.stockOf(t, "P1"))
}

func TestStockNeverNegative(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 3, "1.00")

	ops := []struct {
		sell bool
		qty  int
	}{{true, 2}, {true, 2}, {false, 1}, {true, 2}, {true, 1}, {false, 5}, {true, 5}}
	for _, op := range ops {
		if op.sell {
			_, _ = env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "c", ProductName: "Widget", Quantity: op.qty})
		} else {
			_, _ = env.trade.RecordPurchase(ctx, RecordPurchaseRequest{Supplier: "s", ProductName: "Widget", Quantity: op.qty})
		}
		assert.GreaterOrEqual(t, env.stockOf(t, "P1"), 0)
	}
	// 3, 1, rejected, 2, 0, rejected, 5, 0
	assert.Equal(t, 0, env.stockOf(t, "P1"))
}

func TestStockLedger_RejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t, "")
	env.addProduct(t, "P1", "Widget", 3, "1.00")
	ledger := NewStockLedger(env.store.Products)

	_, err := ledger.Increment(context.Background(), "Widget", 0)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	p, err := ledger.Decrement(context.Background(), "Widget", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stock)
	assert.Equal(t, testToday, p.LastUpdated)
}

func TestRecordSale_ConcurrentSalesNeverOversell(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 10, "1.00")

	const buyers = 25
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		sold, short int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sold++
			case errors.Is(err, apperr.ErrInsufficientStock):
				short++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, sold)
	assert.Equal(t, buyers-10, short)
	assert.Equal(t, 0, env.stockOf(t, "P1"))

	sales, err := env.trade.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 10)
}
