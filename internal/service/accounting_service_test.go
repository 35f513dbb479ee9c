package service

import (
	"context"
	"errors"
	"testing"

	"bizledger/internal/apperr"
	"bizledger/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func recordTwoPurchasesOfSamePairing(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 0, "1.00")
	_, err := env.trade.RecordPurchase(ctx, RecordPurchaseRequest{POID: "PO-1", Supplier: "Globex", ProductName: "Widget", Quantity: 1, Cost: dec("10"), Date: "2026-01-02"})
	require.NoError(t, err)
	_, err = env.trade.RecordPurchase(ctx, RecordPurchaseRequest{POID: "PO-2", Supplier: "Globex", ProductName: "Widget", Quantity: 4, Cost: dec("40"), Date: "2026-01-09"})
	require.NoError(t, err)
}

// The default key ignores date, quantity and cost: a repeat purchase of the
// same product from the same supplier counts as already mirrored.
func TestReconcile_SupplierProductKeyCollapsesRepeatPurchases(t *testing.T) {
	env := newTestEnv(t, DedupSupplierProduct)
	recordTwoPurchasesOfSamePairing(t, env)

	report, err := env.accounting.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Purchases)
	assert.Equal(t, 1, report.Skipped)

	entries, err := env.accounting.ListEntries(context.Background(), EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Purchase - Supplier: Globex, Product: Widget", entries[0].Note)
	assert.Equal(t, model.CategoryCostOfGoods, entries[0].Category)
	assert.True(t, dec("10").Equal(entries[0].Amount))
	assert.Equal(t, "2026-01-02", entries[0].Date)
}

func TestReconcile_PurchaseOrderKeyMirrorsEachPurchase(t *testing.T) {
	env := newTestEnv(t, DedupPurchaseOrder)
	recordTwoPurchasesOfSamePairing(t, env)

	report, err := env.accounting.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Purchases)

	entries, err := env.accounting.ListEntries(context.Background(), EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Purchase - PO: PO-1, Supplier: Globex, Product: Widget", entries[0].Note)
	assert.Equal(t, "Purchase - PO: PO-2, Supplier: Globex, Product: Widget", entries[1].Note)

	again, err := env.accounting.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again.Added())
}

func TestReconcile_SalariesOfActiveEmployeesOnly(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.employees.CreateEmployee(ctx, EmployeeRequest{EmpID: "EMP-1", Name: "Alice", Role: "Clerk", Salary: dec("1200.50")})
	require.NoError(t, err)
	_, err = env.employees.CreateEmployee(ctx, EmployeeRequest{EmpID: "EMP-2", Name: "Bob", Salary: dec("900"), Status: model.EmployeeInactive})
	require.NoError(t, err)

	report, err := env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Salaries)

	entries, err := env.accounting.ListEntries(ctx, EntryFilter{Type: model.EntryExpense})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Salary - Alice (EMP-1) for January 2026", entries[0].Note)
	assert.Equal(t, model.CategorySalary, entries[0].Category)
	assert.Equal(t, testToday, entries[0].Date)
	assert.True(t, dec("1200.50").Equal(entries[0].Amount))

	again, err := env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Added())
}

func TestReconcile_ManualEntryWithSameNoteCountsAsMirrored(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 5, "2.00")

	sale, err := env.trade.RecordSale(ctx, RecordSaleRequest{InvoiceID: "INV-9", Customer: "Acme", ProductName: "Widget", Quantity: 1})
	require.NoError(t, err)

	_, err = env.accounting.AddManualEntry(ctx, ManualEntryRequest{Type: model.EntryIncome, Category: "Adjustment", Amount: dec("2"), Note: saleKey(*sale)})
	require.NoError(t, err)

	report, err := env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Sales)
	assert.Equal(t, 1, report.Skipped)
}

func TestReconcile_FailureAddsNothing(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 5, "2.00")
	_, err := env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, env.db.Migrator().DropTable(&model.Employee{}))

	_, err = env.accounting.Reconcile(ctx)
	assert.True(t, errors.Is(err, apperr.ErrPersistence))

	entries, err := env.accounting.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries, "sale entry must roll back with the failed run")
}

func TestAddManualEntry(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	entry, err := env.accounting.AddManualEntry(ctx, ManualEntryRequest{Type: model.EntryIncome, Category: "Consulting", Amount: dec("250"), Note: "March retainer"})
	require.NoError(t, err)
	assert.Equal(t, testToday, entry.Date)
	assert.Contains(t, entry.EntryID, model.PrefixLedgerEntry+"-")

	_, err = env.accounting.AddManualEntry(ctx, ManualEntryRequest{Type: model.EntryExpense, Category: "Rent", Amount: dec("100"), Date: "2026-01-01"})
	require.NoError(t, err)

	bad := []ManualEntryRequest{
		{Type: model.EntryIncome, Category: "Consulting", Amount: dec("0")},
		{Type: model.EntryIncome, Category: "Consulting", Amount: dec("-5")},
		{Type: model.EntryIncome, Category: "", Amount: dec("5")},
		{Type: "Refund", Category: "Consulting", Amount: dec("5")},
		{Type: model.EntryIncome, Category: "Consulting", Amount: dec("5"), Date: "2026-13-01"},
	}
	for _, req := range bad {
		_, err := env.accounting.AddManualEntry(ctx, req)
		assert.True(t, errors.Is(err, apperr.ErrValidation), "%+v", req)
	}

	sum, err := env.accounting.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, dec("250").Equal(sum.TotalIncome))
	assert.True(t, dec("100").Equal(sum.TotalExpense))
	assert.True(t, dec("150").Equal(sum.Net))
}

func TestListEntriesFilterAndRemove(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	for _, d := range []string{"2026-01-01", "2026-01-10", "2026-01-20"} {
		_, err := env.accounting.AddManualEntry(ctx, ManualEntryRequest{Type: model.EntryExpense, Category: "Rent", Amount: dec("1"), Date: d})
		require.NoError(t, err)
	}

	mid, err := env.accounting.ListEntries(ctx, EntryFilter{From: "2026-01-05", To: "2026-01-20"})
	require.NoError(t, err)
	require.Len(t, mid, 2)

	_, err = env.accounting.ListEntries(ctx, EntryFilter{Type: "Other"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, env.accounting.RemoveEntry(ctx, mid[0].EntryID))
	err = env.accounting.RemoveEntry(ctx, mid[0].EntryID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestNewAccountingService_UnknownStrategy(t *testing.T) {
	env := newTestEnv(t, "")
	_, err := NewAccountingService(env.store.LedgerEntries, env.store.Sales, env.store.Purchases, env.store.Employees, env.store.Tx, nil, "by_date", nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLedger_UnreadableAmountLoadsAsZero(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.accounting.AddManualEntry(ctx, ManualEntryRequest{Type: model.EntryIncome, Category: "Consulting", Amount: dec("100")})
	require.NoError(t, err)
	require.NoError(t, env.db.Exec(
		`INSERT INTO ledger_entries (entry_id, date, type, category, amount, note, seq, created_at, updated_at)
		 VALUES ('ENT-BAD', '2026-01-05', 'Income', 'Misc', 'n/a', '', 99, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error)

	summary, err := env.accounting.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(summary.TotalIncome), summary.TotalIncome.String())
	assert.True(t, dec("100").Equal(summary.Net))

	entries, err := env.accounting.ListEntries(ctx, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ENT-BAD", entries[1].EntryID)
	assert.True(t, entries[1].Amount.IsZero())

	env.addProduct(t, "P1", "Widget", 5, "2.50")
	_, err = env.trade.RecordSale(ctx, RecordSaleRequest{InvoiceID: "INV-1", Customer: "Acme", ProductName: "Widget", Quantity: 2})
	require.NoError(t, err)

	report, err := env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sales)
}

func TestStock_UnreadableQuantityLoadsAsZero(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 5, "2.50")
	require.NoError(t, env.db.Exec(`UPDATE products SET stock = 'lots' WHERE id = 'P1'`).Error)

	products, err := env.inventory.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 0, products[0].Stock)

	_, err = env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 1})
	assert.True(t, errors.Is(err, apperr.ErrInsufficientStock))
}
