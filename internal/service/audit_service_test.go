package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/repository"
	"bizledger/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditRecord_NewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	ts := time.Date(2026, 1, 15, 9, 30, 0, 500, time.UTC)
	clock := func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}
	svc := NewAuditService(repository.NewAuditRepository(db), clock, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, "admin", model.ActionLogin, "logged in"))
	require.NoError(t, svc.Record(ctx, "admin", model.ActionRecordSale, "INV-1"))
	require.NoError(t, svc.Record(ctx, "clerk", model.ActionCreateTask, "TSK-1"))

	recent, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, model.ActionCreateTask, recent[0].Action)
	assert.Equal(t, "clerk", recent[0].Username)
	assert.Equal(t, "2026-01-15 09:30:03", recent[0].CreatedAt)
	assert.Equal(t, model.ActionRecordSale, recent[1].Action)

	all, total, err := svc.GetAuditLogs(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, model.ActionLogin, all[2].Action)
}

func TestAuditRecord_FailureIsReturnedAndLogged(t *testing.T) {
	db := testutil.NewTestDB(t)
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewAuditService(repository.NewAuditRepository(db), nil, zap.New(core))

	require.NoError(t, db.Migrator().DropTable(&model.AuditLog{}))

	err := svc.Record(context.Background(), "admin", model.ActionLogin, "")
	assert.True(t, errors.Is(err, apperr.ErrPersistence))
	assert.Equal(t, 1, logs.FilterMessage("audit write failed").Len())
}

func TestSettings_DefaultsUpdateAndFallback(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	got, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings, got)

	require.NoError(t, env.settings.SeedDefaults(ctx))
	name, threshold := "Acme Ltd", 3
	got, err = env.settings.Update(ctx, UpdateSettingsRequest{CompanyName: &name, LowStockThreshold: &threshold})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.CompanyName)
	assert.Equal(t, "$", got.CurrencySymbol)
	assert.Equal(t, 3, got.LowStockThreshold)

	negative := -1
	_, err = env.settings.Update(ctx, UpdateSettingsRequest{LowStockThreshold: &negative})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, env.store.Settings.Put(ctx, map[string]string{model.SettingLowStockThreshold: "lots"}))
	got, err = env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LowStockThreshold)

	require.NoError(t, env.store.Settings.Put(ctx, map[string]string{model.SettingLowStockThreshold: "7.0"}))
	got, err = env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got.LowStockThreshold)
}

func TestBankBalance(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	_, err := env.bank.AddTransaction(ctx, BankTransactionRequest{Type: model.BankDeposit, Amount: dec("500.25")})
	require.NoError(t, err)
	w, err := env.bank.AddTransaction(ctx, BankTransactionRequest{Type: model.BankWithdrawal, Amount: dec("120"), Date: "2026-01-03"})
	require.NoError(t, err)

	_, err = env.bank.AddTransaction(ctx, BankTransactionRequest{Type: "Transfer", Amount: dec("1")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = env.bank.AddTransaction(ctx, BankTransactionRequest{Type: model.BankDeposit, Amount: dec("0")})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	balance, err := env.bank.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, dec("380.25").Equal(balance))

	require.NoError(t, env.bank.RemoveTransaction(ctx, w.TxID))
	balance, err = env.bank.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, dec("500.25").Equal(balance))

	txs, err := env.bank.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestTasks(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	task, err := env.tasks.CreateTask(ctx, CreateTaskRequest{Title: "Count stock", Assignee: "clerk", DueDate: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, model.TaskToDo, task.Status)
	assert.Equal(t, testToday, task.CreatedDate)

	_, err = env.tasks.CreateTask(ctx, CreateTaskRequest{Title: "Call supplier", Status: model.TaskInProgress})
	require.NoError(t, err)

	open, err := env.tasks.OpenCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, open)

	task, err = env.tasks.UpdateStatus(ctx, task.TaskID, UpdateTaskStatusRequest{Status: model.TaskCompleted})
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, task.Status)

	_, err = env.tasks.UpdateStatus(ctx, task.TaskID, UpdateTaskStatusRequest{Status: "Done"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	open, err = env.tasks.OpenCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, open)

	require.NoError(t, env.tasks.DeleteTask(ctx, task.TaskID))
	_, err = env.tasks.UpdateStatus(ctx, task.TaskID, UpdateTaskStatusRequest{Status: model.TaskToDo})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestDashboardAndReport(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	require.NoError(t, env.settings.SeedDefaults(ctx))
	env.addProduct(t, "P1", "Widget", 10, "5.00")
	env.addProduct(t, "P2", "Gadget", 50, "1.00")

	_, err := env.trade.RecordSale(ctx, RecordSaleRequest{Customer: "Acme", ProductName: "Widget", Quantity: 3})
	require.NoError(t, err)
	_, err = env.accounting.Reconcile(ctx)
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, CreateTaskRequest{Title: "Restock"})
	require.NoError(t, err)

	d, err := env.dashboard.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.ProductCount)
	assert.Equal(t, 1, d.SalesCount)
	assert.Equal(t, "15.00", d.SalesTotal)
	assert.Equal(t, 1, d.OpenTasks)
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "P1", d.LowStock[0].ID)
	assert.True(t, dec("15").Equal(d.Ledger.Net))
	assert.Equal(t, "0.00", d.BankBalance)

	r, err := env.dashboard.FinancialReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings.CompanyName, r.CompanyName)
	assert.Equal(t, testToday, r.GeneratedOn)
	assert.Len(t, r.Entries, 1)
	assert.Len(t, r.Products, 2)
	assert.True(t, dec("15").Equal(r.Summary.TotalIncome))
}

func TestMaintenanceWipe(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()
	env.addProduct(t, "P1", "Widget", 10, "5.00")
	_, err := env.users.EnsureAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)

	assert.NotContains(t, env.maint.Wipeable(), model.TableAuditLogs)
	assert.NotContains(t, env.maint.Wipeable(), model.TableUsers)

	err = env.maint.Wipe(ctx, model.TableAuditLogs)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	err = env.maint.Wipe(ctx, model.TableUsers)
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	require.NoError(t, env.maint.Wipe(ctx, model.TableProducts))
	products, err := env.inventory.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}
