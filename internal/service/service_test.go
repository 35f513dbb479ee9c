package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"bizledger/internal/credential"
	"bizledger/internal/model"
	"bizledger/internal/repository"
	"bizledger/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const testToday = "2026-01-15"

func testClockTime() time.Time { return testutil.FixedClock(testToday)() }

type recordedEvent struct {
	Event string
	Data  any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Event: event, Data: data})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

type testEnv struct {
	db         *gorm.DB
	store      *repository.Store
	events     *recordingPublisher
	inventory  InventoryService
	trade      TradeService
	contacts   ContactService
	employees  EmployeeService
	accounting AccountingService
	bank       BankService
	tasks      TaskService
	audit      AuditService
	settings   SettingsService
	users      UserService
	dashboard  DashboardService
	maint      MaintenanceService
}

func newTestEnv(t *testing.T, dedupStrategy string) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := zaptest.NewLogger(t)
	clock := Clock(testutil.FixedClock(testToday))

	store := repository.NewStore(db, repository.NewMutexLocker(0))
	store.Products = repository.WithClock(store.Products, clock)
	events := &recordingPublisher{}

	env := &testEnv{db: db, store: store, events: events}
	env.inventory = NewInventoryService(store.Products, store.Tx, clock, log)
	env.trade = NewTradeService(store.Sales, store.Purchases, NewStockLedger(store.Products), store.Tx, events, clock, log)
	env.contacts = NewContactService(store.Customers, store.Suppliers, store.Tx)
	env.employees = NewEmployeeService(store.Employees, store.Tx, clock)
	accounting, err := NewAccountingService(store.LedgerEntries, store.Sales, store.Purchases, store.Employees, store.Tx, events, dedupStrategy, clock, log)
	require.NoError(t, err)
	env.accounting = accounting
	env.bank = NewBankService(store.BankTransactions, store.Tx, clock)
	env.tasks = NewTaskService(store.Tasks, store.Tx, clock)
	env.audit = NewAuditService(store.Audit, clock, log)
	env.settings = NewSettingsService(store.Settings, log)
	env.users = NewUserService(store.Users, store.Tx, credential.New(credential.WithIterations(credential.MinIterations)), []byte("test-secret"), 0, clock, log)
	env.dashboard = NewDashboardService(env.inventory, env.trade, env.contacts, env.tasks, env.accounting, env.bank, env.settings, clock)
	env.maint = NewMaintenanceService(store, log)
	return env
}

func (e *testEnv) addProduct(t *testing.T, id, name string, stock int, price string) *model.Product {
	t.Helper()
	p, err := e.inventory.CreateProduct(context.Background(), CreateProductRequest{
		ID:        id,
		Name:      name,
		Category:  "General",
		Stock:     stock,
		UnitPrice: decimal.RequireFromString(price),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := e.store.Products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
