package service

import (
	"context"

	"bizledger/internal/model"

	"github.com/shopspring/decimal"
)

// DashboardService builds read-only aggregates across modules
type DashboardService interface {
	Dashboard(ctx context.Context) (*model.Dashboard, error)
	FinancialReport(ctx context.Context) (*model.FinancialReport, error)
}

type dashboardService struct {
	inventory  InventoryService
	trade      TradeService
	contacts   ContactService
	tasks      TaskService
	accounting AccountingService
	bank       BankService
	settings   SettingsService
	now        Clock
}

func NewDashboardService(
	inventory InventoryService,
	trade TradeService,
	contacts ContactService,
	tasks TaskService,
	accounting AccountingService,
	bank BankService,
	settings SettingsService,
	now Clock,
) DashboardService {
	return &dashboardService{
		inventory:  inventory,
		trade:      trade,
		contacts:   contacts,
		tasks:      tasks,
		accounting: accounting,
		bank:       bank,
		settings:   settings,
		now:        orNow(now),
	}
}

func (s *dashboardService) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.inventory.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.inventory.LowStock(ctx, cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	customers, err := s.contacts.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.trade.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := s.trade.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}
	openTasks, err := s.tasks.OpenCount(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.accounting.Summary(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := s.bank.Balance(ctx)
	if err != nil {
		return nil, err
	}

	salesTotal := decimal.Zero
	for _, sale := range sales {
		salesTotal = salesTotal.Add(sale.Total)
	}

	return &model.Dashboard{
		CompanyName:     cfg.CompanyName,
		CurrencySymbol:  cfg.CurrencySymbol,
		ProductCount:    len(products),
		CustomerCount:   len(customers),
		SalesCount:      len(sales),
		SalesTotal:      salesTotal.StringFixed(2),
		PurchasesCount:  len(purchases),
		OpenTasks:       openTasks,
		LowStock:        lowStock,
		Ledger:          summary,
		BankBalance:     balance.StringFixed(2),
		LowStockTrigger: cfg.LowStockThreshold,
	}, nil
}

// FinancialReport returns the data a report renderer needs: the ledger
// summary, every ledger entry and the product list.
func (s *dashboardService) FinancialReport(ctx context.Context) (*model.FinancialReport, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.accounting.ListEntries(ctx, EntryFilter{})
	if err != nil {
		return nil, err
	}
	products, err := s.inventory.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	return &model.FinancialReport{
		CompanyName:    cfg.CompanyName,
		CurrencySymbol: cfg.CurrencySymbol,
		GeneratedOn:    model.Today(s.now()),
		Summary:        summarize(entries),
		Entries:        entries,
		Products:       products,
	}, nil
}
