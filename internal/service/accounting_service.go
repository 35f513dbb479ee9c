package service

import (
	"context"
	"fmt"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Purchase dedup key strategies
const (
	// DedupSupplierProduct treats a supplier/product pairing as mirrored once
	// any purchase of it is in the ledger. Repeat purchases are skipped.
	DedupSupplierProduct = "supplier_product"
	// DedupPurchaseOrder mirrors every purchase order separately.
	DedupPurchaseOrder = "purchase_order"
)

type ManualEntryRequest struct {
	Type     string          `json:"type" binding:"required,oneof=Income Expense"`
	Category string          `json:"category" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
	Date     string          `json:"date" binding:"omitempty,isodate"`
}

// EntryFilter narrows ListEntries. Empty fields match everything; dates are inclusive.
type EntryFilter struct {
	Type string `form:"type"`
	From string `form:"from"`
	To   string `form:"to"`
}

// ReconcileReport counts the ledger entries one reconcile run added per source
type ReconcileReport struct {
	Sales     int `json:"sales"`
	Purchases int `json:"purchases"`
	Salaries  int `json:"salaries"`
	Skipped   int `json:"skipped"`
}

func (r ReconcileReport) Added() int { return r.Sales + r.Purchases + r.Salaries }

type AccountingService interface {
	AddManualEntry(ctx context.Context, req ManualEntryRequest) (*model.LedgerEntry, error)
	Reconcile(ctx context.Context) (*ReconcileReport, error)
	Summary(ctx context.Context) (model.LedgerSummary, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]model.LedgerEntry, error)
	RemoveEntry(ctx context.Context, id string) error
}

type accountingService struct {
	entries     repository.Collection[model.LedgerEntry]
	sales       repository.Collection[model.Sale]
	purchases   repository.Collection[model.Purchase]
	employees   repository.Collection[model.Employee]
	txManager   repository.TransactionManager
	events      EventPublisher
	purchaseKey func(model.Purchase) string
	now         Clock
	log         *zap.Logger
}

func NewAccountingService(
	entries repository.Collection[model.LedgerEntry],
	sales repository.Collection[model.Sale],
	purchases repository.Collection[model.Purchase],
	employees repository.Collection[model.Employee],
	txManager repository.TransactionManager,
	events EventPublisher,
	dedupStrategy string,
	now Clock,
	log *zap.Logger,
) (AccountingService, error) {
	keyFn, err := purchaseKeyFunc(dedupStrategy)
	if err != nil {
		return nil, err
	}
	return &accountingService{
		entries:     entries,
		sales:       sales,
		purchases:   purchases,
		employees:   employees,
		txManager:   txManager,
		events:      events,
		purchaseKey: keyFn,
		now:         orNow(now),
		log:         log.Named("accounting"),
	}, nil
}

func purchaseKeyFunc(strategy string) (func(model.Purchase) string, error) {
	switch strategy {
	case "", DedupSupplierProduct:
		return supplierProductKey, nil
	case DedupPurchaseOrder:
		return purchaseOrderKey, nil
	default:
		return nil, fmt.Errorf("unknown purchase dedup strategy %q", strategy)
	}
}

func saleKey(s model.Sale) string {
	return "Sale - Invoice: " + s.InvoiceID
}

func supplierProductKey(p model.Purchase) string {
	return fmt.Sprintf("Purchase - Supplier: %s, Product: %s", p.Supplier, p.ProductName)
}

func purchaseOrderKey(p model.Purchase) string {
	return fmt.Sprintf("Purchase - PO: %s, Supplier: %s, Product: %s", p.POID, p.Supplier, p.ProductName)
}

// salaryKey names the month in English, e.g. "January 2026"
func salaryKey(e model.Employee, month string) string {
	return fmt.Sprintf("Salary - %s (%s) for %s", e.Name, e.EmpID, month)
}

func (s *accountingService) AddManualEntry(ctx context.Context, req ManualEntryRequest) (*model.LedgerEntry, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if err := requirePositive("amount", req.Amount); err != nil {
		return nil, err
	}
	date, err := dateOrToday(req.Date, s.now)
	if err != nil {
		return nil, err
	}

	entry := &model.LedgerEntry{
		EntryID:  model.NewID(model.PrefixLedgerEntry),
		Date:     date,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount.Round(2),
		Note:     req.Note,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.entries.Append(txCtx, entry)
	}, model.TableLedgerEntries)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Reconcile mirrors sales, purchases and the current month's salaries of
// active employees into the ledger. An event is mirrored at most once: its
// dedup key is compared with every existing entry note, including notes
// added earlier in the same run.
func (s *accountingService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	now := s.now()
	today := model.Today(now)
	month := now.Format("January 2006")

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.entries.All(txCtx)
		if err != nil {
			return err
		}
		notes := make(map[string]bool, len(existing))
		for _, e := range existing {
			notes[e.Note] = true
		}

		mirror := func(key, date, typ, category string, amount decimal.Decimal) (bool, error) {
			if notes[key] {
				report.Skipped++
				return false, nil
			}
			entry := &model.LedgerEntry{
				EntryID:  model.NewID(model.PrefixLedgerEntry),
				Date:     date,
				Type:     typ,
				Category: category,
				Amount:   amount,
				Note:     key,
			}
			if err := s.entries.Append(txCtx, entry); err != nil {
				return false, err
			}
			notes[key] = true
			return true, nil
		}

		sales, err := s.sales.All(txCtx)
		if err != nil {
			return err
		}
		for _, sale := range sales {
			added, err := mirror(saleKey(sale), sale.Date, model.EntryIncome, model.CategoryProductSale, sale.Total)
			if err != nil {
				return err
			}
			if added {
				report.Sales++
			}
		}

		purchases, err := s.purchases.All(txCtx)
		if err != nil {
			return err
		}
		for _, p := range purchases {
			added, err := mirror(s.purchaseKey(p), p.Date, model.EntryExpense, model.CategoryCostOfGoods, p.Cost)
			if err != nil {
				return err
			}
			if added {
				report.Purchases++
			}
		}

		employees, err := s.employees.All(txCtx)
		if err != nil {
			return err
		}
		for _, e := range employees {
			if e.Status != model.EmployeeActive {
				continue
			}
			added, err := mirror(salaryKey(e, month), today, model.EntryExpense, model.CategorySalary, e.Salary)
			if err != nil {
				return err
			}
			if added {
				report.Salaries++
			}
		}
		return nil
	}, model.TableLedgerEntries)
	if err != nil {
		s.log.Error("reconcile failed", zap.Error(err))
		return nil, err
	}

	s.log.Info("ledger reconciled",
		zap.Int("sales", report.Sales),
		zap.Int("purchases", report.Purchases),
		zap.Int("salaries", report.Salaries),
		zap.Int("skipped", report.Skipped),
	)
	if report.Added() > 0 {
		publish(s.events, EventLedgerReconciled, report)
	}
	return report, nil
}

func (s *accountingService) Summary(ctx context.Context) (model.LedgerSummary, error) {
	entries, err := s.entries.All(ctx)
	if err != nil {
		return model.LedgerSummary{}, err
	}
	return summarize(entries), nil
}

func summarize(entries []model.LedgerEntry) model.LedgerSummary {
	sum := model.LedgerSummary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, e := range entries {
		switch e.Type {
		case model.EntryIncome:
			sum.TotalIncome = sum.TotalIncome.Add(e.Amount)
		case model.EntryExpense:
			sum.TotalExpense = sum.TotalExpense.Add(e.Amount)
		}
	}
	sum.Net = sum.TotalIncome.Sub(sum.TotalExpense)
	return sum
}

func (s *accountingService) ListEntries(ctx context.Context, filter EntryFilter) ([]model.LedgerEntry, error) {
	if filter.Type != "" && filter.Type != model.EntryIncome && filter.Type != model.EntryExpense {
		return nil, apperr.Validation("type must be %s or %s", model.EntryIncome, model.EntryExpense)
	}
	for _, d := range []string{filter.From, filter.To} {
		if d != "" && !model.ValidDate(d) {
			return nil, apperr.Validation("date %q is not a YYYY-MM-DD calendar date", d)
		}
	}
	return s.entries.Find(ctx, func(e model.LedgerEntry) bool {
		if filter.Type != "" && e.Type != filter.Type {
			return false
		}
		if filter.From != "" && e.Date < filter.From {
			return false
		}
		if filter.To != "" && e.Date > filter.To {
			return false
		}
		return true
	})
}

func (s *accountingService) RemoveEntry(ctx context.Context, id string) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.entries.Remove(txCtx, id)
	}, model.TableLedgerEntries)
}
