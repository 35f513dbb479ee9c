package service

import (
	"context"
	"sort"

	"bizledger/internal/apperr"
	"bizledger/internal/model"
	"bizledger/internal/repository"

	"go.uber.org/zap"
)

// MaintenanceService wipes whole collections. The audit trail and the user
// accounts can not be wiped.
type MaintenanceService interface {
	Wipeable() []string
	Wipe(ctx context.Context, name string) error
}

type wiper interface {
	Wipe(ctx context.Context) error
}

type maintenanceService struct {
	targets   map[string]wiper
	txManager repository.TransactionManager
	log       *zap.Logger
}

func NewMaintenanceService(store *repository.Store, log *zap.Logger) MaintenanceService {
	return &maintenanceService{
		targets: map[string]wiper{
			model.TableProducts:         store.Products,
			model.TableCustomers:        store.Customers,
			model.TableSuppliers:        store.Suppliers,
			model.TableSales:            store.Sales,
			model.TablePurchases:        store.Purchases,
			model.TableEmployees:        store.Employees,
			model.TableLedgerEntries:    store.LedgerEntries,
			model.TableBankTransactions: store.BankTransactions,
			model.TableTasks:            store.Tasks,
		},
		txManager: store.Tx,
		log:       log.Named("maintenance"),
	}
}

func (s *maintenanceService) Wipeable() []string {
	names := make([]string, 0, len(s.targets))
	for name := range s.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *maintenanceService) Wipe(ctx context.Context, name string) error {
	target, ok := s.targets[name]
	if !ok {
		return apperr.Validation("collection %q can not be wiped", name)
	}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return target.Wipe(txCtx)
	}, name)
	if err != nil {
		return err
	}
	s.log.Warn("collection wiped", zap.String("collection", name))
	return nil
}
