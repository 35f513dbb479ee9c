package repository

import (
	"bizledger/internal/model"

	"gorm.io/gorm"
)

// Store owns every collection of the application. It is built once in main
// and handed to the services that need it.
type Store struct {
	Users            Collection[model.User]
	Products         Collection[model.Product]
	Customers        Collection[model.Customer]
	Suppliers        Collection[model.Supplier]
	Sales            Collection[model.Sale]
	Purchases        Collection[model.Purchase]
	Employees        Collection[model.Employee]
	LedgerEntries    Collection[model.LedgerEntry]
	BankTransactions Collection[model.BankTransaction]
	Tasks            Collection[model.Task]
	Audit            AuditRepository
	Settings         SettingsRepository
	Reports          ReportRepository
	Tx               TransactionManager
}

func NewStore(db *gorm.DB, locker Locker) *Store {
	return &Store{
		Users:            NewCollection[model.User](db, model.TableUsers, "username"),
		Products:         NewCollection[model.Product](db, model.TableProducts, "id"),
		Customers:        NewCollection[model.Customer](db, model.TableCustomers, "customer_id"),
		Suppliers:        NewCollection[model.Supplier](db, model.TableSuppliers, "supplier_id"),
		Sales:            NewCollection[model.Sale](db, model.TableSales, "invoice_id"),
		Purchases:        NewCollection[model.Purchase](db, model.TablePurchases, "po_id"),
		Employees:        NewCollection[model.Employee](db, model.TableEmployees, "emp_id"),
		LedgerEntries:    NewCollection[model.LedgerEntry](db, model.TableLedgerEntries, "entry_id"),
		BankTransactions: NewCollection[model.BankTransaction](db, model.TableBankTransactions, "tx_id"),
		Tasks:            NewCollection[model.Task](db, model.TableTasks, "task_id"),
		Audit:            NewAuditRepository(db),
		Settings:         NewSettingsRepository(db),
		Reports:          NewReportRepository(db),
		Tx:               NewTransactionManager(db, locker),
	}
}
