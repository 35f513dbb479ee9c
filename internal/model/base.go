package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the ISO-8601 calendar date format used by every date field
const DateLayout = "2006-01-02"

// Identifier prefixes
const (
	PrefixProduct         = "PRD"
	PrefixCustomer        = "CUS"
	PrefixSupplier        = "SUP"
	PrefixSale            = "INV"
	PrefixPurchase        = "PO"
	PrefixEmployee        = "EMP"
	PrefixLedgerEntry     = "ENT"
	PrefixBankTransaction = "BTX"
	PrefixTask            = "TSK"
)

// Table names, also used as collection lock names
const (
	TableUsers            = "users"
	TableProducts         = "products"
	TableCustomers        = "customers"
	TableSuppliers        = "suppliers"
	TableSales            = "sales"
	TablePurchases        = "purchases"
	TableEmployees        = "employees"
	TableLedgerEntries    = "ledger_entries"
	TableBankTransactions = "bank_transactions"
	TableTasks            = "tasks"
	TableAuditLogs        = "audit_logs"
	TableSettings         = "settings"
)

// Base is embedded by every collection row. Seq preserves insertion order.
type Base struct {
	Seq       int64     `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) SetSeq(seq int64) { b.Seq = seq }

// Record is a row of a keyed collection
type Record interface {
	RecordKey() string
}

// Toucher is implemented by records carrying a last-updated date
type Toucher interface {
	Touch(date string)
}

// NewID returns a collision-resistant identifier such as "INV-8f0c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Today formats t as a calendar date
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
