package model

import (
	"github.com/shopspring/decimal"
)

// Ledger entry types
const (
	EntryIncome  = "Income"
	EntryExpense = "Expense"
)

// Categories used by reconciliation
const (
	CategoryProductSale = "Product Sale"
	CategoryCostOfGoods = "Cost of Goods"
	CategorySalary      = "Salary"
)

// LedgerEntry is one income or expense line of the general ledger. Entries
// created by reconciliation carry their dedup key in Note.
type LedgerEntry struct {
	EntryID  string          `gorm:"column:entry_id;type:varchar(64);primaryKey" json:"entry_id"`
	Date     string          `gorm:"type:varchar(10);not null;index" json:"date"`
	Type     string          `gorm:"type:varchar(10);not null;index" json:"type"`
	Category string          `gorm:"type:varchar(100);not null" json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null;serializer:number" json:"amount"`
	Note     string          `gorm:"type:text" json:"note"`
	Base
}

func (e *LedgerEntry) RecordKey() string { return e.EntryID }

// Bank transaction types
const (
	BankDeposit    = "Deposit"
	BankWithdrawal = "Withdrawal"
)

// BankTransaction is a movement on the company bank account
type BankTransaction struct {
	TxID        string          `gorm:"column:tx_id;type:varchar(64);primaryKey" json:"tx_id"`
	Date        string          `gorm:"type:varchar(10);not null" json:"date"`
	Type        string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null;serializer:number" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	Base
}

func (b *BankTransaction) RecordKey() string { return b.TxID }
