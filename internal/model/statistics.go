package model

import "github.com/shopspring/decimal"

// LedgerSummary aggregates the ledger
type LedgerSummary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// Dashboard is the landing page aggregate
type Dashboard struct {
	CompanyName     string        `json:"company_name"`
	CurrencySymbol  string        `json:"currency_symbol"`
	ProductCount    int           `json:"product_count"`
	CustomerCount   int           `json:"customer_count"`
	SalesCount      int           `json:"sales_count"`
	SalesTotal      string        `json:"sales_total"`
	PurchasesCount  int           `json:"purchases_count"`
	OpenTasks       int           `json:"open_tasks"`
	LowStock        []Product     `json:"low_stock"`
	Ledger          LedgerSummary `json:"ledger"`
	BankBalance     string        `json:"bank_balance"`
	LowStockTrigger int           `json:"low_stock_threshold"`
}

// FinancialReport is the raw data a report renderer consumes
type FinancialReport struct {
	CompanyName    string        `json:"company_name"`
	CurrencySymbol string        `json:"currency_symbol"`
	GeneratedOn    string        `json:"generated_on"`
	Summary        LedgerSummary `json:"summary"`
	Entries        []LedgerEntry `json:"entries"`
	Products       []Product     `json:"products"`
}

// PeriodTotals is the ledger income and expense of one month (YYYY-MM)
type PeriodTotals struct {
	Period  string          `json:"period"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}

type ProductRanking struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
