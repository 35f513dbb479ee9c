package model

import (
	"github.com/shopspring/decimal"
)

// Product represents an item in the inventory. Stock only changes through
// the stock ledger once the product exists.
type Product struct {
	ID          string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Category    string          `gorm:"type:varchar(100)" json:"category"`
	Stock       int             `gorm:"type:int;not null;serializer:number" json:"stock"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;serializer:number" json:"unit_price"`
	LastUpdated string          `gorm:"type:varchar(10)" json:"last_updated"`
	Base
}

func (p *Product) RecordKey() string { return p.ID }

func (p *Product) Touch(date string) { p.LastUpdated = date }

// Sale decrements stock by Quantity. Total = Quantity × product unit price at creation.
type Sale struct {
	InvoiceID   string          `gorm:"column:invoice_id;type:varchar(64);primaryKey" json:"invoice_id"`
	Customer    string          `gorm:"type:varchar(255);not null" json:"customer"`
	ProductName string          `gorm:"type:varchar(255);not null;index" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null;serializer:number" json:"quantity"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null;serializer:number" json:"total"`
	Date        string          `gorm:"type:varchar(10);not null" json:"date"`
	Base
}

func (s *Sale) RecordKey() string { return s.InvoiceID }

// Purchase increments stock by Quantity. Cost is the total paid to the supplier.
type Purchase struct {
	POID        string          `gorm:"column:po_id;type:varchar(64);primaryKey" json:"po_id"`
	Supplier    string          `gorm:"type:varchar(255);not null" json:"supplier"`
	ProductName string          `gorm:"type:varchar(255);not null;index" json:"product_name"`
	Quantity    int             `gorm:"type:int;not null;serializer:number" json:"quantity"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,2);not null;serializer:number" json:"cost"`
	Date        string          `gorm:"type:varchar(10);not null" json:"date"`
	Base
}

func (p *Purchase) RecordKey() string { return p.POID }
