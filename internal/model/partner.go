package model

// Customer is a party sales are recorded against
type Customer struct {
	CustomerID string `gorm:"column:customer_id;type:varchar(64);primaryKey" json:"customer_id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Email      string `gorm:"type:varchar(255)" json:"email"`
	Phone      string `gorm:"type:varchar(50)" json:"phone"`
	Base
}

func (c *Customer) RecordKey() string { return c.CustomerID }

// Supplier is a party purchases are recorded against
type Supplier struct {
	SupplierID string `gorm:"column:supplier_id;type:varchar(64);primaryKey" json:"supplier_id"`
	Name       string `gorm:"type:varchar(255);not null" json:"name"`
	Contact    string `gorm:"type:varchar(255)" json:"contact"`
	Email      string `gorm:"type:varchar(255)" json:"email"`
	Base
}

func (s *Supplier) RecordKey() string { return s.SupplierID }
