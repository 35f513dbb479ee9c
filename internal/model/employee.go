package model

import "github.com/shopspring/decimal"

// Employee statuses
const (
	EmployeeActive   = "Active"
	EmployeeInactive = "Inactive"
)

// Employee is a member of staff; active employees' monthly salary is mirrored into the ledger.
type Employee struct {
	EmpID    string          `gorm:"column:emp_id;type:varchar(64);primaryKey" json:"emp_id"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name"`
	Role     string          `gorm:"type:varchar(100)" json:"role"`
	Salary   decimal.Decimal `gorm:"type:decimal(18,2);not null;serializer:number" json:"salary"`
	JoinDate string          `gorm:"type:varchar(10)" json:"join_date"`
	Status   string          `gorm:"type:varchar(20);not null" json:"status"`
	Base
}

func (e *Employee) RecordKey() string { return e.EmpID }
