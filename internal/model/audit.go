package model

import (
	"time"
)

// Action labels written to the audit trail
const (
	ActionLogin            = "LOGIN"
	ActionCreateUser       = "CREATE_USER"
	ActionChangeRole       = "CHANGE_ROLE"
	ActionChangePassword   = "CHANGE_PASSWORD"
	ActionDeleteUser       = "DELETE_USER"
	ActionCreateProduct    = "CREATE_PRODUCT"
	ActionUpdateProduct    = "UPDATE_PRODUCT"
	ActionDeleteProduct    = "DELETE_PRODUCT"
	ActionCreateCustomer   = "CREATE_CUSTOMER"
	ActionUpdateCustomer   = "UPDATE_CUSTOMER"
	ActionDeleteCustomer   = "DELETE_CUSTOMER"
	ActionCreateSupplier   = "CREATE_SUPPLIER"
	ActionUpdateSupplier   = "UPDATE_SUPPLIER"
	ActionDeleteSupplier   = "DELETE_SUPPLIER"
	ActionRecordSale       = "RECORD_SALE"
	ActionRecordPurchase   = "RECORD_PURCHASE"
	ActionCreateEmployee   = "CREATE_EMPLOYEE"
	ActionUpdateEmployee   = "UPDATE_EMPLOYEE"
	ActionDeleteEmployee   = "DELETE_EMPLOYEE"
	ActionAddLedgerEntry   = "ADD_LEDGER_ENTRY"
	ActionDeleteLedger     = "DELETE_LEDGER_ENTRY"
	ActionReconcileLedger  = "RECONCILE_LEDGER"
	ActionAddBankTx        = "ADD_BANK_TRANSACTION"
	ActionDeleteBankTx     = "DELETE_BANK_TRANSACTION"
	ActionCreateTask       = "CREATE_TASK"
	ActionUpdateTaskStatus = "UPDATE_TASK_STATUS"
	ActionDeleteTask       = "DELETE_TASK"
	ActionUpdateSettings   = "UPDATE_SETTINGS"
	ActionWipeCollection   = "WIPE_COLLECTION"
)

// AuditLog tracks who did what and when. Rows are append-only.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;index" json:"username"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   string    `gorm:"type:text" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"` // truncated to the second
}
