package handler

import (
	"fmt"
	"net/http"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountingHandler serves the general ledger and the bank register
type AccountingHandler struct {
	accountingService service.AccountingService
	bankService       service.BankService
	auth              *middleware.Auth
	trail             auditTrail
}

func NewAccountingHandler(
	accountingService service.AccountingService,
	bankService service.BankService,
	auditService service.AuditService,
	auth *middleware.Auth,
) *AccountingHandler {
	return &AccountingHandler{
		accountingService: accountingService,
		bankService:       bankService,
		auth:              auth,
		trail:             auditTrail{audit: auditService},
	}
}

func (h *AccountingHandler) RegisterRoutes(router *gin.RouterGroup) {
	ledger := router.Group("/api/ledger", h.auth.RequireModule(access.Accounting))
	{
		ledger.GET("/entries", h.ListEntries)
		ledger.POST("/entries", h.AddEntry)
		ledger.DELETE("/entries/:id", h.DeleteEntry)
		ledger.POST("/reconcile", h.Reconcile)
		ledger.GET("/summary", h.Summary)
	}

	bank := router.Group("/api/bank", h.auth.RequireModule(access.Bank))
	{
		bank.GET("/transactions", h.ListBankTransactions)
		bank.POST("/transactions", h.AddBankTransaction)
		bank.DELETE("/transactions/:id", h.DeleteBankTransaction)
		bank.GET("/balance", h.BankBalance)
	}
}

// ListEntries godoc
// @Summary      List ledger entries
// @Tags         accounting
// @Security     BearerAuth
// @Produce      json
// @Param        type  query     string  false  "Income or Expense"
// @Param        from  query     string  false  "First date, YYYY-MM-DD"
// @Param        to    query     string  false  "Last date, YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=[]model.LedgerEntry}
// @Failure      400   {object}  response.Response
// @Router       /api/ledger/entries [get]
func (h *AccountingHandler) ListEntries(c *gin.Context) {
	var filter service.EntryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query: "+err.Error()))
		return
	}
	entries, err := h.accountingService.ListEntries(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, entries)
}

// AddEntry godoc
// @Summary      Add manual ledger entry
// @Tags         accounting
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ManualEntryRequest  true  "Entry Payload"
// @Success      201      {object}  response.Response{data=model.LedgerEntry}
// @Failure      400      {object}  response.Response
// @Router       /api/ledger/entries [post]
func (h *AccountingHandler) AddEntry(c *gin.Context) {
	var req service.ManualEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.accountingService.AddManualEntry(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, entry, model.ActionAddLedgerEntry,
		fmt.Sprintf("%s %s: %s", entry.Type, entry.Category, entry.Amount.StringFixed(2)))
}

// DeleteEntry godoc
// @Summary      Delete ledger entry
// @Tags         accounting
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/ledger/entries/{id} [delete]
func (h *AccountingHandler) DeleteEntry(c *gin.Context) {
	id := c.Param("id")
	if err := h.accountingService.RemoveEntry(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Entry deleted successfully", model.ActionDeleteLedger, "Deleted ledger entry "+id)
}

// Reconcile godoc
// @Summary      Reconcile the ledger
// @Description  Mirrors sales, purchases and this month's salaries into the ledger. Running it twice adds nothing.
// @Tags         accounting
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.ReconcileReport}
// @Failure      500  {object}  response.Response
// @Router       /api/ledger/reconcile [post]
func (h *AccountingHandler) Reconcile(c *gin.Context) {
	report, err := h.accountingService.Reconcile(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, report, model.ActionReconcileLedger,
		fmt.Sprintf("Reconciled: %d sales, %d purchases, %d salaries", report.Sales, report.Purchases, report.Salaries))
}

// Summary godoc
// @Summary      Ledger totals
// @Tags         accounting
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.LedgerSummary}
// @Router       /api/ledger/summary [get]
func (h *AccountingHandler) Summary(c *gin.Context) {
	summary, err := h.accountingService.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, summary)
}

// ListBankTransactions godoc
// @Summary      List bank transactions
// @Tags         bank
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.BankTransaction}
// @Router       /api/bank/transactions [get]
func (h *AccountingHandler) ListBankTransactions(c *gin.Context) {
	txs, err := h.bankService.ListTransactions(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, txs)
}

// AddBankTransaction godoc
// @Summary      Add bank transaction
// @Tags         bank
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BankTransactionRequest  true  "Transaction Payload"
// @Success      201      {object}  response.Response{data=model.BankTransaction}
// @Failure      400      {object}  response.Response
// @Router       /api/bank/transactions [post]
func (h *AccountingHandler) AddBankTransaction(c *gin.Context) {
	var req service.BankTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.bankService.AddTransaction(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, tx, model.ActionAddBankTx,
		fmt.Sprintf("%s %s: %s", tx.Type, tx.Amount.StringFixed(2), tx.Description))
}

// DeleteBankTransaction godoc
// @Summary      Delete bank transaction
// @Tags         bank
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Transaction ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/bank/transactions/{id} [delete]
func (h *AccountingHandler) DeleteBankTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := h.bankService.RemoveTransaction(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Transaction deleted successfully", model.ActionDeleteBankTx, "Deleted bank transaction "+id)
}

// BankBalance godoc
// @Summary      Bank balance
// @Description  Deposits minus withdrawals
// @Tags         bank
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/bank/balance [get]
func (h *AccountingHandler) BankBalance(c *gin.Context) {
	balance, err := h.bankService.Balance(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"balance": balance})
}
