package handler

import (
	"fmt"
	"net/http"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"

	"github.com/gin-gonic/gin"
)

// TradeHandler records sales and purchases. Each one moves stock in the same unit of work.
type TradeHandler struct {
	tradeService service.TradeService
	auth         *middleware.Auth
	trail        auditTrail
}

func NewTradeHandler(tradeService service.TradeService, auditService service.AuditService, auth *middleware.Auth) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
		auth:         auth,
		trail:        auditTrail{audit: auditService},
	}
}

func (h *TradeHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales", h.auth.RequireModule(access.Sales))
	{
		sales.GET("", h.ListSales)
		sales.POST("", h.RecordSale)
	}

	purchases := router.Group("/api/purchases", h.auth.RequireModule(access.Purchases))
	{
		purchases.GET("", h.ListPurchases)
		purchases.POST("", h.RecordPurchase)
	}
}

// ListSales godoc
// @Summary      List sales
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Sale}
// @Router       /api/sales [get]
func (h *TradeHandler) ListSales(c *gin.Context) {
	sales, err := h.tradeService.ListSales(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, sales)
}

// RecordSale handles POST /api/sales
// @Summary      Record sale
// @Description  Decrements stock and appends the sale atomically. Rejected when stock is insufficient.
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordSaleRequest  true  "Sale Payload"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/sales [post]
func (h *TradeHandler) RecordSale(c *gin.Context) {
	var req service.RecordSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	sale, err := h.tradeService.RecordSale(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, sale, model.ActionRecordSale,
		fmt.Sprintf("Sale %s: %d x %s to %s, total %s", sale.InvoiceID, sale.Quantity, sale.ProductName, sale.Customer, sale.Total.StringFixed(2)))
}

// ListPurchases godoc
// @Summary      List purchases
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Purchase}
// @Router       /api/purchases [get]
func (h *TradeHandler) ListPurchases(c *gin.Context) {
	purchases, err := h.tradeService.ListPurchases(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, purchases)
}

// RecordPurchase handles POST /api/purchases
// @Summary      Record purchase
// @Description  Increments stock and appends the purchase atomically
// @Tags         purchases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordPurchaseRequest  true  "Purchase Payload"
// @Success      201      {object}  response.Response{data=model.Purchase}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/purchases [post]
func (h *TradeHandler) RecordPurchase(c *gin.Context) {
	var req service.RecordPurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	purchase, err := h.tradeService.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, purchase, model.ActionRecordPurchase,
		fmt.Sprintf("Purchase %s: %d x %s from %s, cost %s", purchase.POID, purchase.Quantity, purchase.ProductName, purchase.Supplier, purchase.Cost.StringFixed(2)))
}
