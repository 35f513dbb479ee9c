package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"bizledger/internal/access"
	"bizledger/internal/apperr"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
	settingsService  service.SettingsService
	auth             *middleware.Auth
	trail            auditTrail
}

func NewInventoryHandler(
	inventoryService service.InventoryService,
	settingsService service.SettingsService,
	auditService service.AuditService,
	auth *middleware.Auth,
) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		settingsService:  settingsService,
		auth:             auth,
		trail:            auditTrail{audit: auditService},
	}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products", h.auth.RequireModule(access.Inventory))
	{
		products.GET("", h.GetProducts)
		products.GET("/low-stock", h.GetLowStock)
		products.GET("/:id", h.GetProduct)
		products.POST("", h.CreateProduct)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// GetProducts lists the inventory in insertion order
// @Summary      Get products
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200    {object}  response.Response{data=[]model.Product}
// @Failure      500    {object}  response.Response
// @Router       /api/products [get]
func (h *InventoryHandler) GetProducts(c *gin.Context) {
	products, err := h.inventoryService.ListProducts(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, products)
}

// GetProduct fetches one product by id
// @Summary      Get product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, product)
}

// GetLowStock lists products at or below the threshold. Without a threshold
// query parameter the low_stock_threshold setting applies.
// @Summary      Low stock products
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        threshold  query     int  false  "Override the configured threshold"
// @Success      200        {object}  response.Response{data=[]model.Product}
// @Failure      400        {object}  response.Response
// @Router       /api/products/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	ctx := c.Request.Context()

	var threshold int
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(c, apperr.Validation("threshold must be a non-negative integer"))
			return
		}
		threshold = n
	} else {
		settings, err := h.settingsService.Get(ctx)
		if err != nil {
			fail(c, err)
			return
		}
		threshold = settings.LowStockThreshold
	}

	products, err := h.inventoryService.LowStock(ctx, threshold)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, products)
}

// CreateProduct adds a product with its initial stock
// @Summary      Create product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, product, model.ActionCreateProduct,
		fmt.Sprintf("Created product %s (%s) with stock %d", product.Name, product.ID, product.Stock))
}

// UpdateProduct edits name, category and price. Stock only moves through sales and purchases.
// @Summary      Update product
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, product, model.ActionUpdateProduct, "Updated product "+product.ID)
}

// DeleteProduct removes a product
// @Summary      Delete product
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Product deleted successfully", model.ActionDeleteProduct, "Deleted product "+id)
}
