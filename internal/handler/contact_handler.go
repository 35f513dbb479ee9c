package handler

import (
	"net/http"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"

	"github.com/gin-gonic/gin"
)

// ContactHandler serves the customer and supplier directories
type ContactHandler struct {
	contactService service.ContactService
	auth           *middleware.Auth
	trail          auditTrail
}

func NewContactHandler(contactService service.ContactService, auditService service.AuditService, auth *middleware.Auth) *ContactHandler {
	return &ContactHandler{
		contactService: contactService,
		auth:           auth,
		trail:          auditTrail{audit: auditService},
	}
}

func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	customers := router.Group("/api/customers", h.auth.RequireModule(access.Customers))
	{
		customers.GET("", h.ListCustomers)
		customers.POST("", h.CreateCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}

	suppliers := router.Group("/api/suppliers", h.auth.RequireModule(access.Suppliers))
	{
		suppliers.GET("", h.ListSuppliers)
		suppliers.POST("", h.CreateSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.DELETE("/:id", h.DeleteSupplier)
	}
}

// ListCustomers godoc
// @Summary      List customers
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Customer}
// @Router       /api/customers [get]
func (h *ContactHandler) ListCustomers(c *gin.Context) {
	customers, err := h.contactService.ListCustomers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, customers)
}

// CreateCustomer godoc
// @Summary      Create customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CustomerRequest  true  "Customer Payload"
// @Success      201      {object}  response.Response{data=model.Customer}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/customers [post]
func (h *ContactHandler) CreateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.contactService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, customer, model.ActionCreateCustomer,
		"Created customer "+customer.Name+" ("+customer.CustomerID+")")
}

// UpdateCustomer godoc
// @Summary      Update customer
// @Tags         customers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Customer ID"
// @Param        payload  body      service.CustomerRequest  true  "Customer Payload"
// @Success      200      {object}  response.Response{data=model.Customer}
// @Failure      404      {object}  response.Response
// @Router       /api/customers/{id} [put]
func (h *ContactHandler) UpdateCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.contactService.UpdateCustomer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, customer, model.ActionUpdateCustomer, "Updated customer "+customer.CustomerID)
}

// DeleteCustomer godoc
// @Summary      Delete customer
// @Tags         customers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/customers/{id} [delete]
func (h *ContactHandler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := h.contactService.DeleteCustomer(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Customer deleted successfully", model.ActionDeleteCustomer, "Deleted customer "+id)
}

// ListSuppliers godoc
// @Summary      List suppliers
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Supplier}
// @Router       /api/suppliers [get]
func (h *ContactHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.contactService.ListSuppliers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, suppliers)
}

// CreateSupplier godoc
// @Summary      Create supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SupplierRequest  true  "Supplier Payload"
// @Success      201      {object}  response.Response{data=model.Supplier}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/suppliers [post]
func (h *ContactHandler) CreateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.contactService.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, supplier, model.ActionCreateSupplier,
		"Created supplier "+supplier.Name+" ("+supplier.SupplierID+")")
}

// UpdateSupplier godoc
// @Summary      Update supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Supplier ID"
// @Param        payload  body      service.SupplierRequest  true  "Supplier Payload"
// @Success      200      {object}  response.Response{data=model.Supplier}
// @Failure      404      {object}  response.Response
// @Router       /api/suppliers/{id} [put]
func (h *ContactHandler) UpdateSupplier(c *gin.Context) {
	var req service.SupplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.contactService.UpdateSupplier(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, supplier, model.ActionUpdateSupplier, "Updated supplier "+supplier.SupplierID)
}

// DeleteSupplier godoc
// @Summary      Delete supplier
// @Tags         suppliers
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/suppliers/{id} [delete]
func (h *ContactHandler) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")
	if err := h.contactService.DeleteSupplier(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Supplier deleted successfully", model.ActionDeleteSupplier, "Deleted supplier "+id)
}
