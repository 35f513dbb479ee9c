package handler

import (
	"net/http"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
	auth            *middleware.Auth
	trail           auditTrail
}

func NewEmployeeHandler(employeeService service.EmployeeService, auditService service.AuditService, auth *middleware.Auth) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService: employeeService,
		auth:            auth,
		trail:           auditTrail{audit: auditService},
	}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/employees", h.auth.RequireModule(access.Employees))
	{
		group.GET("", h.ListEmployees)
		group.POST("", h.CreateEmployee)
		group.PUT("/:id", h.UpdateEmployee)
		group.DELETE("/:id", h.DeleteEmployee)
	}
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Employee}
// @Failure      403  {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.employeeService.ListEmployees(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, employees)
}

// CreateEmployee godoc
// @Summary      Create employee
// @Description  Status defaults to Active and join date to today
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.EmployeeRequest  true  "Employee Payload"
// @Success      201      {object}  response.Response{data=model.Employee}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusCreated, employee, model.ActionCreateEmployee,
		"Created employee "+employee.Name+" ("+employee.EmpID+")")
}

// UpdateEmployee godoc
// @Summary      Update employee
// @Tags         employees
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Employee ID"
// @Param        payload  body      service.EmployeeRequest  true  "Employee Payload"
// @Success      200      {object}  response.Response{data=model.Employee}
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if !bindJSON(c, &req) {
		return
	}
	employee, err := h.employeeService.UpdateEmployee(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, employee, model.ActionUpdateEmployee, "Updated employee "+employee.EmpID)
}

// DeleteEmployee godoc
// @Summary      Delete employee
// @Tags         employees
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Employee deleted successfully", model.ActionDeleteEmployee, "Deleted employee "+id)
}
