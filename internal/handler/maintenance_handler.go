package handler

import (
	"net/http"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/model"
	"bizledger/internal/service"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintenanceService service.MaintenanceService
	auth               *middleware.Auth
	trail              auditTrail
}

func NewMaintenanceHandler(maintenanceService service.MaintenanceService, auditService service.AuditService, auth *middleware.Auth) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		auth:               auth,
		trail:              auditTrail{audit: auditService},
	}
}

func (h *MaintenanceHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/admin/collections", h.auth.RequireModule(access.Maintenance))
	{
		group.GET("", h.ListWipeable)
		group.DELETE("/:name", h.WipeCollection)
	}
}

// ListWipeable godoc
// @Summary      Collections that may be wiped
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/admin/collections [get]
func (h *MaintenanceHandler) ListWipeable(c *gin.Context) {
	ok(c, h.maintenanceService.Wipeable())
}

// WipeCollection godoc
// @Summary      Wipe a collection
// @Description  Deletes every record of one collection. Users and the audit log can not be wiped.
// @Tags         maintenance
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Collection name"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/admin/collections/{name} [delete]
func (h *MaintenanceHandler) WipeCollection(c *gin.Context) {
	name := c.Param("name")
	if err := h.maintenanceService.Wipe(c.Request.Context(), name); err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, "Collection "+name+" wiped", model.ActionWipeCollection, "Wiped collection "+name)
}
