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

type SettingsHandler struct {
	settingsService service.SettingsService
	auth            *middleware.Auth
	trail           auditTrail
}

func NewSettingsHandler(settingsService service.SettingsService, auditService service.AuditService, auth *middleware.Auth) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		auth:            auth,
		trail:           auditTrail{audit: auditService},
	}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/settings", h.auth.RequireModule(access.Settings))
	{
		group.GET("", h.GetSettings)
		group.PUT("", h.UpdateSettings)
	}
}

// GetSettings godoc
// @Summary      Get settings
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=service.Settings}
// @Router       /api/settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, settings)
}

// UpdateSettings godoc
// @Summary      Update settings
// @Description  Only the fields present in the body change
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateSettingsRequest  true  "Settings Payload"
// @Success      200      {object}  response.Response{data=service.Settings}
// @Failure      400      {object}  response.Response
// @Router       /api/settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.settingsService.Update(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	h.trail.done(c, http.StatusOK, settings, model.ActionUpdateSettings,
		fmt.Sprintf("Company %q, currency %q, low stock threshold %d", settings.CompanyName, settings.CurrencySymbol, settings.LowStockThreshold))
}
