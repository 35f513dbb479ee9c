package handler

import (
	"strconv"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/pkg/pagination"

	"github.com/gin-gonic/gin"
)

const defaultRecentAudit = 20

type AuditHandler struct {
	auditService service.AuditService
	auth         *middleware.Auth
}

func NewAuditHandler(auditService service.AuditService, auth *middleware.Auth) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: auth}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs", h.auth.RequireModule(access.Audit))
	{
		group.GET("", h.GetAuditLogs)
		group.GET("/recent", h.GetRecent)
	}
}

// GetAuditLogs retrieves paginated audit events, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=pagination.Page[service.AuditLogResponse]}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, pagination.NewPage(logs, total, params))
}

// GetRecent returns the latest n events
// @Summary      Recent audit events
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        n    query     int  false  "How many events (default 20)"
// @Success      200  {object}  response.Response{data=[]service.AuditLogResponse}
// @Router       /api/audit-logs/recent [get]
func (h *AuditHandler) GetRecent(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", strconv.Itoa(defaultRecentAudit)))
	if err != nil || n < 1 {
		n = defaultRecentAudit
	}
	if n > pagination.MaxLimit {
		n = pagination.MaxLimit
	}

	logs, err := h.auditService.Recent(c.Request.Context(), n)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, logs)
}
