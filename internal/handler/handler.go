package handler

import (
	"context"
	"fmt"
	"net/http"

	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into req and writes a 400 when it does not parse
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

func fail(c *gin.Context, err error) {
	res := response.Fail(err)
	c.JSON(res.StatusCode, res)
}

func actor(c *gin.Context) string {
	return c.GetString(middleware.CtxUsername)
}

// auditTrail writes the audit event for a finished command. A failed write
// never fails the command; it comes back as a warning on the response.
type auditTrail struct {
	audit service.AuditService
}

func (a auditTrail) record(ctx context.Context, username, action, details string) error {
	if a.audit == nil {
		return nil
	}
	if err := a.audit.Record(ctx, username, action, details); err != nil {
		return fmt.Errorf("operation succeeded but audit log write failed: %w", err)
	}
	return nil
}

// done records the audit event and writes the success envelope
func (a auditTrail) done(c *gin.Context, status int, data any, action, details string) {
	warn := a.record(c.Request.Context(), actor(c), action, details)
	c.JSON(status, response.SuccessWithWarning(status, data, warn))
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
