package handler

import (
	"net/http"
	"strconv"

	"bizledger/internal/access"
	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler serves the dashboard aggregate and the report data
type StatisticsHandler struct {
	dashboardService  service.DashboardService
	statisticsService service.StatisticsService
	auth              *middleware.Auth
}

func NewStatisticsHandler(dashboardService service.DashboardService, statisticsService service.StatisticsService, auth *middleware.Auth) *StatisticsHandler {
	return &StatisticsHandler{dashboardService: dashboardService, statisticsService: statisticsService, auth: auth}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/dashboard", h.auth.RequireModule(access.Dashboard), h.GetDashboard)

	reports := router.Group("/api/reports", h.auth.RequireModule(access.Reports))
	{
		reports.GET("/financial", h.GetFinancialReport)
		reports.GET("/monthly", h.GetMonthlyTotals)
		reports.GET("/top-products", h.GetTopProducts)
	}
}

// @Summary      Get dashboard
// @Description  Counts, ledger totals, bank balance, low stock products and open tasks
// @Tags         statistics
// @Produce      json
// @Success      200 {object} response.Response{data=model.Dashboard}
// @Failure      401 {object} response.Response
// @Failure      500 {object} response.Response
// @Security     BearerAuth
// @Router       /api/dashboard [get]
func (h *StatisticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboardService.Dashboard(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, dashboard)
}

// @Summary      Get financial report data
// @Description  Ledger summary, ledger entries and the product list for a report renderer
// @Tags         statistics
// @Produce      json
// @Success      200 {object} response.Response{data=model.FinancialReport}
// @Failure      403 {object} response.Response
// @Security     BearerAuth
// @Router       /api/reports/financial [get]
func (h *StatisticsHandler) GetFinancialReport(c *gin.Context) {
	report, err := h.dashboardService.FinancialReport(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, report)
}

// @Summary      Monthly ledger totals
// @Description  Income, expense and net per YYYY-MM
// @Tags         statistics
// @Produce      json
// @Param        from  query  string  false  "First date, YYYY-MM-DD"
// @Param        to    query  string  false  "Last date, YYYY-MM-DD"
// @Success      200 {object} response.Response{data=[]model.PeriodTotals}
// @Failure      400 {object} response.Response
// @Security     BearerAuth
// @Router       /api/reports/monthly [get]
func (h *StatisticsHandler) GetMonthlyTotals(c *gin.Context) {
	var q service.PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query: "+err.Error()))
		return
	}
	totals, err := h.statisticsService.MonthlyTotals(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, totals)
}

// @Summary      Best selling products
// @Tags         statistics
// @Produce      json
// @Param        limit  query  int  false  "How many products (default 5)"
// @Success      200 {object} response.Response{data=[]model.ProductRanking}
// @Security     BearerAuth
// @Router       /api/reports/top-products [get]
func (h *StatisticsHandler) GetTopProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rankings, err := h.statisticsService.TopProducts(c.Request.Context(), limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, rankings)
}
