package handler

import (
	"net/http"
	"sync"

	"bizledger/internal/access"
	"bizledger/internal/logger"
	"bizledger/internal/middleware"
	"bizledger/internal/service"
	"bizledger/internal/websocket"
	pkgvalidator "bizledger/pkg/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Services is everything the HTTP layer calls into
type Services struct {
	Users       service.UserService
	Inventory   service.InventoryService
	Trade       service.TradeService
	Contacts    service.ContactService
	Employees   service.EmployeeService
	Accounting  service.AccountingService
	Bank        service.BankService
	Tasks       service.TaskService
	Audit       service.AuditService
	Settings    service.SettingsService
	Dashboard   service.DashboardService
	Statistics  service.StatisticsService
	Maintenance service.MaintenanceService
}

type RouterOptions struct {
	Auth             *middleware.Auth
	Hub              *websocket.Hub // nil disables /ws
	Logger           *zap.Logger
	CORSAllowOrigins []string
	SecureCookie     bool
}

var registerRules sync.Once

// NewRouter wires every handler onto a fresh gin engine
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	registerRules.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			pkgvalidator.RegisterRules(v)
		}
	})

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(logger.Recovery(log), logger.GinMiddleware(log))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.CORSAllowOrigins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	if opts.Hub != nil {
		hub := opts.Hub
		router.GET("/ws", opts.Auth.RequireModule(access.Dashboard), func(c *gin.Context) {
			websocket.ServeWs(hub, c)
		})
	}

	api := router.Group("")
	NewUserHandler(svc.Users, svc.Audit, opts.Auth, opts.SecureCookie).RegisterRoutes(api)
	NewInventoryHandler(svc.Inventory, svc.Settings, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewContactHandler(svc.Contacts, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewTradeHandler(svc.Trade, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewEmployeeHandler(svc.Employees, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewAccountingHandler(svc.Accounting, svc.Bank, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewTaskHandler(svc.Tasks, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewAuditHandler(svc.Audit, opts.Auth).RegisterRoutes(api)
	NewSettingsHandler(svc.Settings, svc.Audit, opts.Auth).RegisterRoutes(api)
	NewStatisticsHandler(svc.Dashboard, svc.Statistics, opts.Auth).RegisterRoutes(api)
	NewMaintenanceHandler(svc.Maintenance, svc.Audit, opts.Auth).RegisterRoutes(api)

	return router
}
