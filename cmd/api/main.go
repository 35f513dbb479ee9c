package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "bizledger/api/swagger" // swagger docs
	"bizledger/internal/config"
	"bizledger/internal/credential"
	"bizledger/internal/database"
	"bizledger/internal/handler"
	"bizledger/internal/logger"
	"bizledger/internal/middleware"
	"bizledger/internal/repository"
	"bizledger/internal/service"
	"bizledger/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Bizledger API
// @version         1.0
// @description     Inventory, sales, purchasing, accounting and back office records for a small business.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	zl := logger.New(cfg.Log)
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.Database, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}

	var locker repository.Locker = repository.NewMutexLocker(cfg.Lock.Timeout)
	if cfg.Redis.Enabled {
		client, err := repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zl.Fatal("redis connection failed", zap.Error(err))
		}
		defer client.Close()
		locker = repository.NewRedisLocker(client, cfg.Lock.Timeout, cfg.Lock.TTL)
		zl.Info("using redis collection locks", zap.String("addr", cfg.Redis.Addr))
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zl)
	go wsHub.Run()
	defer wsHub.Stop()

	// Set up dependencies (Repository -> Service -> Handler)
	store := repository.NewStore(db, locker)
	credentials := credential.New(
		credential.WithIterations(cfg.Credential.Iterations),
		credential.WithLegacyUnsalted(cfg.Credential.AllowLegacy),
	)

	settingsService := service.NewSettingsService(store.Settings, zl)
	userService := service.NewUserService(store.Users, store.Tx, credentials, []byte(cfg.JWT.Secret), cfg.JWT.TTL, nil, zl)
	inventoryService := service.NewInventoryService(store.Products, store.Tx, nil, zl)
	tradeService := service.NewTradeService(store.Sales, store.Purchases, service.NewStockLedger(store.Products), store.Tx, wsHub, nil, zl)
	contactService := service.NewContactService(store.Customers, store.Suppliers, store.Tx)
	employeeService := service.NewEmployeeService(store.Employees, store.Tx, nil)
	bankService := service.NewBankService(store.BankTransactions, store.Tx, nil)
	taskService := service.NewTaskService(store.Tasks, store.Tx, nil)
	accountingService, err := service.NewAccountingService(
		store.LedgerEntries, store.Sales, store.Purchases, store.Employees,
		store.Tx, wsHub, cfg.Accounting.PurchaseDedupKey, nil, zl,
	)
	if err != nil {
		zl.Fatal("accounting setup failed", zap.Error(err))
	}

	ctx := context.Background()
	if err := settingsService.SeedDefaults(ctx); err != nil {
		zl.Fatal("seeding settings failed", zap.Error(err))
	}
	created, err := userService.EnsureAdmin(ctx, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword)
	if err != nil {
		zl.Fatal("bootstrap admin failed", zap.Error(err))
	}
	if created {
		zl.Warn("bootstrap admin created, change its password", zap.String("username", cfg.Bootstrap.AdminUsername))
	}

	router := handler.NewRouter(handler.Services{
		Users:       userService,
		Inventory:   inventoryService,
		Trade:       tradeService,
		Contacts:    contactService,
		Employees:   employeeService,
		Accounting:  accountingService,
		Bank:        bankService,
		Tasks:       taskService,
		Audit:       service.NewAuditService(store.Audit, nil, zl),
		Settings:    settingsService,
		Dashboard:   service.NewDashboardService(inventoryService, tradeService, contactService, taskService, accountingService, bankService, settingsService, nil),
		Statistics:  service.NewStatisticsService(store.Reports),
		Maintenance: service.NewMaintenanceService(store, zl),
	}, handler.RouterOptions{
		Auth:             middleware.NewAuth([]byte(cfg.JWT.Secret), userService, zl),
		Hub:              wsHub,
		Logger:           zl,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		SecureCookie:     cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
