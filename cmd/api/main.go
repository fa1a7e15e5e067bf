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

	_ "taxcal/api/swagger" // swagger docs
	"taxcal/internal/config"
	"taxcal/internal/database"
	"taxcal/internal/handler"
	"taxcal/internal/logger"
	"taxcal/internal/metrics"
	"taxcal/internal/repository"
	"taxcal/internal/seed"
	"taxcal/internal/service"
	"taxcal/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Tax Calculation API
// @version         1.0
// @description     Configure per-country tax rules and calculate taxes and net salary.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("Logger setup failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(cfg, logger.NewGormLogger(zlog))
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	zlog.Info("audit database ready", zap.String("type", cfg.DBType))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog)
	go wsHub.Run(ctx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Set up dependencies (Repository -> Service -> Handler)
	taxRuleRepo := repository.NewMemoryTaxRuleRepository()
	auditRepo := repository.NewAuditRepository(db)
	taxService := service.NewTaxService(taxRuleRepo, auditRepo, wsHub, m, zlog)
	auditService := service.NewAuditService(auditRepo)

	rules, err := seed.LoadRules(cfg.RulesFile)
	if err != nil {
		zlog.Fatal("loading seed rules failed", zap.String("path", cfg.RulesFile), zap.Error(err))
	}
	applied := seed.Apply(ctx, taxService, rules, zlog)
	zlog.Info("seed rules applied", zap.Int("applied", applied), zap.Int("total", len(rules)))

	taxHandler := handler.NewTaxHandler(taxService, zlog)
	auditHandler := handler.NewAuditHandler(auditService, zlog)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(zlog))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", logger.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{logger.HeaderRequestID}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// API Routing
	taxHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
