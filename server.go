package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/handlers"
	"github.com/bizflowhq/bizflow_backend/middlewares"
	"github.com/bizflowhq/bizflow_backend/models"
)

const defaultPort = "8080"

var tracer = otel.Tracer("bizflow-backend")

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func registerRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	api.POST("/auth/login", handlers.Login)
	api.POST("/auth/register", handlers.Register)

	authed := api.Group("")
	authed.Use(middlewares.RequireAuth())
	{
		authed.GET("/auth/me", handlers.Me)

		authed.POST("/stores", handlers.CreateStore)
		authed.GET("/stores", handlers.MyStores)
		authed.GET("/stores/:id", handlers.GetStore)

		authed.POST("/products", handlers.CreateProduct)
		authed.GET("/products", handlers.GetProducts)
		authed.GET("/products/:id", handlers.GetProduct)
		authed.GET("/products/:id/movements", handlers.GetMovements)

		authed.POST("/inventory/import", handlers.ImportStock)
		authed.GET("/inventory/stock", handlers.GetStockLevels)

		authed.POST("/customers", handlers.CreateCustomer)
		authed.GET("/customers", handlers.GetCustomers)
		authed.GET("/customers/:id", handlers.GetCustomer)
		authed.GET("/customers/:id/debt", handlers.GetCustomerDebt)
		authed.POST("/customers/:id/payments", handlers.RecordCustomerPayment)
		authed.GET("/customers/:id/payments", handlers.GetCustomerPayments)

		authed.POST("/orders", handlers.CreateOrder)
		authed.GET("/orders", handlers.GetOrders)
		authed.GET("/orders/:id", handlers.GetOrder)
		authed.POST("/orders/:id/confirm", handlers.ConfirmOrder)
		authed.POST("/orders/:id/cancel", handlers.CancelOrder)
		authed.POST("/orders/:id/complete", handlers.CompleteOrder)

		authed.POST("/draft-orders", handlers.CreateDraftOrder)
		authed.GET("/draft-orders", handlers.GetDraftOrders)
		authed.GET("/draft-orders/:id", handlers.GetDraftOrder)
		authed.POST("/draft-orders/:id/confirm", handlers.ConfirmDraftOrder)
		authed.POST("/draft-orders/:id/reject", handlers.RejectDraftOrder)

		authed.GET("/reports/revenue", handlers.GetRevenueReport)
		authed.GET("/reports/debt-book", handlers.GetDebtBook)
		authed.GET("/reports/ledger", handlers.GetLedgerEntries)
		authed.GET("/reports/ledger/export", handlers.ExportLedgerXlsx)
	}
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP so the startup probe passes. Until the
	// DB is ready, app endpoints return 503.
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production require an explicit allowlist; allow all otherwise.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Store-Id", "X-Correlation-Id")
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", "X-Correlation-Id")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.AuthMiddleware())
	r.Use(middlewares.StoreMiddleware())
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		c.Request = c.Request.WithContext(ctx)
		defer span.End()
		c.Next()
	})

	registerRoutes(r)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "NOT_FOUND", "message": "route not found"},
		})
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on graceful shutdown.
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedis()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate runs DDL that can block tables; allow running it as a
	// separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if config.DatabaseDriver() == "mysql" {
		if err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error; err != nil {
			logger.WithFields(logrus.Fields{"field": "database"}).Warn("failed to set isolation level: " + err.Error())
		}
	}

	log.Println("Server started successfully on port " + port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
