package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"viya-model-manager/internal/adapters/primary/http/handlers"
	"viya-model-manager/internal/adapters/primary/http/middleware"
	"viya-model-manager/internal/adapters/secondary/kubernetes"
	"viya-model-manager/internal/adapters/secondary/postgres"
	"viya-model-manager/internal/adapters/secondary/viya"
	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/config"
	"viya-model-manager/internal/core/ports/output"
	"viya-model-manager/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	config.InitLogger(cfg.Logger)

	ctx := context.Background()

	// Viya credentials come from a Kubernetes Secret when enabled, else from env
	creds := ports.Credentials{
		Username:     cfg.Viya.Username,
		Password:     cfg.Viya.Password,
		ClientID:     cfg.Viya.ClientID,
		ClientSecret: cfg.Viya.ClientSecret,
	}
	if cfg.Kubernetes.Enabled {
		src, err := kubernetes.NewSecretCredentialSource(&cfg.Kubernetes)
		if err != nil {
			log.Fatalf("kubernetes credential source: %v", err)
		}
		creds, err = src.Credentials(ctx)
		if err != nil {
			log.Fatalf("read viya credentials: %v", err)
		}
		log.WithField("secret", cfg.Kubernetes.SecretName).Info("Viya credentials loaded from Kubernetes secret")
	}

	viyaCfg := viya.ConfigFrom(&cfg.Viya)
	session, err := viya.Login(ctx, cfg.Viya.URL, creds, viya.NewHTTPClient(viyaCfg))
	if err != nil {
		log.Fatalf("sas logon: %v", err)
	}
	client := viya.NewClient(viyaCfg, session.TokenSource)

	platform, err := viya.NewPlatform(client, cfg.Viya.Version)
	if err != nil {
		log.Fatalf("viya version: %v", err)
	}

	// Import history (Optional - based on config)
	var pool *pgxpool.Pool
	var history ports.ImportRecordRepository
	if cfg.Database.Enabled {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
		if err != nil {
			log.Fatalf("parse db config: %v", err)
		}
		poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			log.Fatalf("create db pool: %v", err)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("ping db: %v", err)
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatalf("db schema: %v", err)
		}
		history = postgres.NewImportRecordRepository(pool)
		log.Info("database connection established")
	} else {
		log.Info("import history disabled")
	}

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapters (Output Ports)
	modelRepo := viya.NewModelRepository(client)
	pipelineClient := viya.NewPipelineAutomation(client)
	scoreWriter := artifacts.NewTemplateScoreCodeWriter()

	// Core Services (Application Layer)
	importSvc := services.NewModelImportService(modelRepo, platform, scoreWriter, history)
	pipelineSvc := services.NewPipelineService(pipelineClient)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(importSvc, pipelineSvc)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), metrics.Handler(), gin.Recovery())

	api := router.Group("/api/v1/model-manager")
	h.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if pool != nil {
			if err := pool.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}
