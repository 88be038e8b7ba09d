package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chiwei-platform/serverless-engine/internal/adapter/cloudflare"
	httpadapter "github.com/chiwei-platform/serverless-engine/internal/adapter/http"
	"github.com/chiwei-platform/serverless-engine/internal/adapter/kubernetes"
	"github.com/chiwei-platform/serverless-engine/internal/adapter/probe"
	"github.com/chiwei-platform/serverless-engine/internal/adapter/repository"
	"github.com/chiwei-platform/serverless-engine/internal/config"
	"github.com/chiwei-platform/serverless-engine/internal/port"
	"github.com/chiwei-platform/serverless-engine/internal/service"
)

func main() {
	cfg := config.Load()

	// K8s 客户端：控制面不可用直接退出，它是本服务存在的全部意义
	cs, dyn, err := kubernetes.NewClients(cfg.KubeconfigPath)
	if err != nil {
		slog.Error("failed to build k8s clients", "error", err)
		os.Exit(1)
	}
	gateway := kubernetes.NewGateway(dyn, cs, cfg.BaseDomain)

	// CDN 边缘（可选，未配置时部署流程跳过清除和统计）
	var edge port.EdgeCache
	if cfg.CloudflareAPIToken != "" && cfg.CloudflareZoneID != "" {
		edge = cloudflare.NewClient(cfg.CloudflareAPIURL, cfg.CloudflareAPIToken, cfg.CloudflareZoneID)
	} else {
		slog.Warn("cloudflare not configured, edge cache purge disabled")
	}

	// 审计记录（可选，无数据库时降级运行）
	var records port.DeploymentRecordRepository
	if cfg.DatabaseURL != "" {
		db, err := repository.OpenDB(cfg.DatabaseURL)
		if err != nil {
			slog.Warn("db unavailable, deployment records disabled", "error", err)
		} else {
			records = repository.NewRecordRepo(db)
		}
	}

	prober := probe.NewHTTPProber(cfg.WarmupTimeout)
	corrector := service.NewAutoscalerCorrector(gateway, cfg.CorrectorAttempts, cfg.CorrectorInterval)

	// 服务层
	deploySvc := service.NewDeployService(gateway, edge, prober, records, corrector, service.DeployConfig{
		DefaultNamespace: cfg.DefaultNamespace,
		BaseDomain:       cfg.BaseDomain,
		PropagationWait:  cfg.PropagationWait,
	})
	logSvc := service.NewLogService(gateway)
	statsSvc := service.NewStatsService(gateway, edge, cfg.BaseDomain)

	// HTTP 路由
	handler := httpadapter.NewRouter(
		httpadapter.NewDeployHandler(deploySvc),
		httpadapter.NewLogHandler(logSvc),
		httpadapter.NewStatsHandler(statsSvc),
		cfg.APIToken,
		cfg.MaxBodyBytes,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "base_domain", cfg.BaseDomain)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}
