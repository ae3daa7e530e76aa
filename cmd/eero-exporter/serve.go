package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	fileaudit "github.com/fulviofreitas/eero-exporter/internal/adapters/audit/file"
	remoteaudit "github.com/fulviofreitas/eero-exporter/internal/adapters/audit/remote"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/collector/proc"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/http/ginserver"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/http/ginserver/middlewares"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/prom"
	sessionfile "github.com/fulviofreitas/eero-exporter/internal/adapters/session/file"
	"github.com/fulviofreitas/eero-exporter/internal/adapters/upstream/eeroapi"
	"github.com/fulviofreitas/eero-exporter/internal/config"
	"github.com/fulviofreitas/eero-exporter/internal/services/audit"
	"github.com/fulviofreitas/eero-exporter/internal/services/scheduler"
	"github.com/fulviofreitas/eero-exporter/internal/store"
)

const shutdownGrace = 10 * time.Second

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	cfg, ec, ok := loadConfig(args, stderr)
	if !ok {
		return ec
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.Level())
	logger, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	sessions := sessionfile.New(cfg.SessionFile)
	if !sessions.Validate(ctx) {
		// Not fatal: an external login can rewrite the file while we run.
		logger.Warn("no valid session on disk, collection will fail until login",
			zap.String("path", sessions.Path()))
	}

	client, err := eeroapi.New(cfg.APIBase, &http.Client{Timeout: cfg.Timeout}, sessions)
	if err != nil {
		fmt.Fprintf(stderr, "upstream client: %v\n", err)
		return 1
	}

	cache := store.NewSnapshotCache()
	health := store.NewHealth()

	sched := scheduler.New(scheduler.Config{
		Interval:        cfg.Interval,
		UpstreamTimeout: cfg.Timeout,
		RateLimitMax:    cfg.RateLimitMax,
		CompoundBackoff: cfg.RateLimitCompound,
		IncludeDevices:  cfg.IncludeDevices,
		IncludeProfiles: cfg.IncludeProfiles,
		WithActivity:    cfg.IncludeActivity,
		WithBackup:      cfg.IncludeBackup,
	}, client, sessions, cache, health, logger)
	sched.SampleProcess(proc.New().Sample)

	if subject := buildAuditSubject(cfg, logger); subject != nil {
		sched.NotifyCycle(func(ctx context.Context, o store.Outcome) {
			subject.Publish(ctx, audit.NewEvent(o))
		})
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prom.NewBridge(cache, health))

	gin.SetMode(gin.ReleaseMode)
	h := ginserver.NewHandler(cache, health, reg, versionString())
	router := ginserver.NewRouter(h, middlewares.ZapLogger(logger))

	srv := &http.Server{Addr: cfg.Address, Handler: router}

	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("collection loop stopped", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("address", cfg.Address),
			zap.Duration("interval", cfg.Interval),
			zap.String("version", versionString()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		logger.Error("http server failed", zap.Error(err))
		return 1
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("stopped")
	return 0
}

// buildAuditSubject assembles the optional cycle-event sinks. A bad webhook
// URL disables that sink but never blocks startup.
func buildAuditSubject(cfg config.Config, logger *zap.Logger) *audit.Subject {
	var sinks []audit.Observer
	if cfg.AuditFile != "" {
		sinks = append(sinks, fileaudit.New(cfg.AuditFile))
	}
	if cfg.AuditURL != "" {
		remote, err := remoteaudit.New(cfg.AuditURL, cfg.AuditKey, nil)
		if err != nil {
			logger.Warn("audit webhook disabled", zap.String("url", cfg.AuditURL), zap.Error(err))
		} else {
			sinks = append(sinks, remote)
		}
	}
	if len(sinks) == 0 {
		return nil
	}

	subject := audit.NewSubject(sinks...)
	subject.SetErrorHandler(func(err error) {
		logger.Warn("audit sink error", zap.Error(err))
	})
	return subject
}
