package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/hannan/internal/config"
	"github.com/mamadbah2/hannan/internal/domain/modules"
	"github.com/mamadbah2/hannan/internal/repository"
	"github.com/mamadbah2/hannan/internal/repository/memory"
	"github.com/mamadbah2/hannan/internal/repository/mongodb"
	"github.com/mamadbah2/hannan/internal/repository/sheets"
	"github.com/mamadbah2/hannan/internal/scheduler"
	"github.com/mamadbah2/hannan/internal/server/handlers"
	"github.com/mamadbah2/hannan/internal/server/router"
	"github.com/mamadbah2/hannan/internal/service/dashboard"
	"github.com/mamadbah2/hannan/internal/service/images"
	"github.com/mamadbah2/hannan/internal/service/keepalive"
	"github.com/mamadbah2/hannan/internal/service/records"
	"github.com/mamadbah2/hannan/internal/service/summary"
	whatsappclient "github.com/mamadbah2/hannan/pkg/clients/whatsapp"
	"github.com/mamadbah2/hannan/pkg/logger"
)

func main() {
	envFile := flag.String("env-file", "", "environment file to load")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Log.Level, Development: cfg.Log.Development}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store repository.RecordStore
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		baseLogger.Warn("using in-memory storage, records are lost on restart")
		store = memory.NewStore()
	default:
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := mongoRepo.EnsureIndexes(indexCtx, modules.All()); err != nil {
			baseLogger.Fatal("failed to ensure indexes", zap.Error(err))
		}
		cancel()
		store = mongoRepo
	}

	var mirror records.Mirror
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		mirror = sheets.NewRecordMirror(sheetsRepo)
		baseLogger.Info("google sheets mirror enabled")
	}

	recordSvc := records.NewService(store, mirror, baseLogger.Named("svc.records"))
	summarySvc := summary.NewService(recordSvc, baseLogger.Named("svc.summary"))
	dashboardSvc := dashboard.NewService(recordSvc, baseLogger.Named("svc.dashboard"))
	compressor := images.NewCompressor(cfg.Images.MaxDimension, cfg.Images.JPEGQuality, cfg.Images.MaxUploadBytes)

	engine := router.New(
		handlers.NewRecordsHandler(recordSvc, compressor, baseLogger.Named("handlers.records")),
		handlers.NewReportsHandler(summarySvc, dashboardSvc, baseLogger.Named("handlers.reports")),
		baseLogger.Named("router"),
	)

	var notifier whatsappclient.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp reminder notices enabled")
	}

	var pinger scheduler.Pinger
	if cfg.KeepAlive.URL != "" {
		pinger = keepalive.NewPinger(cfg.KeepAlive, baseLogger.Named("keepalive"))
	}

	sched, err := scheduler.NewScheduler(*cfg, pinger, recordSvc, notifier, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
