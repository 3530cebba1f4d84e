package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/cache"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/config"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/pricing"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/repository/mongodb"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/repository/sheets"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/scheduler"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/server/handlers"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/server/router"
	approvalsvc "github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/approval"
	catalogsvc "github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/catalog"
	repricersvc "github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/repricer"
	"github.com/GavinSmith1983/trading-dashboard-sub001/pkg/clients/channelengine"
	"github.com/GavinSmith1983/trading-dashboard-sub001/pkg/clients/mailer"
	"github.com/GavinSmith1983/trading-dashboard-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.Pricing.AccountID)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var catalogSource sheets.Repository
	if cfg.Sheets.Enabled() {
		catalogSource, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("google sheets not configured, catalog sync disabled")
	}

	var runCache *cache.Cache
	if cfg.Redis.Enabled() {
		runCache, err = cache.NewCache(context.Background(), cfg.Redis, baseLogger.Named("cache.redis"))
		if err != nil {
			baseLogger.Fatal("failed to init redis cache", zap.Error(err))
		}
		defer func() {
			if err := runCache.Close(); err != nil {
				baseLogger.Error("failed to close redis connection", zap.Error(err))
			}
		}()
	} else {
		baseLogger.Warn("redis not configured, running without distributed run lock")
	}

	var pusher channelengine.Client
	if cfg.ChannelEngine.Enabled() {
		pusher = channelengine.NewClient(cfg.ChannelEngine)
		baseLogger.Info("channelengine client enabled")
	} else {
		baseLogger.Warn("channelengine not configured, approved prices will not be pushed")
	}

	var notifier *mailer.Mailer
	if cfg.SMTP.Enabled() {
		notifier, err = mailer.New(cfg.SMTP, baseLogger.Named("clients.mailer"))
		if err != nil {
			baseLogger.Fatal("failed to init smtp mailer", zap.Error(err))
		}
	} else {
		baseLogger.Warn("smtp not configured, batch summaries will not be emailed")
	}

	rounding, err := models.ParseRoundingRule(cfg.Pricing.DefaultRoundingRule)
	if err != nil {
		baseLogger.Fatal("invalid rounding rule in config", zap.Error(err))
	}
	pricingCfg := models.PricingConfig{
		MinimumMarginPercent: cfg.Pricing.MinimumMarginPercent,
		DefaultRoundingRule:  rounding,
		DefaultChannelID:     cfg.Pricing.DefaultChannelID,
	}

	engine := pricing.NewEngine()
	catalogSvc := catalogsvc.NewService(catalogSource, store, baseLogger.Named("svc.catalog"))
	repricerSvc := repricersvc.NewService(engine, store, runCache, notifier, pricingCfg, baseLogger.Named("svc.repricer"))
	approvalSvc := approvalsvc.NewService(store, pusher, baseLogger.Named("svc.approval"))

	ginEngine := router.New(router.Handlers{
		Catalog:   handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog")),
		Rules:     handlers.NewRuleHandler(store, baseLogger.Named("handlers.rules")),
		Channels:  handlers.NewChannelHandler(store, baseLogger.Named("handlers.channels")),
		Repricing: handlers.NewRepricingHandler(repricerSvc, baseLogger.Named("handlers.repricing")),
		Proposals: handlers.NewProposalHandler(approvalSvc, baseLogger.Named("handlers.proposals")),
	}, cfg.Server.AllowedOrigins, baseLogger.Named("router"))

	schedulerCatalog := catalogSvc
	if catalogSource == nil {
		schedulerCatalog = nil
	}
	sched := scheduler.NewScheduler(cfg.Scheduler, schedulerCatalog, repricerSvc, store, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      ginEngine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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
