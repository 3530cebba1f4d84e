package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/config"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/catalog"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/service/repricer"
)

// ProposalPurger removes proposals whose review window has passed.
type ProposalPurger interface {
	DeleteExpiredProposals(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler manages the recurring catalog sync, repricing and purge jobs.
type Scheduler struct {
	cron        *cron.Cron
	catalogSvc  *catalog.Service
	repricerSvc *repricer.Service
	purger      ProposalPurger
	cfg         config.SchedulerConfig
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler instance. catalogSvc may be nil when
// catalog ingest is not configured; the sync job is then not scheduled.
func NewScheduler(cfg config.SchedulerConfig, catalogSvc *catalog.Service, repricerSvc *repricer.Service, purger ProposalPurger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour,
	// dom, month, dow). Jobs run in the configured business timezone so
	// schedules read naturally for the operators.
	opts := []cron.Option{}
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		opts = append(opts, cron.WithLocation(loc))
	} else {
		logger.Warn("invalid scheduler timezone, using local time", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	return &Scheduler{
		cron:        cron.New(opts...),
		catalogSvc:  catalogSvc,
		repricerSvc: repricerSvc,
		purger:      purger,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers the cron jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.catalogSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.CatalogSyncSchedule, s.syncCatalog); err != nil {
			s.logger.Error("failed to schedule catalog sync", zap.Error(err))
		}
	}

	if _, err := s.cron.AddFunc(s.cfg.RepricingSchedule, s.runRepricing); err != nil {
		s.logger.Error("failed to schedule repricing run", zap.Error(err))
	}

	if _, err := s.cron.AddFunc(s.cfg.PurgeSchedule, s.purgeExpiredProposals); err != nil {
		s.logger.Error("failed to schedule proposal purge", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) syncCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := s.catalogSvc.Sync(ctx)
	if err != nil {
		s.logger.Error("scheduled catalog sync failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled catalog sync completed", zap.Int("products", count))
}

func (s *Scheduler) runRepricing() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := s.repricerSvc.RunBatch(ctx, "scheduled")
	if errors.Is(err, repricer.ErrRunInProgress) {
		s.logger.Warn("skipped scheduled repricing run, another run is in progress")
		return
	}
	if err != nil {
		s.logger.Error("scheduled repricing run failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled repricing run completed",
		zap.String("batch_id", summary.BatchID),
		zap.Int("proposals_created", summary.ProposalsCreated))
}

func (s *Scheduler) purgeExpiredProposals() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	deleted, err := s.purger.DeleteExpiredProposals(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("proposal purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		s.logger.Info("purged expired proposals", zap.Int64("deleted", deleted))
	}
}
