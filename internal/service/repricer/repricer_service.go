package repricer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/pricing"
)

// ErrRunInProgress is returned when another repricing run holds the lock.
var ErrRunInProgress = errors.New("a repricing run is already in progress")

// runLockTTL bounds how long a crashed run can block the next one.
const runLockTTL = 10 * time.Minute

// Store provides the inputs of a repricing run and persists its output.
type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListChannels(ctx context.Context) ([]models.Channel, error)
	ListRules(ctx context.Context) ([]models.PricingRule, error)
	SaveProposals(ctx context.Context, proposals []models.PriceProposal) error
}

// Locker serializes runs across instances and caches the last run summary.
// The redis cache satisfies this; a nil cache degrades to lockless behaviour.
type Locker interface {
	AcquireRunLock(ctx context.Context, batchID string, ttl time.Duration) (bool, error)
	ReleaseRunLock(ctx context.Context) error
	SetBatchSummary(ctx context.Context, summary models.BatchSummary) error
	LatestBatchSummary(ctx context.Context) (models.BatchSummary, bool, error)
}

// Notifier announces a finished run. Failures are logged, never fatal.
type Notifier interface {
	SendBatchSummary(ctx context.Context, summary models.BatchSummary) error
}

// Service runs the pricing engine over the stored catalog and persists the
// resulting proposals for review.
type Service struct {
	engine   *pricing.Engine
	store    Store
	locks    Locker
	notifier Notifier
	cfg      models.PricingConfig
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires a new repricer. notifier may be nil.
func NewService(engine *pricing.Engine, store Store, locks Locker, notifier Notifier, cfg models.PricingConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		engine:   engine,
		store:    store,
		locks:    locks,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// RunBatch evaluates the whole catalog against the active rules and persists
// the resulting proposals. Only one run executes at a time; a second caller
// gets ErrRunInProgress.
func (s *Service) RunBatch(ctx context.Context, trigger string) (models.BatchSummary, error) {
	batchID := s.newID()
	startedAt := s.now().UTC()

	acquired, err := s.locks.AcquireRunLock(ctx, batchID, runLockTTL)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		return models.BatchSummary{}, ErrRunInProgress
	}
	defer func() {
		if err := s.locks.ReleaseRunLock(ctx); err != nil {
			s.logger.Warn("failed to release run lock", zap.Error(err))
		}
	}()

	s.logger.Info("repricing run started",
		zap.String("batch_id", batchID),
		zap.String("trigger", trigger))

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("load products: %w", err)
	}
	channels, err := s.store.ListChannels(ctx)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("load channels: %w", err)
	}
	rules, err := s.store.ListRules(ctx)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("load rules: %w", err)
	}

	channelMap := make(map[string]models.Channel, len(channels))
	for _, ch := range channels {
		channelMap[ch.ID] = ch
	}

	proposals, err := s.engine.GenerateProposals(products, channelMap, rules, s.cfg, batchID)
	if err != nil {
		return models.BatchSummary{}, fmt.Errorf("evaluate products: %w", err)
	}

	if len(proposals) > 0 {
		if err := s.store.SaveProposals(ctx, proposals); err != nil {
			return models.BatchSummary{}, fmt.Errorf("persist proposals: %w", err)
		}
	}

	completedAt := s.now().UTC()
	summary := models.BatchSummary{
		BatchID:           batchID,
		Trigger:           trigger,
		ProductsEvaluated: len(products),
		ProposalsCreated:  len(proposals),
		StartedAt:         startedAt,
		CompletedAt:       completedAt,
		DurationMillis:    completedAt.Sub(startedAt).Milliseconds(),
	}

	if err := s.locks.SetBatchSummary(ctx, summary); err != nil {
		s.logger.Warn("failed to cache batch summary", zap.Error(err))
	}
	if s.notifier != nil {
		if err := s.notifier.SendBatchSummary(ctx, summary); err != nil {
			s.logger.Warn("failed to send batch summary mail", zap.Error(err))
		}
	}

	s.logger.Info("repricing run completed",
		zap.String("batch_id", batchID),
		zap.Int("products_evaluated", summary.ProductsEvaluated),
		zap.Int("proposals_created", summary.ProposalsCreated),
		zap.Int64("duration_ms", summary.DurationMillis))

	return summary, nil
}

// LatestSummary returns the cached summary of the most recent run.
func (s *Service) LatestSummary(ctx context.Context) (models.BatchSummary, bool, error) {
	return s.locks.LatestBatchSummary(ctx)
}
