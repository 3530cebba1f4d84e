package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/repository/sheets"
)

// ErrSourceNotConfigured is returned when no catalog sheet is configured.
var ErrSourceNotConfigured = errors.New("catalog source not configured")

// Store persists catalog snapshots.
type Store interface {
	UpsertProducts(ctx context.Context, products []models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Service keeps the product catalog in sync with the upstream sheet.
type Service struct {
	source sheets.Repository
	store  Store
	logger *zap.Logger
}

// NewService wires a new catalog service. source may be nil when catalog
// ingest is not configured; Sync then reports ErrSourceNotConfigured.
func NewService(source sheets.Repository, store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Sync pulls the catalog from the sheet and upserts it into storage. Returns
// the number of products written.
func (s *Service) Sync(ctx context.Context) (int, error) {
	if s.source == nil {
		return 0, ErrSourceNotConfigured
	}

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch catalog: %w", err)
	}
	if len(products) == 0 {
		s.logger.Warn("catalog sheet returned no products, nothing to sync")
		return 0, nil
	}

	if err := s.store.UpsertProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("persist catalog: %w", err)
	}

	s.logger.Info("catalog synced", zap.Int("products", len(products)))
	return len(products), nil
}

// Products returns the stored catalog.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}
