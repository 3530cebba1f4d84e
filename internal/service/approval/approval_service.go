package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/repository/mongodb"
	"github.com/GavinSmith1983/trading-dashboard-sub001/pkg/clients/channelengine"
)

var (
	// ErrProposalNotFound is returned when the proposal id is unknown.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrProposalNotPending is returned when the proposal was already reviewed.
	ErrProposalNotPending = errors.New("proposal is not pending review")
	// ErrProposalExpired is returned when the review window has passed.
	ErrProposalExpired = errors.New("proposal has expired")
	// ErrPushFailed marks ChannelEngine push failures so the HTTP layer can
	// report them as an upstream problem rather than a local one.
	ErrPushFailed = errors.New("price push failed")
)

// pushTimeout bounds the ChannelEngine call inside an approval.
const pushTimeout = 20 * time.Second

// Store provides proposal persistence for the review workflow.
type Store interface {
	GetProposal(ctx context.Context, id string) (models.PriceProposal, error)
	ListProposals(ctx context.Context, status models.ProposalStatus, batchID string) ([]models.PriceProposal, error)
	UpdateProposalStatus(ctx context.Context, id string, status models.ProposalStatus, reviewer, note string, reviewedAt time.Time) error
}

// Service implements the human review workflow over price proposals.
type Service struct {
	store  Store
	pusher channelengine.Client
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new approval service. pusher may be nil; approvals are
// then recorded without pushing prices anywhere.
func NewService(store Store, pusher channelengine.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		pusher: pusher,
		logger: logger,
		now:    time.Now,
	}
}

// List returns proposals, optionally filtered by status and batch.
func (s *Service) List(ctx context.Context, status models.ProposalStatus, batchID string) ([]models.PriceProposal, error) {
	return s.store.ListProposals(ctx, status, batchID)
}

// Get fetches one proposal.
func (s *Service) Get(ctx context.Context, id string) (models.PriceProposal, error) {
	proposal, err := s.store.GetProposal(ctx, id)
	if errors.Is(err, mongodb.ErrNotFound) {
		return models.PriceProposal{}, ErrProposalNotFound
	}
	if err != nil {
		return models.PriceProposal{}, fmt.Errorf("load proposal: %w", err)
	}
	return proposal, nil
}

// Approve marks a pending proposal approved and pushes the new price to
// ChannelEngine when a client is configured. The proposal status becomes
// applied after a successful push, approved otherwise.
func (s *Service) Approve(ctx context.Context, id, reviewer, note string) (models.PriceProposal, error) {
	proposal, err := s.Get(ctx, id)
	if err != nil {
		return models.PriceProposal{}, err
	}
	if proposal.Status != models.ProposalPending {
		return models.PriceProposal{}, fmt.Errorf("%w: status %s", ErrProposalNotPending, proposal.Status)
	}

	now := s.now().UTC()
	if proposal.Expired(now) {
		return models.PriceProposal{}, ErrProposalExpired
	}

	status := models.ProposalApproved
	if s.pusher != nil {
		pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
		defer cancel()

		update := channelengine.OfferUpdate{
			SKU:   proposal.SKU,
			Price: proposal.Calculation.ProposedPrice,
		}
		if err := s.pusher.UpdateOffer(pushCtx, update); err != nil {
			return models.PriceProposal{}, fmt.Errorf("%w: %v", ErrPushFailed, err)
		}
		status = models.ProposalApplied
	}

	if err := s.store.UpdateProposalStatus(ctx, id, status, reviewer, note, now); err != nil {
		return models.PriceProposal{}, fmt.Errorf("record approval: %w", err)
	}

	proposal.Status = status
	proposal.ReviewedBy = reviewer
	proposal.ReviewNote = note
	proposal.ReviewedAt = &now

	s.logger.Info("proposal approved",
		zap.String("proposal_id", id),
		zap.String("sku", proposal.SKU),
		zap.Float64("price", proposal.Calculation.ProposedPrice),
		zap.String("status", string(status)))

	return proposal, nil
}

// Reject marks a pending proposal rejected. Expired proposals can still be
// rejected; only approvals are blocked by expiry.
func (s *Service) Reject(ctx context.Context, id, reviewer, note string) (models.PriceProposal, error) {
	proposal, err := s.Get(ctx, id)
	if err != nil {
		return models.PriceProposal{}, err
	}
	if proposal.Status != models.ProposalPending {
		return models.PriceProposal{}, fmt.Errorf("%w: status %s", ErrProposalNotPending, proposal.Status)
	}

	now := s.now().UTC()
	if err := s.store.UpdateProposalStatus(ctx, id, models.ProposalRejected, reviewer, note, now); err != nil {
		return models.PriceProposal{}, fmt.Errorf("record rejection: %w", err)
	}

	proposal.Status = models.ProposalRejected
	proposal.ReviewedBy = reviewer
	proposal.ReviewNote = note
	proposal.ReviewedAt = &now

	s.logger.Info("proposal rejected",
		zap.String("proposal_id", id),
		zap.String("sku", proposal.SKU))

	return proposal, nil
}
