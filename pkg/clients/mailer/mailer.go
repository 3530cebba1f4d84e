package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/config"
	"github.com/GavinSmith1983/trading-dashboard-sub001/internal/domain/models"
)

// Mailer sends run notifications over SMTP. A nil *Mailer is valid and drops
// every send, so callers never branch on whether mail is configured.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
	logger *zap.Logger
}

// New builds an SMTP mailer from configuration.
func New(cfg config.SMTPConfig, logger *zap.Logger) (*Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
		to:     cfg.To,
		logger: logger,
	}, nil
}

// SendBatchSummary emails the outcome of a repricing run.
func (m *Mailer) SendBatchSummary(ctx context.Context, summary models.BatchSummary) error {
	if m == nil {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject(fmt.Sprintf("Repricing run %s: %d proposals awaiting review", summary.BatchID, summary.ProposalsCreated))
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Repricing batch %s (%s) finished at %s.\n\nProducts evaluated: %d\nProposals created: %d\nDuration: %dms\n",
		summary.BatchID,
		summary.Trigger,
		summary.CompletedAt.Format("2006-01-02 15:04:05 MST"),
		summary.ProductsEvaluated,
		summary.ProposalsCreated,
		summary.DurationMillis,
	))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send batch summary mail: %w", err)
	}

	m.logger.Info("batch summary mail sent", zap.String("batch_id", summary.BatchID))
	return nil
}
