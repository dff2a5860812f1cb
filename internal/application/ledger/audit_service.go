package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AuditServiceConfig holds reconciliation auditor settings
type AuditServiceConfig struct {
	// Interval between background audit sweeps; zero disables the runner
	Interval time.Duration
}

// DefaultAuditServiceConfig returns the default auditor configuration
func DefaultAuditServiceConfig() AuditServiceConfig {
	return AuditServiceConfig{
		Interval: 1 * time.Hour,
	}
}

// AuditService recomputes each associate's ledger sum straight from storage
// and compares it against the cached balance. Drift means a reconciliation
// bug; the auditor reports it and never rewrites the cache itself.
type AuditService struct {
	transactionRepo ledger.TransactionRepository
	associateRepo   ledger.AssociateRepository
	config          AuditServiceConfig
	logger          *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewAuditService creates a new AuditService
func NewAuditService(
	transactionRepo ledger.TransactionRepository,
	associateRepo ledger.AssociateRepository,
	config AuditServiceConfig,
	logger *zap.Logger,
) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		transactionRepo: transactionRepo,
		associateRepo:   associateRepo,
		config:          config,
		logger:          logger,
	}
}

// AuditAssociate recomputes one associate's ledger sum and compares it to the
// cached balance
func (s *AuditService) AuditAssociate(ctx context.Context, associateID uuid.UUID) (*DriftReport, error) {
	associate, err := s.associateRepo.FindByID(ctx, associateID)
	if err != nil {
		return nil, err
	}

	sum, err := s.transactionRepo.SumSignedImpact(ctx, associateID)
	if err != nil {
		return nil, err
	}

	drift := associate.CurrentBalance.Sub(sum)
	report := &DriftReport{
		AssociateID:   associateID,
		CachedBalance: associate.CurrentBalance,
		LedgerSum:     sum,
		Drift:         drift,
		Consistent:    drift.IsZero(),
		AuditedAt:     time.Now(),
	}

	if !report.Consistent {
		s.logger.Error("associate balance drift detected",
			zap.String("associate_id", associateID.String()),
			zap.String("cached_balance", report.CachedBalance.String()),
			zap.String("ledger_sum", report.LedgerSum.String()),
			zap.String("drift", report.Drift.String()),
		)
	}

	return report, nil
}

// AuditAll sweeps every associate and returns the reports of those that drifted
func (s *AuditService) AuditAll(ctx context.Context) ([]DriftReport, error) {
	ids, err := s.associateRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var drifted []DriftReport
	for _, id := range ids {
		report, err := s.AuditAssociate(ctx, id)
		if err != nil {
			// An associate removed mid-sweep is not an audit failure
			if err == shared.ErrNotFound {
				continue
			}
			return nil, err
		}
		if !report.Consistent {
			drifted = append(drifted, *report)
		}
	}
	return drifted, nil
}

// Start launches the periodic background sweep. No-op when the interval is
// zero or the runner is already started.
func (s *AuditService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Interval <= 0 || s.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.stopped = make(chan struct{})

	go s.run(runCtx, s.stopped)

	s.logger.Info("balance audit runner started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop halts the background sweep and waits for the current pass to finish
func (s *AuditService) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	stopped := s.stopped
	s.cancel = nil
	s.stopped = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuditService) run(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			drifted, err := s.AuditAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Error("balance audit sweep failed", zap.Error(err))
				continue
			}
			s.logger.Info("balance audit sweep completed",
				zap.Int("drifted", len(drifted)),
			)
		}
	}
}
