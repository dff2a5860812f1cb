package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReconcilerService is the sole writer of Associate.CurrentBalance. Every
// create, update and delete of a ledger transaction flows through it, and each
// one commits the row write and the balance increment as a single storage
// transaction.
type ReconcilerService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewReconcilerService creates a new ReconcilerService
func NewReconcilerService(scope TransactionScope, logger *zap.Logger) *ReconcilerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcilerService{
		scope:  scope,
		logger: logger,
	}
}

// log prefers the request-scoped logger travelling in the context, which
// carries the request ID and trace correlation fields.
func (s *ReconcilerService) log(ctx context.Context) *zap.Logger {
	if logger.GetRequestID(ctx) != "" {
		return logger.FromContext(ctx)
	}
	return s.logger
}

// Create validates the request, then atomically inserts the transaction row
// and applies its signed impact to the owning associate's cached balance.
// Fails with NotFound when the associate does not exist; nothing is persisted
// on any failure.
func (s *ReconcilerService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	status := req.Status
	if status == "" {
		status = ledger.TransactionStatusCompleted
	}

	transaction, err := ledger.NewTransaction(req.AssociateID, req.Type, req.Amount, status, req.TransactionDate)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		transaction.WithDescription(req.Description)
	}
	if req.Notes != "" {
		transaction.WithNotes(req.Notes)
	}

	impact := transaction.SignedImpact()

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// The increment doubles as the existence check: zero rows affected
		// rolls the whole scope back before the row is written.
		if err := repos.AssociateRepo().AdjustBalance(ctx, req.AssociateID, impact); err != nil {
			return err
		}
		return repos.TransactionRepo().Create(ctx, transaction)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("ledger transaction created",
		zap.String("transaction_id", transaction.ID.String()),
		zap.String("associate_id", req.AssociateID.String()),
		zap.String("type", transaction.Type.String()),
		zap.String("impact", impact.String()),
	)

	response := ToTransactionResponse(transaction)
	return &response, nil
}

// Update applies a partial patch to an existing transaction. The balance moves
// by exactly signedImpact(new) - signedImpact(old), whichever subset of fields
// actually changed; a zero delta skips the balance write. Row update and
// balance adjustment commit together or not at all.
func (s *ReconcilerService) Update(ctx context.Context, id uuid.UUID, patch ledger.TransactionPatch) (*TransactionResponse, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var updated *ledger.Transaction
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		// Locking read: the delta must be computed against the row this
		// write replaces, so a concurrent writer has to wait here rather
		// than hand us a stale base.
		transaction, err := repos.TransactionRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		delta := patch.BalanceDelta(transaction)
		patch.Apply(transaction)

		if err := repos.TransactionRepo().Save(ctx, transaction); err != nil {
			return err
		}
		if !delta.IsZero() {
			if err := repos.AssociateRepo().AdjustBalance(ctx, transaction.AssociateID, delta); err != nil {
				return err
			}
		}

		updated = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("ledger transaction updated",
		zap.String("transaction_id", id.String()),
		zap.String("associate_id", updated.AssociateID.String()),
	)

	response := ToTransactionResponse(updated)
	return &response, nil
}

// Delete removes a transaction and reverses its signed impact on the owning
// associate, atomically. A row is never dropped without its reversal.
func (s *ReconcilerService) Delete(ctx context.Context, id uuid.UUID) error {
	var associateID uuid.UUID
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		transaction, err := repos.TransactionRepo().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		associateID = transaction.AssociateID

		if err := repos.TransactionRepo().Delete(ctx, id); err != nil {
			return err
		}
		return repos.AssociateRepo().AdjustBalance(ctx, transaction.AssociateID, transaction.SignedImpact().Neg())
	})
	if err != nil {
		return err
	}

	s.log(ctx).Info("ledger transaction deleted",
		zap.String("transaction_id", id.String()),
		zap.String("associate_id", associateID.String()),
	)
	return nil
}
