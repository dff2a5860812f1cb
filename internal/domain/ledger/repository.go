package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter contains filter options for listing ledger transactions
type TransactionFilter struct {
	AssociateID *uuid.UUID
	Type        *TransactionType
	Status      *TransactionStatus
	DateFrom    *time.Time // inclusive lower bound
	DateTo      *time.Time // exclusive upper bound
	Page        int
	PageSize    int
}

// TransactionRepository defines the interface for ledger transaction persistence
type TransactionRepository interface {
	// Create persists a new transaction row
	Create(ctx context.Context, transaction *Transaction) error

	// FindByID finds a transaction by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// FindByIDForUpdate finds a transaction by ID and locks the row until the
	// surrounding transaction commits. Mutations must read through this so the
	// balance delta is computed against the row actually being replaced, not a
	// base another writer already changed.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// List lists transactions newest first with filtering and pagination.
	// Each call recomputes from current state.
	List(ctx context.Context, filter TransactionFilter) ([]*Transaction, int64, error)

	// Save persists field changes of an existing transaction
	Save(ctx context.Context, transaction *Transaction) error

	// Delete removes a transaction row
	Delete(ctx context.Context, id uuid.UUID) error

	// SumSignedImpact recomputes the signed-impact sum of the associate's
	// active transactions straight from storage. Used for drift audits.
	SumSignedImpact(ctx context.Context, associateID uuid.UUID) (decimal.Decimal, error)
}

// AssociateRepository defines the ledger's read/increment access to associates.
// Associate lifecycle (create, delete) belongs to the partner CRUD collaborator.
type AssociateRepository interface {
	// FindByID finds an associate by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Associate, error)

	// AdjustBalance atomically increments the cached balance by delta at the
	// storage layer. Returns ErrNotFound when the associate does not exist.
	// Never read-modify-write: concurrent adjustments must all take effect.
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error

	// ListIDs returns the IDs of all associates, for reconciliation audits
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}
