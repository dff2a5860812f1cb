package ledger

import (
	"context"

	"github.com/retailpos/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the ledger repositories.
// All repository operations executed inside the scope belong to the same
// database transaction and commit or roll back as one unit. This is what keeps
// a persisted transaction row and its balance increment inseparable: a failure
// between the two leaves neither behind.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories scoped
// to the current transaction.
type TransactionalRepositories interface {
	// TransactionRepo returns the transaction repository bound to the transaction
	TransactionRepo() ledger.TransactionRepository
	// AssociateRepo returns the associate repository bound to the transaction
	AssociateRepo() ledger.AssociateRepository
}

// NoOpTransactionScope runs the scope function without a real transaction.
// Useful in tests where atomicity is asserted elsewhere.
type NoOpTransactionScope struct {
	transactionRepo ledger.TransactionRepository
	associateRepo   ledger.AssociateRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	transactionRepo ledger.TransactionRepository,
	associateRepo ledger.AssociateRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		transactionRepo: transactionRepo,
		associateRepo:   associateRepo,
	}
}

// Execute runs the function without transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TransactionRepo returns the transaction repository
func (s *NoOpTransactionScope) TransactionRepo() ledger.TransactionRepository {
	return s.transactionRepo
}

// AssociateRepo returns the associate repository
func (s *NoOpTransactionScope) AssociateRepo() ledger.AssociateRepository {
	return s.associateRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
