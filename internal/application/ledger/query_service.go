package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
)

// QueryService is the pure read surface over the ledger. It never mutates
// the cached balance.
type QueryService struct {
	transactionRepo ledger.TransactionRepository
	associateRepo   ledger.AssociateRepository
}

// NewQueryService creates a new QueryService
func NewQueryService(
	transactionRepo ledger.TransactionRepository,
	associateRepo ledger.AssociateRepository,
) *QueryService {
	return &QueryService{
		transactionRepo: transactionRepo,
		associateRepo:   associateRepo,
	}
}

// GetByID retrieves a single transaction
func (s *QueryService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	transaction, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(transaction)
	return &response, nil
}

// List retrieves transactions newest first with filtering and pagination
func (s *QueryService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := buildDomainFilter(filter)

	transactions, total, err := s.transactionRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(transactions), total, nil
}

// ListByAssociate retrieves the transactions of one associate, newest first.
// Verifies the associate exists so an empty ledger and an unknown associate
// are distinguishable.
func (s *QueryService) ListByAssociate(ctx context.Context, associateID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	if _, err := s.associateRepo.FindByID(ctx, associateID); err != nil {
		return nil, 0, err
	}

	domainFilter := buildDomainFilter(filter)
	domainFilter.AssociateID = &associateID

	transactions, total, err := s.transactionRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransactionResponses(transactions), total, nil
}

// GetBalance retrieves an associate's cached balance
func (s *QueryService) GetBalance(ctx context.Context, associateID uuid.UUID) (*BalanceResponse, error) {
	associate, err := s.associateRepo.FindByID(ctx, associateID)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{
		AssociateID:    associate.ID,
		CurrentBalance: associate.CurrentBalance,
		CreditLimit:    associate.CreditLimit,
	}, nil
}

// buildDomainFilter converts the service-level filter to the repository filter
func buildDomainFilter(filter TransactionListFilter) ledger.TransactionFilter {
	domainFilter := ledger.TransactionFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}

	if filter.Type != "" {
		txType := ledger.TransactionType(filter.Type)
		domainFilter.Type = &txType
	}
	if filter.Status != "" {
		status := ledger.TransactionStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.DateFrom != "" {
		if t, err := time.Parse("2006-01-02", filter.DateFrom); err == nil {
			domainFilter.DateFrom = &t
		}
	}
	if filter.DateTo != "" {
		if t, err := time.Parse("2006-01-02", filter.DateTo); err == nil {
			// Include the whole end date
			t = t.Add(24 * time.Hour)
			domainFilter.DateTo = &t
		}
	}

	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}

	return domainFilter
}
