package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest carries the validated input for a new ledger transaction
type CreateTransactionRequest struct {
	AssociateID     uuid.UUID
	Type            ledger.TransactionType
	Amount          decimal.Decimal
	Status          ledger.TransactionStatus // defaults to COMPLETED when empty
	TransactionDate time.Time                // defaults to now when zero
	Description     string
	Notes           string
}

// TransactionListFilter contains list/pagination options for the query surface
type TransactionListFilter struct {
	Type     string
	Status   string
	DateFrom string // 2006-01-02
	DateTo   string // 2006-01-02, inclusive
	Page     int
	PageSize int
}

// TransactionResponse represents a ledger transaction in service responses
type TransactionResponse struct {
	ID              uuid.UUID                `json:"id"`
	AssociateID     uuid.UUID                `json:"associate_id"`
	Type            ledger.TransactionType   `json:"type"`
	Amount          decimal.Decimal          `json:"amount"`
	Status          ledger.TransactionStatus `json:"status"`
	TransactionDate time.Time                `json:"transaction_date"`
	Description     string                   `json:"description"`
	Notes           string                   `json:"notes"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// BalanceResponse represents an associate's cached balance readout
type BalanceResponse struct {
	AssociateID    uuid.UUID       `json:"associate_id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
}

// DriftReport is the outcome of auditing one associate's cached balance
// against the recomputed ledger sum
type DriftReport struct {
	AssociateID    uuid.UUID       `json:"associate_id"`
	CachedBalance  decimal.Decimal `json:"cached_balance"`
	LedgerSum      decimal.Decimal `json:"ledger_sum"`
	Drift          decimal.Decimal `json:"drift"`
	Consistent     bool            `json:"consistent"`
	AuditedAt      time.Time       `json:"audited_at"`
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		AssociateID:     t.AssociateID,
		Type:            t.Type,
		Amount:          t.Amount,
		Status:          t.Status,
		TransactionDate: t.TransactionDate,
		Description:     t.Description,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions
func ToTransactionResponses(transactions []*ledger.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = ToTransactionResponse(t)
	}
	return responses
}
