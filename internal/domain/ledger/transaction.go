package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a ledger transaction
type TransactionType string

const (
	// TransactionTypePurchase represents goods bought from the associate (balance increase)
	TransactionTypePurchase TransactionType = "PURCHASE"
	// TransactionTypeSale represents goods sold to the associate (balance decrease)
	TransactionTypeSale TransactionType = "SALE"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypePurchase, TransactionTypeSale:
		return true
	}
	return false
}

// TransactionStatus represents the processing state of a ledger transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid returns true if the transaction status is valid
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// Transaction is a single signed financial event attributable to one associate.
// Every mutation of an associate's cached balance flows from transactions; the
// reconciler keeps the two in lockstep.
type Transaction struct {
	ID              uuid.UUID
	AssociateID     uuid.UUID
	Type            TransactionType
	Amount          decimal.Decimal // always positive, direction determined by Type
	Status          TransactionStatus
	TransactionDate time.Time
	Description     string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SignedImpact returns the contribution of a transaction of the given type and
// amount to its associate's balance: positive for PURCHASE, negative for SALE.
// The sign convention is a business policy and lives only here.
func SignedImpact(txType TransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType == TransactionTypeSale {
		return amount.Neg()
	}
	return amount
}

// SignedImpact returns the signed balance contribution of this transaction
func (t *Transaction) SignedImpact() decimal.Decimal {
	return SignedImpact(t.Type, t.Amount)
}

// IsActive reports whether the transaction counts toward the cached balance.
// All statuses count today, CANCELLED included; the predicate centralizes the
// policy so excluding cancelled entries later is a single change plus backfill.
func (t *Transaction) IsActive() bool {
	return true
}

// NewTransaction creates a validated ledger transaction
func NewTransaction(
	associateID uuid.UUID,
	txType TransactionType,
	amount decimal.Decimal,
	status TransactionStatus,
	transactionDate time.Time,
) (*Transaction, error) {
	if associateID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ASSOCIATE", "Associate ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if amount.IsNegative() || amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid transaction status")
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	now := time.Now()
	return &Transaction{
		ID:              uuid.New(),
		AssociateID:     associateID,
		Type:            txType,
		Amount:          amount,
		Status:          status,
		TransactionDate: transactionDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// WithDescription sets the description for the transaction
func (t *Transaction) WithDescription(description string) *Transaction {
	t.Description = description
	return t
}

// WithNotes sets the free-form notes for the transaction
func (t *Transaction) WithNotes(notes string) *Transaction {
	t.Notes = notes
	return t
}

// TransactionPatch is a partial update of a transaction. Nil fields keep the
// stored value.
type TransactionPatch struct {
	Type            *TransactionType
	Amount          *decimal.Decimal
	Status          *TransactionStatus
	TransactionDate *time.Time
	Description     *string
	Notes           *string
}

// EffectiveType returns the type the transaction will have after the patch
func (p TransactionPatch) EffectiveType(t *Transaction) TransactionType {
	if p.Type != nil {
		return *p.Type
	}
	return t.Type
}

// EffectiveAmount returns the amount the transaction will have after the patch
func (p TransactionPatch) EffectiveAmount(t *Transaction) decimal.Decimal {
	if p.Amount != nil {
		return *p.Amount
	}
	return t.Amount
}

// Validate rejects patches carrying out-of-range values before any state change
func (p TransactionPatch) Validate() error {
	if p.Type != nil && !p.Type.IsValid() {
		return shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if p.Amount != nil && (p.Amount.IsNegative() || p.Amount.IsZero()) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid transaction status")
	}
	return nil
}

// BalanceDelta computes the net change the patch causes to the owning
// associate's balance: signedImpact(new) - signedImpact(old). The single
// formula covers every combination of changed fields; an unchanged
// transaction yields zero.
func (p TransactionPatch) BalanceDelta(t *Transaction) decimal.Decimal {
	oldImpact := SignedImpact(t.Type, t.Amount)
	newImpact := SignedImpact(p.EffectiveType(t), p.EffectiveAmount(t))
	return newImpact.Sub(oldImpact)
}

// Apply writes the patched fields onto the transaction. Callers must have
// validated the patch and accounted for the balance delta first.
func (p TransactionPatch) Apply(t *Transaction) {
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.TransactionDate != nil {
		t.TransactionDate = *p.TransactionDate
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	t.UpdatedAt = time.Now()
}
