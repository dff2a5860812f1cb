package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssociateType classifies the trading relationship with a business partner
type AssociateType string

const (
	// AssociateTypeSupplier represents a partner the business buys from
	AssociateTypeSupplier AssociateType = "SUPPLIER"
	// AssociateTypeBuyer represents a partner the business sells to
	AssociateTypeBuyer AssociateType = "BUYER"
	// AssociateTypeBoth represents a partner acting as both supplier and buyer
	AssociateTypeBoth AssociateType = "BOTH"
)

// String returns the string representation of AssociateType
func (t AssociateType) String() string {
	return string(t)
}

// IsValid returns true if the associate type is valid
func (t AssociateType) IsValid() bool {
	switch t {
	case AssociateTypeSupplier, AssociateTypeBuyer, AssociateTypeBoth:
		return true
	}
	return false
}

// AssociateStatus represents the lifecycle state of an associate
type AssociateStatus string

const (
	AssociateStatusActive   AssociateStatus = "ACTIVE"
	AssociateStatusInactive AssociateStatus = "INACTIVE"
	AssociateStatusBlocked  AssociateStatus = "BLOCKED"
)

// String returns the string representation of AssociateStatus
func (s AssociateStatus) String() string {
	return string(s)
}

// IsValid returns true if the associate status is valid
func (s AssociateStatus) IsValid() bool {
	switch s {
	case AssociateStatusActive, AssociateStatusInactive, AssociateStatusBlocked:
		return true
	}
	return false
}

// Associate is a business partner (supplier or buyer) carrying a cached running
// balance. The record itself is owned by the partner CRUD collaborator; the
// ledger only reads it and adjusts CurrentBalance through atomic increments.
//
// CurrentBalance is a derived cache, not an independent source of truth: it must
// always equal the sum of the signed impacts of the associate's transactions.
type Associate struct {
	ID             uuid.UUID
	Code           string
	Name           string
	Type           AssociateType
	Status         AssociateStatus
	CreditLimit    decimal.Decimal
	CurrentBalance decimal.Decimal
	ContactName    string
	Phone          string
	Email          string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
