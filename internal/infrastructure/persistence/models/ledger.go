package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AssociateModel is the persistence model for the Associate domain entity.
type AssociateModel struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey"`
	Code           string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string                 `gorm:"type:varchar(200);not null"`
	Type           ledger.AssociateType   `gorm:"type:varchar(20);not null"`
	Status         ledger.AssociateStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreditLimit    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CurrentBalance decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	ContactName    string                 `gorm:"type:varchar(100)"`
	Phone          string                 `gorm:"type:varchar(50)"`
	Email          string                 `gorm:"type:varchar(200)"`
	Notes          string                 `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (AssociateModel) TableName() string {
	return "associates"
}

// ToDomain converts the persistence model to a domain Associate entity.
func (m *AssociateModel) ToDomain() *ledger.Associate {
	return &ledger.Associate{
		ID:             m.ID,
		Code:           m.Code,
		Name:           m.Name,
		Type:           m.Type,
		Status:         m.Status,
		CreditLimit:    m.CreditLimit,
		CurrentBalance: m.CurrentBalance,
		ContactName:    m.ContactName,
		Phone:          m.Phone,
		Email:          m.Email,
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// AssociateModelFromDomain creates a persistence model from a domain Associate entity.
func AssociateModelFromDomain(a *ledger.Associate) *AssociateModel {
	return &AssociateModel{
		ID:             a.ID,
		Code:           a.Code,
		Name:           a.Name,
		Type:           a.Type,
		Status:         a.Status,
		CreditLimit:    a.CreditLimit,
		CurrentBalance: a.CurrentBalance,
		ContactName:    a.ContactName,
		Phone:          a.Phone,
		Email:          a.Email,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// TransactionModel is the persistence model for the ledger Transaction entity.
type TransactionModel struct {
	ID              uuid.UUID                `gorm:"type:uuid;primaryKey"`
	AssociateID     uuid.UUID                `gorm:"type:uuid;not null;index:idx_ledger_tx_associate_date,priority:1"`
	Type            ledger.TransactionType   `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Status          ledger.TransactionStatus `gorm:"type:varchar(20);not null;default:'COMPLETED'"`
	TransactionDate time.Time                `gorm:"not null;index:idx_ledger_tx_associate_date,priority:2,sort:desc"`
	Description     string                   `gorm:"type:varchar(500)"`
	Notes           string                   `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the table name for GORM
func (TransactionModel) TableName() string {
	return "ledger_transactions"
}

// ToDomain converts the persistence model to a domain Transaction entity.
func (m *TransactionModel) ToDomain() *ledger.Transaction {
	return &ledger.Transaction{
		ID:              m.ID,
		AssociateID:     m.AssociateID,
		Type:            m.Type,
		Amount:          m.Amount,
		Status:          m.Status,
		TransactionDate: m.TransactionDate,
		Description:     m.Description,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// TransactionModelFromDomain creates a persistence model from a domain Transaction entity.
func TransactionModelFromDomain(t *ledger.Transaction) *TransactionModel {
	return &TransactionModel{
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
