package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransactionRepository implements ledger.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create persists a new ledger transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(transaction)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a ledger transaction by ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a ledger transaction by ID with a row lock held for
// the rest of the surrounding transaction
func (r *GormTransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := r.db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its single-writer lock already serializes
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.TransactionModel
	if err := query.
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists ledger transactions newest first with filtering and pagination
func (r *GormTransactionRepository) List(ctx context.Context, filter ledger.TransactionFilter) ([]*ledger.Transaction, int64, error) {
	var transactionModels []models.TransactionModel
	var total int64

	countQuery := r.db.WithContext(ctx).Model(&models.TransactionModel{})
	countQuery = r.applyFilter(countQuery, filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.TransactionModel{})
	query = r.applyFilter(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Most recent first
	query = query.Order("transaction_date DESC")

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*ledger.Transaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = model.ToDomain()
	}
	return transactions, total, nil
}

// Save updates an existing ledger transaction
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *ledger.Transaction) error {
	model := models.TransactionModelFromDomain(transaction)
	result := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"type":             model.Type,
			"amount":           model.Amount,
			"status":           model.Status,
			"transaction_date": model.TransactionDate,
			"description":      model.Description,
			"notes":            model.Notes,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a ledger transaction by ID
func (r *GormTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.TransactionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SumSignedImpact recomputes the signed ledger sum for one associate straight
// from the transaction rows. PURCHASE rows add, SALE rows subtract.
func (r *GormTransactionRepository) SumSignedImpact(ctx context.Context, associateID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	sumExpr := fmt.Sprintf(
		"COALESCE(SUM(CASE WHEN type = '%s' THEN -amount ELSE amount END), 0) as total",
		ledger.TransactionTypeSale,
	)

	if err := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Select(sumExpr).
		Where("associate_id = ?", associateID).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}

	return result.Total, nil
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	if filter.AssociateID != nil {
		query = query.Where("associate_id = ?", *filter.AssociateID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("transaction_date < ?", *filter.DateTo)
	}
	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
