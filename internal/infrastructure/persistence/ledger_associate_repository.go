package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAssociateRepository implements ledger.AssociateRepository using GORM
type GormAssociateRepository struct {
	db *gorm.DB
}

// NewGormAssociateRepository creates a new GormAssociateRepository
func NewGormAssociateRepository(db *gorm.DB) *GormAssociateRepository {
	return &GormAssociateRepository{db: db}
}

// FindByID finds an associate by ID
func (r *GormAssociateRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Associate, error) {
	var model models.AssociateModel
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

// AdjustBalance applies the delta to the cached balance as a single SQL
// increment. The database computes the new value, so concurrent adjustments
// serialize on the row instead of overwriting each other.
func (r *GormAssociateRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&models.AssociateModel{}).
		Where("id = ?", id).
		Update("current_balance", gorm.Expr("current_balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListIDs returns the IDs of all associates
func (r *GormAssociateRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.AssociateModel{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormAssociateRepository implements AssociateRepository
var _ ledger.AssociateRepository = (*GormAssociateRepository)(nil)
