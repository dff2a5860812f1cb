package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the transaction", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		tx := storedTransaction(t, ledger.TransactionTypePurchase, 100)
		txRepo.On("FindByID", ctx, tx.ID).Return(tx, nil)

		resp, err := service.GetByID(ctx, tx.ID)

		require.NoError(t, err)
		assert.Equal(t, tx.ID, resp.ID)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		id := uuid.New()
		txRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetByID(ctx, id)

		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestQueryService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("applies pagination defaults", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		txRepo.On("List", ctx, mock.MatchedBy(func(f ledger.TransactionFilter) bool {
			return f.Page == 1 && f.PageSize == 20
		})).Return([]*ledger.Transaction{}, int64(0), nil)

		_, total, err := service.List(ctx, TransactionListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		txRepo.AssertExpectations(t)
	})

	t.Run("parses date range inclusively", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		toExclusive := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

		txRepo.On("List", ctx, mock.MatchedBy(func(f ledger.TransactionFilter) bool {
			return f.DateFrom != nil && f.DateFrom.Equal(from) &&
				f.DateTo != nil && f.DateTo.Equal(toExclusive)
		})).Return([]*ledger.Transaction{}, int64(0), nil)

		_, _, err := service.List(ctx, TransactionListFilter{
			DateFrom: "2026-03-01",
			DateTo:   "2026-03-31",
		})

		require.NoError(t, err)
		txRepo.AssertExpectations(t)
	})

	t.Run("forwards type and status filters", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		txRepo.On("List", ctx, mock.MatchedBy(func(f ledger.TransactionFilter) bool {
			return f.Type != nil && *f.Type == ledger.TransactionTypeSale &&
				f.Status != nil && *f.Status == ledger.TransactionStatusCompleted
		})).Return([]*ledger.Transaction{}, int64(0), nil)

		_, _, err := service.List(ctx, TransactionListFilter{
			Type:   "SALE",
			Status: "COMPLETED",
		})

		require.NoError(t, err)
		txRepo.AssertExpectations(t)
	})
}

func TestQueryService_ListByAssociate(t *testing.T) {
	ctx := context.Background()

	t.Run("scopes the filter to the associate", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		associate := &ledger.Associate{ID: uuid.New(), Name: "Northbound Dairy"}
		tx := storedTransaction(t, ledger.TransactionTypePurchase, 75)

		assocRepo.On("FindByID", ctx, associate.ID).Return(associate, nil)
		txRepo.On("List", ctx, mock.MatchedBy(func(f ledger.TransactionFilter) bool {
			return f.AssociateID != nil && *f.AssociateID == associate.ID
		})).Return([]*ledger.Transaction{tx}, int64(1), nil)

		responses, total, err := service.ListByAssociate(ctx, associate.ID, TransactionListFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, responses, 1)
		assert.Equal(t, tx.ID, responses[0].ID)
	})

	t.Run("unknown associate returns not found instead of an empty page", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		id := uuid.New()
		assocRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, _, err := service.ListByAssociate(ctx, id, TransactionListFilter{})

		assert.Equal(t, shared.ErrNotFound, err)
		txRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestQueryService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the cached balance", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		associate := &ledger.Associate{
			ID:             uuid.New(),
			CurrentBalance: decimal.NewFromInt(250),
			CreditLimit:    decimal.NewFromInt(1000),
		}
		assocRepo.On("FindByID", ctx, associate.ID).Return(associate, nil)

		resp, err := service.GetBalance(ctx, associate.ID)

		require.NoError(t, err)
		assert.True(t, resp.CurrentBalance.Equal(decimal.NewFromInt(250)))
		assert.True(t, resp.CreditLimit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("unknown associate returns not found", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		assocRepo := new(MockAssociateRepository)
		service := NewQueryService(txRepo, assocRepo)

		id := uuid.New()
		assocRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.GetBalance(ctx, id)

		assert.Equal(t, shared.ErrNotFound, err)
	})
}
