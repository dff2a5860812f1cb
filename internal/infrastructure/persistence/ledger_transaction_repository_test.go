package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB creates a GORM DB backed by a mocked SQL connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func transactionRows(id, associateID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "associate_id", "type", "amount", "status",
		"transaction_date", "description", "notes", "created_at", "updated_at",
	}).AddRow(
		id, associateID, "PURCHASE", decimal.NewFromInt(100), "COMPLETED",
		time.Now(), "", "", time.Now(), time.Now(),
	)
}

func TestGormTransactionRepository_FindByID(t *testing.T) {
	t.Run("finds existing transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		id := uuid.New()
		associateID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ledger_transactions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(transactionRows(id, associateID))

		transaction, err := repo.FindByID(context.Background(), id)

		assert.NoError(t, err)
		require.NotNil(t, transaction)
		assert.Equal(t, id, transaction.ID)
		assert.Equal(t, ledger.TransactionTypePurchase, transaction.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ledger_transactions" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		transaction, err := repo.FindByID(context.Background(), id)

		assert.Nil(t, transaction)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row on postgres", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		id := uuid.New()
		associateID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ledger_transactions" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(id, 1).
			WillReturnRows(transactionRows(id, associateID))

		transaction, err := repo.FindByIDForUpdate(context.Background(), id)

		assert.NoError(t, err)
		require.NotNil(t, transaction)
		assert.Equal(t, id, transaction.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "ledger_transactions" WHERE id = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		transaction, err := repo.FindByIDForUpdate(context.Background(), id)

		assert.Nil(t, transaction)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_List(t *testing.T) {
	t.Run("orders by transaction date descending", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		associateID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "ledger_transactions" WHERE associate_id = \$1`).
			WithArgs(associateID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT \* FROM "ledger_transactions" WHERE associate_id = \$1 ORDER BY transaction_date DESC LIMIT .*`).
			WithArgs(associateID, 20).
			WillReturnRows(transactionRows(uuid.New(), associateID))

		transactions, total, err := repo.List(context.Background(), ledger.TransactionFilter{
			AssociateID: &associateID,
			Page:        1,
			PageSize:    20,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, transactions, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_Delete(t *testing.T) {
	t.Run("deletes existing transaction", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		id := uuid.New()

		mock.ExpectExec(`DELETE FROM "ledger_transactions" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), id)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row deleted", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		id := uuid.New()

		mock.ExpectExec(`DELETE FROM "ledger_transactions" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), id)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_SumSignedImpact(t *testing.T) {
	t.Run("sums with sale rows negated", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		associateID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type = 'SALE' THEN -amount ELSE amount END\), 0\) as total FROM "ledger_transactions" WHERE associate_id = \$1`).
			WithArgs(associateID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromInt(60)))

		sum, err := repo.SumSignedImpact(context.Background(), associateID)

		assert.NoError(t, err)
		assert.True(t, sum.Equal(decimal.NewFromInt(60)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormTransactionRepository(gormDB)

		associateID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type = 'SALE' THEN -amount ELSE amount END\), 0\) as total FROM "ledger_transactions" WHERE associate_id = \$1`).
			WithArgs(associateID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.Zero))

		sum, err := repo.SumSignedImpact(context.Background(), associateID)

		assert.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
