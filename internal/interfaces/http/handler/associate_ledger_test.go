package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appledger "github.com/retailpos/backend/internal/application/ledger"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupAssociateLedgerHandler(txRepo *MockTransactionRepository, associateRepo *MockAssociateRepository) *AssociateLedgerHandler {
	query := appledger.NewQueryService(txRepo, associateRepo)
	audit := appledger.NewAuditService(txRepo, associateRepo, appledger.DefaultAuditServiceConfig(), nil)
	return NewAssociateLedgerHandler(query, audit)
}

func testAssociate(balance int64) *ledger.Associate {
	now := time.Now()
	return &ledger.Associate{
		ID:             uuid.New(),
		Code:           "AS-001",
		Name:           "Test Associate",
		Type:           ledger.AssociateTypeBoth,
		Status:         ledger.AssociateStatusActive,
		CreditLimit:    decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(balance),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestAssociateLedgerHandler_ListTransactions_Success(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	associate := testAssociate(100)
	transactions := []*ledger.Transaction{
		storedLedgerTransaction(t, ledger.TransactionTypePurchase, 100),
	}

	associateRepo.On("FindByID", mock.Anything, associate.ID).Return(associate, nil)
	txRepo.On("List", mock.Anything, mock.MatchedBy(func(f ledger.TransactionFilter) bool {
		return f.AssociateID != nil && *f.AssociateID == associate.ID
	})).Return(transactions, int64(1), nil)

	router := setupTestRouter()
	router.GET("/associates/:id/transactions", handler.ListTransactions)

	req := httptest.NewRequest(http.MethodGet, "/associates/"+associate.ID.String()+"/transactions", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	txRepo.AssertExpectations(t)
	associateRepo.AssertExpectations(t)
}

func TestAssociateLedgerHandler_ListTransactions_UnknownAssociate(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	associateID := uuid.New()
	associateRepo.On("FindByID", mock.Anything, associateID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/associates/:id/transactions", handler.ListTransactions)

	req := httptest.NewRequest(http.MethodGet, "/associates/"+associateID.String()+"/transactions", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	txRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAssociateLedgerHandler_GetBalance_Success(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	associate := testAssociate(250)
	associateRepo.On("FindByID", mock.Anything, associate.ID).Return(associate, nil)

	router := setupTestRouter()
	router.GET("/associates/:id/balance", handler.GetBalance)

	req := httptest.NewRequest(http.MethodGet, "/associates/"+associate.ID.String()+"/balance", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "250", data["current_balance"])
}

func TestAssociateLedgerHandler_GetBalance_InvalidID(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	router := setupTestRouter()
	router.GET("/associates/:id/balance", handler.GetBalance)

	req := httptest.NewRequest(http.MethodGet, "/associates/not-a-uuid/balance", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	associateRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAssociateLedgerHandler_Audit_ReportsDrift(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	associate := testAssociate(200)
	associateRepo.On("FindByID", mock.Anything, associate.ID).Return(associate, nil)
	txRepo.On("SumSignedImpact", mock.Anything, associate.ID).Return(decimal.NewFromInt(150), nil)

	router := setupTestRouter()
	router.POST("/associates/:id/audit", handler.Audit)

	req := httptest.NewRequest(http.MethodPost, "/associates/"+associate.ID.String()+"/audit", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, false, data["consistent"])
	assert.Equal(t, "50", data["drift"])
}

func TestAssociateLedgerHandler_Audit_UnknownAssociate(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	associateID := uuid.New()
	associateRepo.On("FindByID", mock.Anything, associateID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/associates/:id/audit", handler.Audit)

	req := httptest.NewRequest(http.MethodPost, "/associates/"+associateID.String()+"/audit", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	txRepo.AssertNotCalled(t, "SumSignedImpact", mock.Anything, mock.Anything)
}

func TestAssociateLedgerHandler_AuditAll_ReturnsDriftedOnly(t *testing.T) {
	txRepo := new(MockTransactionRepository)
	associateRepo := new(MockAssociateRepository)
	handler := setupAssociateLedgerHandler(txRepo, associateRepo)

	consistent := testAssociate(100)
	drifted := testAssociate(200)

	associateRepo.On("ListIDs", mock.Anything).Return([]uuid.UUID{consistent.ID, drifted.ID}, nil)
	associateRepo.On("FindByID", mock.Anything, consistent.ID).Return(consistent, nil)
	associateRepo.On("FindByID", mock.Anything, drifted.ID).Return(drifted, nil)
	txRepo.On("SumSignedImpact", mock.Anything, consistent.ID).Return(decimal.NewFromInt(100), nil)
	txRepo.On("SumSignedImpact", mock.Anything, drifted.ID).Return(decimal.NewFromInt(120), nil)

	router := setupTestRouter()
	router.POST("/audit", handler.AuditAll)

	req := httptest.NewRequest(http.MethodPost, "/audit", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	report := data[0].(map[string]interface{})
	assert.Equal(t, drifted.ID.String(), report["associate_id"])
}
