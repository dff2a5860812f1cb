package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appledger "github.com/retailpos/backend/internal/application/ledger"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles ledger transaction API endpoints
type TransactionHandler struct {
	BaseHandler
	reconciler *appledger.ReconcilerService
	query      *appledger.QueryService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(reconciler *appledger.ReconcilerService, query *appledger.QueryService) *TransactionHandler {
	return &TransactionHandler{
		reconciler: reconciler,
		query:      query,
	}
}

// CreateTransactionRequest represents a request to record a ledger transaction
type CreateTransactionRequest struct {
	AssociateID     string  `json:"associate_id" binding:"required,uuid"`
	Type            string  `json:"type" binding:"required,oneof=PURCHASE SALE"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	Status          string  `json:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	TransactionDate string  `json:"transaction_date" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Description     string  `json:"description" binding:"max=500"`
	Notes           string  `json:"notes" binding:"max=2000"`
}

// UpdateTransactionRequest represents a partial update of a ledger transaction.
// Only the provided fields change; type and amount changes move the balance.
type UpdateTransactionRequest struct {
	Type            *string  `json:"type" binding:"omitempty,oneof=PURCHASE SALE"`
	Amount          *float64 `json:"amount" binding:"omitempty,gt=0"`
	Status          *string  `json:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	TransactionDate *string  `json:"transaction_date" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Description     *string  `json:"description" binding:"omitempty,max=500"`
	Notes           *string  `json:"notes" binding:"omitempty,max=2000"`
}

// TransactionListQuery represents filter options for the transaction list
type TransactionListQuery struct {
	dto.ListRequest
	Type     string `form:"type" binding:"omitempty,oneof=PURCHASE SALE"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

func (q TransactionListQuery) toFilter() appledger.TransactionListFilter {
	return appledger.TransactionListFilter{
		Type:     q.Type,
		Status:   q.Status,
		DateFrom: q.DateFrom,
		DateTo:   q.DateTo,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// Create records a new ledger transaction and applies its signed impact to
// the associate's balance.
// POST /api/v1/ledger/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	associateID, err := uuid.Parse(req.AssociateID)
	if err != nil {
		h.BadRequest(c, "Invalid associate ID format")
		return
	}

	createReq := appledger.CreateTransactionRequest{
		AssociateID: associateID,
		Type:        ledger.TransactionType(req.Type),
		Amount:      decimal.NewFromFloat(req.Amount),
		Status:      ledger.TransactionStatus(req.Status),
		Description: req.Description,
		Notes:       req.Notes,
	}
	if req.TransactionDate != "" {
		// Format already validated by the binding
		createReq.TransactionDate, _ = time.Parse(time.RFC3339, req.TransactionDate)
	}

	transaction, err := h.reconciler.Create(c.Request.Context(), createReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, transaction)
}

// Update applies a partial update to a ledger transaction. The balance moves
// by the difference between the new and old signed impact.
// PUT /api/v1/ledger/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.BindID(c, "Invalid transaction ID format")
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var patch ledger.TransactionPatch
	if req.Type != nil {
		txType := ledger.TransactionType(*req.Type)
		patch.Type = &txType
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		patch.Amount = &amount
	}
	if req.Status != nil {
		status := ledger.TransactionStatus(*req.Status)
		patch.Status = &status
	}
	if req.TransactionDate != nil {
		date, err := time.Parse(time.RFC3339, *req.TransactionDate)
		if err != nil {
			h.BadRequest(c, "Invalid transaction date format")
			return
		}
		patch.TransactionDate = &date
	}
	patch.Description = req.Description
	patch.Notes = req.Notes

	transaction, err := h.reconciler.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// Delete removes a ledger transaction and reverses its signed impact.
// DELETE /api/v1/ledger/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c, "Invalid transaction ID format")
	if !ok {
		return
	}

	if err := h.reconciler.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get retrieves a single ledger transaction.
// GET /api/v1/ledger/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c, "Invalid transaction ID format")
	if !ok {
		return
	}

	transaction, err := h.query.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, transaction)
}

// List retrieves ledger transactions newest first.
// GET /api/v1/ledger/transactions
func (h *TransactionHandler) List(c *gin.Context) {
	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := query.toFilter()
	transactions, total, err := h.query.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, transactions, total, page, pageSize)
}

// RegisterRoutes registers all ledger transaction routes
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transactions := rg.Group("/ledger/transactions")
	{
		transactions.POST("", h.Create)
		transactions.GET("", h.List)
		transactions.GET("/:id", h.Get)
		transactions.PUT("/:id", h.Update)
		transactions.DELETE("/:id", h.Delete)
	}
}
