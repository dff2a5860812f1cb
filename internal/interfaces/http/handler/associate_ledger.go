package handler

import (
	"github.com/gin-gonic/gin"
	appledger "github.com/retailpos/backend/internal/application/ledger"
)

// AssociateLedgerHandler handles associate-scoped ledger API endpoints
type AssociateLedgerHandler struct {
	BaseHandler
	query *appledger.QueryService
	audit *appledger.AuditService
}

// NewAssociateLedgerHandler creates a new AssociateLedgerHandler
func NewAssociateLedgerHandler(query *appledger.QueryService, audit *appledger.AuditService) *AssociateLedgerHandler {
	return &AssociateLedgerHandler{
		query: query,
		audit: audit,
	}
}

// ListTransactions retrieves one associate's transactions newest first.
// GET /api/v1/ledger/associates/:id/transactions
func (h *AssociateLedgerHandler) ListTransactions(c *gin.Context) {
	associateID, ok := h.BindID(c, "Invalid associate ID format")
	if !ok {
		return
	}

	var query TransactionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := query.toFilter()
	transactions, total, err := h.query.ListByAssociate(c.Request.Context(), associateID, filter)
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

// GetBalance retrieves an associate's cached balance.
// GET /api/v1/ledger/associates/:id/balance
func (h *AssociateLedgerHandler) GetBalance(c *gin.Context) {
	associateID, ok := h.BindID(c, "Invalid associate ID format")
	if !ok {
		return
	}

	balance, err := h.query.GetBalance(c.Request.Context(), associateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// Audit recomputes the associate's ledger sum and reports any drift from the
// cached balance.
// POST /api/v1/ledger/associates/:id/audit
func (h *AssociateLedgerHandler) Audit(c *gin.Context) {
	associateID, ok := h.BindID(c, "Invalid associate ID format")
	if !ok {
		return
	}

	report, err := h.audit.AuditAssociate(c.Request.Context(), associateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// AuditAll sweeps every associate and returns the drifted ones.
// POST /api/v1/ledger/audit
func (h *AssociateLedgerHandler) AuditAll(c *gin.Context) {
	reports, err := h.audit.AuditAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reports)
}

// RegisterRoutes registers all associate-scoped ledger routes
func (h *AssociateLedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.GET("/associates/:id/transactions", h.ListTransactions)
		ledger.GET("/associates/:id/balance", h.GetBalance)
		ledger.POST("/associates/:id/audit", h.Audit)
		ledger.POST("/audit", h.AuditAll)
	}
}
