package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/pagination"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	reportService      services.ReportServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	transactionService services.TransactionServicer,
	reportService services.ReportServicer,
	auditService services.AuditServicer,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		reportService:      reportService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the request payload for creating a transaction.
type CreateTransactionRequest struct {
	Type            string          `json:"type" binding:"required,transaction_type" example:"expense"`
	Amount          decimal.Decimal `json:"amount" binding:"required,gt=0,lte=999999999999.99" swaggertype:"number" example:"300.50"`
	Currency        string          `json:"currency" binding:"omitempty,iso4217" example:"RUB"`
	Category        string          `json:"category" binding:"required,min=1,max=50" example:"food"`
	Description     *string         `json:"description" binding:"omitempty,max=255"`
	TransactionDate *models.Date    `json:"transaction_date" swaggertype:"string" example:"2024-03-10"`
}

// ListTransactionsQuery holds the query parameters of the transaction list.
type ListTransactionsQuery struct {
	pagination.OffsetQuery
	Type      string `form:"type" binding:"omitempty,transaction_type"`
	Category  string `form:"category" binding:"omitempty,max=50"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// MonthlyReportQuery holds the query parameters of the monthly report.
type MonthlyReportQuery struct {
	Year  int `form:"year" binding:"required,min=2020,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// CreateTransaction handles the creation of a new transaction.
// @Summary     Create a transaction
// @Description Record an income or expense. Currency defaults to RUB and the date to today.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    TelegramInitData
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input := services.CreateTransactionInput{
		Type:        models.TransactionType(req.Type),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.TransactionDate != nil {
		input.TransactionDate = *req.TransactionDate
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditCreateTransaction, "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": transaction.Type, "amount": transaction.Amount.String(), "category": transaction.Category})

	c.JSON(http.StatusCreated, transaction)
}

// ListTransactions returns the user's transactions, newest first.
// @Summary     List transactions
// @Description Filter by type, exact category and inclusive date range; paginate with skip/limit.
// @Tags        transactions
// @Produce     json
// @Security    TelegramInitData
// @Param       skip       query int    false "Rows to skip" default(0)
// @Param       limit      query int    false "Page size (1-100)" default(50)
// @Param       type       query string false "income or expense"
// @Param       category   query string false "Exact category"
// @Param       start_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       end_date   query string false "Inclusive end date (YYYY-MM-DD)"
// @Success     200 {array}  models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/ [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var filter services.TransactionFilter
	if q.Type != "" {
		t := models.TransactionType(q.Type)
		filter.Type = &t
	}
	if q.Category != "" {
		filter.Category = &q.Category
	}
	if filter.StartDate, err = parseDateParam("start_date", q.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.EndDate, err = parseDateParam("end_date", q.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetUserTransactions(c.Request.Context(), userID, q.OffsetQuery.Request(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransactionByID returns a single transaction.
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    TelegramInitData
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transaction)
}

// DeleteTransaction permanently removes a transaction.
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    TelegramInitData
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteTransaction, "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Transaction deleted"})
}

// GetMonthlyReport returns income and expense totals for one calendar month.
// @Summary     Monthly report
// @Description Totals and per-category breakdowns of income and expenses for a calendar month.
// @Tags        transactions
// @Produce     json
// @Security    TelegramInitData
// @Param       year  query int true "Year (2020-2100)"
// @Param       month query int true "Month (1-12)"
// @Success     200 {object} services.MonthlyReport
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/report/monthly [get]
func (h *TransactionHandler) GetMonthlyReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q MonthlyReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	report, err := h.reportService.GetMonthlyReport(c.Request.Context(), userID, q.Year, q.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetCategories returns the distinct categories the user has used.
// @Summary     List categories
// @Tags        transactions
// @Produce     json
// @Security    TelegramInitData
// @Success     200 {array}  string
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/categories/list [get]
func (h *TransactionHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.transactionService.GetUserCategories(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// parseDateParam parses an optional YYYY-MM-DD query value.
func parseDateParam(name, value string) (*models.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := models.ParseDate(value)
	if err != nil {
		return nil, apperrors.WithDetails(apperrors.ErrInvalidInput, "Invalid request", []apperrors.FieldError{
			{Field: name, Message: "must be a date in YYYY-MM-DD format"},
		})
	}
	return &d, nil
}
