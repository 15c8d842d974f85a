package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/pagination"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/validator"
)

const (
	maxCategoryLength    = 50
	maxDescriptionLength = 255
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction validates input, applies defaults and stores a transaction.
func (s *transactionService) CreateTransaction(ctx context.Context, userID uint, input CreateTransactionInput) (*models.Transaction, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:          userID,
		Type:            input.Type,
		Amount:          input.Amount,
		Currency:        input.Currency,
		Category:        input.Category,
		Description:     input.Description,
		TransactionDate: input.TransactionDate,
	}

	if err := s.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

func validateTransactionInput(input *CreateTransactionInput) error {
	if !input.Type.Valid() {
		return apperrors.ErrInvalidTransactionType
	}
	if err := validateMoney("amount", input.Amount, false); err != nil {
		return err
	}

	if input.Currency == "" {
		input.Currency = models.DefaultCurrency
	}
	if !validator.IsCurrency(input.Currency) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "currency must be an ISO 4217 code")
	}

	if strings.TrimSpace(input.Category) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if len([]rune(input.Category)) > maxCategoryLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be at most 50 characters")
	}
	if input.Description != nil && len([]rune(*input.Description)) > maxDescriptionLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 255 characters")
	}

	if input.TransactionDate.IsZero() {
		input.TransactionDate = models.Today()
	}
	return nil
}

// GetUserTransactions returns a page of the user's transactions, newest first.
func (s *transactionService) GetUserTransactions(ctx context.Context, userID uint, page pagination.OffsetRequest, filter TransactionFilter) ([]models.Transaction, error) {
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, apperrors.ErrInvalidTransactionType
	}

	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	q = applyTransactionFilters(q, filter)

	transactions := []models.Transaction{}
	if err := q.Scopes(pagination.Paginate(page)).
		Order("transaction_date DESC").
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.StartDate != nil {
		q = q.Where("transaction_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("transaction_date <= ?", *f.EndDate)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
// Transactions of other users are reported as not found.
func (s *transactionService) GetTransactionByID(ctx context.Context, userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction permanently removes one of the user's transactions.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", transactionID, userID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetUserCategories returns every category the user has recorded a transaction under.
func (s *transactionService) GetUserCategories(ctx context.Context, userID uint) ([]string, error) {
	categories := []string{}
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("category", &categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sort.Strings(categories)
	return categories, nil
}
