package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget stores a monthly limit for a category.
func (s *budgetService) CreateBudget(ctx context.Context, userID uint, category string, monthlyLimit decimal.Decimal) (*models.Budget, error) {
	if strings.TrimSpace(category) == "" || len([]rune(category)) > maxCategoryLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must be 1 to 50 characters")
	}
	if err := validateMoney("monthly_limit", monthlyLimit, false); err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:       userID,
		Category:     category,
		MonthlyLimit: monthlyLimit,
	}

	if err := s.db.WithContext(ctx).Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns all budgets of the user ordered by category.
func (s *budgetService) GetUserBudgets(ctx context.Context, userID uint) ([]models.Budget, error) {
	budgets := []models.Budget{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("category").Order("id").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

func (s *budgetService) getBudget(ctx context.Context, userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget replaces the monthly limit of a budget.
func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID uint, monthlyLimit decimal.Decimal) (*models.Budget, error) {
	if err := validateMoney("monthly_limit", monthlyLimit, false); err != nil {
		return nil, err
	}

	budget, err := s.getBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(budget).Update("monthly_limit", monthlyLimit).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	budget.MonthlyLimit = monthlyLimit

	return budget, nil
}

// DeleteBudget removes a budget.
func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", budgetID, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrBudgetNotFound
	}
	return nil
}

// validateMoney checks that amount has at most two decimal places, fits the
// money columns and is positive, or non-negative when allowZero is set.
func validateMoney(field string, amount decimal.Decimal, allowZero bool) error {
	if allowZero && amount.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must not be negative")
	}
	if !allowZero && !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must have at most 2 decimal places")
	}
	if amount.GreaterThan(models.MaxAmount) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be at most "+models.MaxAmount.String())
	}
	return nil
}
