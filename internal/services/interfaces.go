package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/initdata"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	ResolveTelegramUser(ctx context.Context, identity initdata.Identity) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

// CreateTransactionInput carries the fields a client may set on a new transaction.
// Zero values mean "use the default".
type CreateTransactionInput struct {
	Type            models.TransactionType
	Amount          decimal.Decimal
	Currency        string
	Category        string
	Description     *string
	TransactionDate models.Date
}

// TransactionFilter holds optional filter parameters for listing transactions.
// All set filters must match.
type TransactionFilter struct {
	Type      *models.TransactionType
	Category  *string
	StartDate *models.Date
	EndDate   *models.Date
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(ctx context.Context, userID uint, input CreateTransactionInput) (*models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID uint, page pagination.OffsetRequest, filter TransactionFilter) ([]models.Transaction, error)
	GetTransactionByID(ctx context.Context, userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID uint) error
	GetUserCategories(ctx context.Context, userID uint) ([]string, error)
}

// CategorySummary is the total and number of transactions of one category.
type CategorySummary struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int64           `json:"count"`
}

// MonthlyReport summarizes one calendar month of a user's transactions.
type MonthlyReport struct {
	Month              string            `json:"month"`
	TotalIncome        decimal.Decimal   `json:"total_income"`
	TotalExpense       decimal.Decimal   `json:"total_expense"`
	Savings            decimal.Decimal   `json:"savings"`
	ExpensesByCategory []CategorySummary `json:"expenses_by_category"`
	IncomeByCategory   []CategorySummary `json:"income_by_category"`
}

// ReportServicer defines the contract for aggregate reports.
type ReportServicer interface {
	GetMonthlyReport(ctx context.Context, userID uint, year, month int) (*MonthlyReport, error)
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(ctx context.Context, userID uint, category string, monthlyLimit decimal.Decimal) (*models.Budget, error)
	GetUserBudgets(ctx context.Context, userID uint) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID uint, monthlyLimit decimal.Decimal) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID uint) error
}

// GoalUpdate holds the optional fields of a goal update; nil leaves a field unchanged.
type GoalUpdate struct {
	CurrentAmount *decimal.Decimal
	TargetAmount  *decimal.Decimal
	Deadline      *models.Date
}

// GoalServicer defines the contract for savings-goal business logic.
type GoalServicer interface {
	CreateGoal(ctx context.Context, userID uint, name string, targetAmount, currentAmount decimal.Decimal, deadline *models.Date) (*models.Goal, error)
	GetUserGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, userID, goalID uint, update GoalUpdate) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
