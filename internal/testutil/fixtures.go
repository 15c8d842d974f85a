package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a unique Telegram ID.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithTelegramID(t, db, 1_000_000+nextID())
}

// CreateTestUserWithTelegramID creates a user with the given Telegram ID.
func CreateTestUserWithTelegramID(t *testing.T, db *gorm.DB, telegramID int64) *models.User {
	t.Helper()

	user := &models.User{
		TelegramID: telegramID,
		FirstName:  "Test",
		Username:   fmt.Sprintf("user%d", telegramID),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// Amount parses a decimal literal, failing the test on malformed input.
func Amount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid amount %q: %v", s, err)
	}
	return d
}

// CreateTestTransaction creates a transaction with the given type, amount, category and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, amount, category string, date models.Date) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		Type:            txType,
		Amount:          Amount(t, amount),
		Currency:        models.DefaultCurrency,
		Category:        category,
		TransactionDate: date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget for the given category.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:       userID,
		Category:     category,
		MonthlyLimit: decimal.NewFromInt(10000),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a savings goal with nothing saved yet.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		GoalName:      fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  decimal.NewFromInt(50000),
		CurrentAmount: decimal.Zero,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
