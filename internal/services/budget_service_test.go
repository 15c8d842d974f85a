package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/testutil"
)

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(context.Background(), user.ID, "food", testutil.Amount(t, "15000.50"))
		testutil.AssertNoError(t, err)

		if budget.ID == 0 {
			t.Fatal("expected non-zero budget ID")
		}
		if budget.Category != "food" {
			t.Errorf("expected category food, got %s", budget.Category)
		}
		assertAmount(t, "monthly_limit", budget.MonthlyLimit, "15000.50")
	})

	invalid := []struct {
		name     string
		category string
		limit    string
	}{
		{"zero_limit", "food", "0"},
		{"negative_limit", "food", "-1"},
		{"fractional_cents", "food", "10.001"},
		{"limit_above_maximum", "food", "1000000000000"},
		{"blank_category", " ", "10"},
		{"long_category", strings.Repeat("x", 51), "10"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			defer testutil.TeardownTestDB(t, db)
			svc := NewBudgetService(db)
			user := testutil.CreateTestUser(t, db)

			_, err := svc.CreateBudget(context.Background(), user.ID, tt.category, testutil.Amount(t, tt.limit))
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		})
	}
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("returns_user_budgets_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)

		testutil.CreateTestBudget(t, db, user.ID, "transport")
		testutil.CreateTestBudget(t, db, user.ID, "food")
		testutil.CreateTestBudget(t, db, other.ID, "travel")

		budgets, err := svc.GetUserBudgets(context.Background(), user.ID)
		testutil.AssertNoError(t, err)

		if len(budgets) != 2 {
			t.Fatalf("expected 2 budgets, got %d", len(budgets))
		}
		if budgets[0].Category != "food" || budgets[1].Category != "transport" {
			t.Errorf("expected [food transport], got [%s %s]", budgets[0].Category, budgets[1].Category)
		}
	})

	t.Run("empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)

		budgets, err := svc.GetUserBudgets(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if budgets == nil || len(budgets) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", budgets)
		}
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food")

		updated, err := svc.UpdateBudget(context.Background(), user.ID, budget.ID, testutil.Amount(t, "250.25"))
		testutil.AssertNoError(t, err)
		assertAmount(t, "monthly_limit", updated.MonthlyLimit, "250.25")

		var stored models.Budget
		testutil.AssertNoError(t, db.First(&stored, budget.ID).Error)
		assertAmount(t, "stored monthly_limit", stored.MonthlyLimit, "250.25")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, owner.ID, "food")

		_, err := svc.UpdateBudget(context.Background(), other.ID, budget.ID, testutil.Amount(t, "1"))
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("invalid_limit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewBudgetService(db)
		user := testutil.CreateTestUser(t, db)
		budget := testutil.CreateTestBudget(t, db, user.ID, "food")

		_, err := svc.UpdateBudget(context.Background(), user.ID, budget.ID, testutil.Amount(t, "0"))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDeleteBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	budget := testutil.CreateTestBudget(t, db, user.ID, "food")

	err := svc.DeleteBudget(context.Background(), other.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteBudget(context.Background(), user.ID, budget.ID))

	err = svc.DeleteBudget(context.Background(), user.ID, budget.ID)
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}
