package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn   func(ctx context.Context, userID uint, category string, monthlyLimit decimal.Decimal) (*models.Budget, error)
	getUserBudgetsFn func(ctx context.Context, userID uint) ([]models.Budget, error)
	updateBudgetFn   func(ctx context.Context, userID, budgetID uint, monthlyLimit decimal.Decimal) (*models.Budget, error)
	deleteBudgetFn   func(ctx context.Context, userID, budgetID uint) error
}

func (m *mockBudgetService) CreateBudget(ctx context.Context, userID uint, category string, monthlyLimit decimal.Decimal) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(ctx, userID, category, monthlyLimit)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(ctx context.Context, userID uint) ([]models.Budget, error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(ctx, userID)
	}
	return []models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(ctx context.Context, userID, budgetID uint, monthlyLimit decimal.Decimal) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(ctx, userID, budgetID, monthlyLimit)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(ctx context.Context, userID, budgetID uint) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(ctx, userID, budgetID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetUserBudgets)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createBudgetFn: func(_ context.Context, userID uint, category string, limit decimal.Decimal) (*models.Budget, error) {
				return &models.Budget{Base: models.Base{ID: 1}, UserID: userID, Category: category, MonthlyLimit: limit}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/budgets", `{"category":"food","monthly_limit":15000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["category"] != "food" {
			t.Errorf("expected food, got %v", result["category"])
		}
		if result["monthly_limit"].(float64) != 15000 {
			t.Errorf("expected limit 15000, got %v", result["monthly_limit"])
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != services.AuditCreateBudget {
			t.Errorf("expected one create audit entry, got %v", actions)
		}
	})

	invalid := []struct {
		name  string
		body  string
		field string
	}{
		{"missing category", `{"monthly_limit":100}`, "category"},
		{"long category", `{"category":"` + longString(51) + `","monthly_limit":100}`, "category"},
		{"zero limit", `{"category":"food","monthly_limit":0}`, "monthly_limit"},
		{"limit above maximum", `{"category":"food","monthly_limit":1000000000000}`, "monthly_limit"},
		{"negative limit", `{"category":"food","monthly_limit":-1}`, "monthly_limit"},
	}
	for _, tt := range invalid {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

			rec := doRequest(r, http.MethodPost, "/budgets", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			result := parseJSON(t, rec)
			assertErrorCode(t, result, "INVALID_INPUT")
			if fields := errorFields(t, result); !containsString(fields, tt.field) {
				t.Errorf("expected details for %q, got %v", tt.field, fields)
			}
		})
	}

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/budgets", handler.CreateBudget)

		rec := doRequest(r, http.MethodPost, "/budgets", `{"category":"food","monthly_limit":100}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetUserBudgets(t *testing.T) {
	svc := &mockBudgetService{
		getUserBudgetsFn: func(_ context.Context, userID uint) ([]models.Budget, error) {
			return []models.Budget{
				{Base: models.Base{ID: 1}, UserID: userID, Category: "food", MonthlyLimit: decimal.NewFromInt(100)},
				{Base: models.Base{ID: 2}, UserID: userID, Category: "rent", MonthlyLimit: decimal.NewFromInt(900)},
			}, nil
		},
	}
	r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/budgets", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if items := parseJSONArray(t, rec); len(items) != 2 {
		t.Errorf("expected 2 budgets, got %d", len(items))
	}
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var gotID uint
		svc := &mockBudgetService{
			updateBudgetFn: func(_ context.Context, userID, budgetID uint, limit decimal.Decimal) (*models.Budget, error) {
				gotID = budgetID
				return &models.Budget{Base: models.Base{ID: budgetID}, UserID: userID, Category: "food", MonthlyLimit: limit}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(svc, audit))

		rec := doRequest(r, http.MethodPut, "/budgets/4", `{"monthly_limit":250.75}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != 4 {
			t.Errorf("expected budget 4, got %d", gotID)
		}
		if parseJSON(t, rec)["monthly_limit"].(float64) != 250.75 {
			t.Errorf("unexpected body %s", rec.Body.String())
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != services.AuditUpdateBudget {
			t.Errorf("expected one update audit entry, got %v", actions)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			updateBudgetFn: func(context.Context, uint, uint, decimal.Decimal) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/budgets/4", `{"monthly_limit":10}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on missing limit", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/budgets/4", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 with confirmation", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, audit))

		rec := doRequest(r, http.MethodDelete, "/budgets/2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Budget deleted" {
			t.Errorf("unexpected message %v", msg)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != services.AuditDeleteBudget {
			t.Errorf("expected one delete audit entry, got %v", actions)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockBudgetService{
			deleteBudgetFn: func(context.Context, uint, uint) error { return apperrors.ErrBudgetNotFound },
		}
		r := setupBudgetRouter(NewBudgetHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/budgets/2", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		r := setupBudgetRouter(NewBudgetHandler(&mockBudgetService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/budgets/x", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
