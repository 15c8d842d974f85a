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

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn   func(ctx context.Context, userID uint, name string, target, current decimal.Decimal, deadline *models.Date) (*models.Goal, error)
	getUserGoalsFn func(ctx context.Context, userID uint) ([]models.Goal, error)
	updateGoalFn   func(ctx context.Context, userID, goalID uint, update services.GoalUpdate) (*models.Goal, error)
	deleteGoalFn   func(ctx context.Context, userID, goalID uint) error
}

func (m *mockGoalService) CreateGoal(ctx context.Context, userID uint, name string, target, current decimal.Decimal, deadline *models.Date) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(ctx, userID, name, target, current, deadline)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(ctx, userID)
	}
	return []models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(ctx context.Context, userID, goalID uint, update services.GoalUpdate) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(ctx, userID, goalID, update)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(ctx context.Context, userID, goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(ctx, userID, goalID)
	}
	return nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetUserGoals)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var (
			gotCurrent  decimal.Decimal
			gotDeadline *models.Date
		)
		svc := &mockGoalService{
			createGoalFn: func(_ context.Context, userID uint, name string, target, current decimal.Decimal, deadline *models.Date) (*models.Goal, error) {
				gotCurrent, gotDeadline = current, deadline
				return &models.Goal{
					Base:          models.Base{ID: 3},
					UserID:        userID,
					GoalName:      name,
					TargetAmount:  target,
					CurrentAmount: current,
					Deadline:      deadline,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupGoalRouter(NewGoalHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/goals",
			`{"goal_name":"Vacation","target_amount":100000,"current_amount":2500,"deadline":"2025-12-31"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["goal_name"] != "Vacation" || result["deadline"] != "2025-12-31" {
			t.Errorf("unexpected body %v", result)
		}
		if !gotCurrent.Equal(decimal.NewFromInt(2500)) {
			t.Errorf("expected current 2500, got %s", gotCurrent)
		}
		if gotDeadline == nil || *gotDeadline != models.NewDate(2025, 12, 31) {
			t.Errorf("unexpected deadline %v", gotDeadline)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != services.AuditCreateGoal {
			t.Errorf("expected one create audit entry, got %v", actions)
		}
	})

	t.Run("defaults current amount to zero", func(t *testing.T) {
		gotCurrent := decimal.NewFromInt(-1)
		svc := &mockGoalService{
			createGoalFn: func(_ context.Context, _ uint, _ string, _, current decimal.Decimal, deadline *models.Date) (*models.Goal, error) {
				gotCurrent = current
				if deadline != nil {
					t.Errorf("expected no deadline, got %s", deadline)
				}
				return &models.Goal{Base: models.Base{ID: 1}}, nil
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/goals", `{"goal_name":"Car","target_amount":500000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotCurrent.IsZero() {
			t.Errorf("expected zero current amount, got %s", gotCurrent)
		}
	})

	invalid := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"target_amount":100}`, "goal_name"},
		{"long name", `{"goal_name":"` + longString(101) + `","target_amount":100}`, "goal_name"},
		{"missing target", `{"goal_name":"Car"}`, "target_amount"},
		{"negative current", `{"goal_name":"Car","target_amount":100,"current_amount":-1}`, "current_amount"},
		{"target above maximum", `{"goal_name":"Car","target_amount":1000000000000}`, "target_amount"},
		{"current above maximum", `{"goal_name":"Car","target_amount":100,"current_amount":1000000000000}`, "current_amount"},
	}
	for _, tt := range invalid {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, &mockAuditService{}))

			rec := doRequest(r, http.MethodPost, "/goals", tt.body)

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
}

func TestGoalHandler_GetUserGoals(t *testing.T) {
	svc := &mockGoalService{
		getUserGoalsFn: func(_ context.Context, userID uint) ([]models.Goal, error) {
			return []models.Goal{{Base: models.Base{ID: 1}, UserID: userID, GoalName: "Car"}}, nil
		},
	}
	r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/goals", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	items := parseJSONArray(t, rec)
	if len(items) != 1 || items[0].(map[string]interface{})["goal_name"] != "Car" {
		t.Errorf("unexpected goals %v", items)
	}
}

func TestGoalHandler_UpdateGoal(t *testing.T) {
	t.Run("passes only the sent fields", func(t *testing.T) {
		var got services.GoalUpdate
		svc := &mockGoalService{
			updateGoalFn: func(_ context.Context, _ uint, goalID uint, update services.GoalUpdate) (*models.Goal, error) {
				got = update
				return &models.Goal{Base: models.Base{ID: goalID}}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupGoalRouter(NewGoalHandler(svc, audit))

		rec := doRequest(r, http.MethodPut, "/goals/9", `{"current_amount":4000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.CurrentAmount == nil || !got.CurrentAmount.Equal(decimal.NewFromInt(4000)) {
			t.Errorf("expected current amount 4000, got %v", got.CurrentAmount)
		}
		if got.TargetAmount != nil || got.Deadline != nil {
			t.Errorf("expected untouched fields to be nil, got %+v", got)
		}
		audit.mu.Lock()
		defer audit.mu.Unlock()
		if len(audit.calls) != 1 || audit.calls[0].Action != services.AuditUpdateGoal {
			t.Fatalf("expected one update audit entry, got %+v", audit.calls)
		}
		if _, ok := audit.calls[0].Changes["current_amount"]; !ok {
			t.Errorf("expected current_amount in audit changes, got %v", audit.calls[0].Changes)
		}
	})

	t.Run("returns 400 on zero target", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/goals/9", `{"target_amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 on target above maximum", func(t *testing.T) {
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/goals/9", `{"target_amount":1000000000000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if fields := errorFields(t, parseJSON(t, rec)); !containsString(fields, "target_amount") {
			t.Errorf("expected details for target_amount, got %v", fields)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockGoalService{
			updateGoalFn: func(context.Context, uint, uint, services.GoalUpdate) (*models.Goal, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/goals/9", `{"current_amount":1}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_DeleteGoal(t *testing.T) {
	t.Run("returns 200 with confirmation", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupGoalRouter(NewGoalHandler(&mockGoalService{}, audit))

		rec := doRequest(r, http.MethodDelete, "/goals/9", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Goal deleted" {
			t.Errorf("unexpected message %v", msg)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != services.AuditDeleteGoal {
			t.Errorf("expected one delete audit entry, got %v", actions)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockGoalService{
			deleteGoalFn: func(context.Context, uint, uint) error { return apperrors.ErrGoalNotFound },
		}
		r := setupGoalRouter(NewGoalHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/goals/9", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
