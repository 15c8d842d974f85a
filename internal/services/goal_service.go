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

const maxGoalNameLength = 100

// goalService handles savings-goal business logic.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal stores a new savings goal.
func (s *goalService) CreateGoal(ctx context.Context, userID uint, name string, targetAmount, currentAmount decimal.Decimal, deadline *models.Date) (*models.Goal, error) {
	if strings.TrimSpace(name) == "" || len([]rune(name)) > maxGoalNameLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal_name must be 1 to 100 characters")
	}
	if err := validateMoney("target_amount", targetAmount, false); err != nil {
		return nil, err
	}
	if err := validateMoney("current_amount", currentAmount, true); err != nil {
		return nil, err
	}
	if deadline != nil && deadline.IsZero() {
		deadline = nil
	}

	goal := &models.Goal{
		UserID:        userID,
		GoalName:      name,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		Deadline:      deadline,
	}

	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns all goals of the user, oldest first.
func (s *goalService) GetUserGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	goals := []models.Goal{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

func (s *goalService) getGoal(ctx context.Context, userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies the non-nil fields of update.
func (s *goalService) UpdateGoal(ctx context.Context, userID, goalID uint, update GoalUpdate) (*models.Goal, error) {
	if update.TargetAmount != nil {
		if err := validateMoney("target_amount", *update.TargetAmount, false); err != nil {
			return nil, err
		}
	}
	if update.CurrentAmount != nil {
		if err := validateMoney("current_amount", *update.CurrentAmount, true); err != nil {
			return nil, err
		}
	}

	goal, err := s.getGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.TargetAmount != nil {
		updates["target_amount"] = *update.TargetAmount
		goal.TargetAmount = *update.TargetAmount
	}
	if update.CurrentAmount != nil {
		updates["current_amount"] = *update.CurrentAmount
		goal.CurrentAmount = *update.CurrentAmount
	}
	if update.Deadline != nil {
		updates["deadline"] = *update.Deadline
		goal.Deadline = update.Deadline
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Goal{}).Where("id = ?", goal.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(ctx context.Context, userID, goalID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.Goal{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGoalNotFound
	}
	return nil
}
