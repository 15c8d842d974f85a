package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/services"
)

// GoalHandler handles savings-goal requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	GoalName      string           `json:"goal_name" binding:"required,min=1,max=100" example:"Vacation"`
	TargetAmount  decimal.Decimal  `json:"target_amount" binding:"required,gt=0,lte=999999999999.99" swaggertype:"number" example:"100000"`
	CurrentAmount *decimal.Decimal `json:"current_amount" binding:"omitempty,gte=0,lte=999999999999.99" swaggertype:"number" example:"0"`
	Deadline      *models.Date     `json:"deadline" swaggertype:"string" example:"2025-12-31"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
// Omitted fields are left unchanged.
type UpdateGoalRequest struct {
	CurrentAmount *decimal.Decimal `json:"current_amount" binding:"omitempty,gte=0,lte=999999999999.99" swaggertype:"number"`
	TargetAmount  *decimal.Decimal `json:"target_amount" binding:"omitempty,gt=0,lte=999999999999.99" swaggertype:"number"`
	Deadline      *models.Date     `json:"deadline" swaggertype:"string"`
}

// CreateGoal handles the creation of a new goal.
// @Summary     Create a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    TelegramInitData
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/ [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	current := decimal.Zero
	if req.CurrentAmount != nil {
		current = *req.CurrentAmount
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, req.GoalName, req.TargetAmount, current, req.Deadline)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditCreateGoal, "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"goal_name": req.GoalName, "target_amount": req.TargetAmount.String()})

	c.JSON(http.StatusCreated, goal)
}

// GetUserGoals returns all goals of the user.
// @Summary     List goals
// @Tags        goals
// @Produce     json
// @Security    TelegramInitData
// @Success     200 {array}  models.Goal
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/ [get]
func (h *GoalHandler) GetUserGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// UpdateGoal updates the progress, target or deadline of a goal.
// @Summary     Update a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    TelegramInitData
// @Param       id      path int               true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to change"
// @Success     200 {object} models.Goal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, goalID, services.GoalUpdate{
		CurrentAmount: req.CurrentAmount,
		TargetAmount:  req.TargetAmount,
		Deadline:      req.Deadline,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if req.CurrentAmount != nil {
		changes["current_amount"] = req.CurrentAmount.String()
	}
	if req.TargetAmount != nil {
		changes["target_amount"] = req.TargetAmount.String()
	}
	if req.Deadline != nil {
		changes["deadline"] = req.Deadline.String()
	}
	h.auditService.Log(c.Request.Context(), userID, services.AuditUpdateGoal, "goal", goalID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal removes a goal.
// @Summary     Delete a goal
// @Tags        goals
// @Produce     json
// @Security    TelegramInitData
// @Param       id path int true "Goal ID"
// @Success     200 {object} MessageResponse "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, services.AuditDeleteGoal, "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Goal deleted"})
}
