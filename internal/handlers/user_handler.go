package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/services"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserResponse represents the user data in the response.
type UserResponse struct {
	ID         uint   `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Username   string `json:"username,omitempty"`
}

// GetMe returns the user the request was authenticated as.
// @Summary     Current user
// @Description Returns the profile stored on first sign-in
// @Tags        users
// @Produce     json
// @Security    TelegramInitData
// @Success     200 {object} UserResponse
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:         user.ID,
		TelegramID: user.TelegramID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Username:   user.Username,
	})
}
