package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekalavya-cmd/studbud-backend/internal/services"
)

type UserDataHandler struct {
	userData services.UserDataService
}

func NewUserDataHandler(userData services.UserDataService) *UserDataHandler {
	return &UserDataHandler{userData: userData}
}

// GetUserData returns the profile for the path userId, creating it with
// documented defaults on first access.
func (h *UserDataHandler) GetUserData(c *gin.Context) {
	profile, err := h.userData.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "Failed to fetch user data", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveUserData replaces the whole profile document after validation.
func (h *UserDataHandler) SaveUserData(c *gin.Context) {
	var payload services.ProfileSave
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, "Invalid request body", err)
		return
	}
	profile, err := h.userData.Save(c.Request.Context(), c.Param("userId"), payload)
	if err != nil {
		respondError(c, "Failed to save user data", err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
